package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IamAKX/propso-v2-sub000/internal/api/handlers"
	"github.com/IamAKX/propso-v2-sub000/internal/api/middleware"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// asUser injects auth context the way AuthMiddleware would after validating
// a token.
func asUser(userID utils.SixID, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID.String())
		c.Set(middleware.ContextKeyIsAdmin, isAdmin)
		c.Next()
	}
}

func TestRestPropertyHandler_GetProperty_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	r := gin.New()
	r.GET("/v1/property/:id", handler.GetProperty)

	propertyID := utils.NewSixID()
	expected := &models.Property{
		Base:  models.Base{ID: propertyID},
		Title: "2 BHK in Indiranagar",
		City:  models.CityBangalore,
		Type:  models.PropertyTypeFlat,
	}
	mockPropSvc.On("FindPropertyByID", mock.Anything, propertyID).Return(expected, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/property/"+propertyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody models.Property
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, expected.ID, respBody.ID)
	assert.Equal(t, expected.Title, respBody.Title)
	mockPropSvc.AssertExpectations(t)
}

func TestRestPropertyHandler_GetProperty_AuthedUsesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	ownerID := utils.NewSixID()
	r := gin.New()
	r.GET("/v1/property/:id", asUser(ownerID, false), handler.GetProperty)

	propertyID := utils.NewSixID()
	expected := &models.Property{
		Base:     models.Base{ID: propertyID},
		Title:    "Pending plot",
		Approved: models.StatusPending,
		OwnerID:  &ownerID,
	}
	actor := services.Actor{UserID: ownerID}
	mockPropSvc.On("GetProperty", mock.Anything, propertyID, actor).Return(expected, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/property/"+propertyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockPropSvc.AssertExpectations(t)
	mockPropSvc.AssertNotCalled(t, "FindPropertyByID", mock.Anything, mock.Anything)
}

func TestRestPropertyHandler_GetProperty_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	r := gin.New()
	r.GET("/v1/property/:id", handler.GetProperty)

	propertyID := utils.NewSixID()
	mockPropSvc.On("FindPropertyByID", mock.Anything, propertyID).Return(nil, services.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/property/"+propertyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockPropSvc.AssertExpectations(t)
}

func TestRestPropertyHandler_GetProperty_BadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	r := gin.New()
	r.GET("/v1/property/:id", handler.GetProperty)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/property/not-an-id", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockPropSvc.AssertNotCalled(t, "FindPropertyByID", mock.Anything, mock.Anything)
}

func TestRestPropertyHandler_CreateProperty_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	userID := utils.NewSixID()
	r := gin.New()
	r.POST("/v1/property", asUser(userID, false), handler.CreateProperty)

	created := &models.Property{
		Base:     models.NewBase(),
		Title:    "3 BHK Flat",
		Approved: models.StatusPending,
		OwnerID:  &userID,
	}
	actor := services.Actor{UserID: userID}
	mockPropSvc.On("CreateProperty", mock.Anything, actor, mock.AnythingOfType("services.PropertyInput")).Return(created, nil)

	body := `{"title":"3 BHK Flat","price":"9500000","city":"Bangalore","type":"Flat","location":"Whitefield"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/property", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody models.Property
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, models.StatusPending, respBody.Approved)
	mockPropSvc.AssertExpectations(t)
}

func TestRestPropertyHandler_CreateProperty_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	r := gin.New()
	r.POST("/v1/property", handler.CreateProperty)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/property", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockPropSvc.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything, mock.Anything)
}

func TestRestPropertyHandler_SearchProperties_UnknownCity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	r := gin.New()
	r.GET("/v1/property/search", handler.SearchProperties)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/property/search?city=Atlantis", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockPropSvc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestRestPropertyHandler_SearchProperties_Filters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	r := gin.New()
	r.GET("/v1/property/search", handler.SearchProperties)

	city := models.CityMumbai
	minPrice := 2000000.0
	expectedFilter := services.PropertySearchFilter{
		City:     &city,
		MinPrice: &minPrice,
		Limit:    10,
	}
	results := []models.Property{
		{Base: models.NewBase(), Title: "Flat A", City: models.CityMumbai},
	}
	mockPropSvc.On("Search", mock.Anything, expectedFilter).Return(results, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/property/search?city=Mumbai&min_price=2000000&limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data, ok := respBody["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 1)
	mockPropSvc.AssertExpectations(t)
}

func TestRestPropertyHandler_ApproveProperty_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	userID := utils.NewSixID()
	r := gin.New()
	r.POST("/v1/admin/property/:id/approve", asUser(userID, false), handler.ApproveProperty)

	propertyID := utils.NewSixID()
	actor := services.Actor{UserID: userID}
	mockPropSvc.On("Approve", mock.Anything, propertyID, actor).Return(nil, services.ErrForbidden)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/admin/property/"+propertyID.String()+"/approve", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockPropSvc.AssertExpectations(t)
}

func TestRestPropertyHandler_RejectProperty_NoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	adminID := utils.NewSixID()
	r := gin.New()
	r.DELETE("/v1/admin/property/:id", asUser(adminID, true), handler.RejectProperty)

	propertyID := utils.NewSixID()
	actor := services.Actor{UserID: adminID, IsAdmin: true}
	mockPropSvc.On("Reject", mock.Anything, propertyID, actor).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/admin/property/"+propertyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockPropSvc.AssertExpectations(t)
}

func TestRestPropertyHandler_RemovePropertyMedia_BadFileID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockPropSvc := new(MockPropertyService)
	handler := handlers.NewRestPropertyHandler(mockPropSvc)

	userID := utils.NewSixID()
	r := gin.New()
	r.DELETE("/v1/property/:id/media/:file_id", asUser(userID, false), handler.RemovePropertyMedia)

	propertyID := utils.NewSixID()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/property/"+propertyID.String()+"/media/first", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockPropSvc.AssertNotCalled(t, "RemoveFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
