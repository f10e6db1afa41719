package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IamAKX/propso-v2-sub000/internal/api/handlers"
	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

func TestRestFavoriteHandler_AddFavorite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockFavSvc := new(MockFavoriteService)
	handler := handlers.NewRestFavoriteHandler(mockFavSvc)

	userID := utils.NewSixID()
	r := gin.New()
	r.PUT("/v1/favorite/:id", asUser(userID, false), handler.AddFavorite)

	propertyID := utils.NewSixID()
	favorite := &models.Favorite{
		Base:       models.NewBase(),
		UserID:     userID,
		PropertyID: propertyID,
	}
	mockFavSvc.On("AddFavorite", mock.Anything, userID, propertyID).Return(favorite, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/v1/favorite/"+propertyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockFavSvc.AssertExpectations(t)
}

func TestRestFavoriteHandler_AddFavorite_PendingListing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockFavSvc := new(MockFavoriteService)
	handler := handlers.NewRestFavoriteHandler(mockFavSvc)

	userID := utils.NewSixID()
	r := gin.New()
	r.PUT("/v1/favorite/:id", asUser(userID, false), handler.AddFavorite)

	propertyID := utils.NewSixID()
	mockFavSvc.On("AddFavorite", mock.Anything, userID, propertyID).Return(nil, services.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/v1/favorite/"+propertyID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockFavSvc.AssertExpectations(t)
}

func TestRestFavoriteHandler_ListFavorites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockFavSvc := new(MockFavoriteService)
	handler := handlers.NewRestFavoriteHandler(mockFavSvc)

	userID := utils.NewSixID()
	r := gin.New()
	r.GET("/v1/favorite", asUser(userID, false), handler.ListFavorites)

	properties := []models.Property{
		{Base: models.NewBase(), Title: "Saved flat", Approved: models.StatusApproved},
	}
	mockFavSvc.On("ListFavorites", mock.Anything, userID).Return(properties, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/favorite", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	data, ok := respBody["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 1)
	mockFavSvc.AssertExpectations(t)
}

func TestRestFavoriteHandler_RemoveFavorite_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockFavSvc := new(MockFavoriteService)
	handler := handlers.NewRestFavoriteHandler(mockFavSvc)

	r := gin.New()
	r.DELETE("/v1/favorite/:id", handler.RemoveFavorite)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/favorite/"+utils.NewSixID().String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockFavSvc.AssertNotCalled(t, "RemoveFavorite", mock.Anything, mock.Anything, mock.Anything)
}
