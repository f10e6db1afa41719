package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
)

// RestPropertyHandler handles REST requests for property listings.
type RestPropertyHandler struct {
	propertyService services.IPropertyService
}

// NewRestPropertyHandler creates a new RestPropertyHandler.
func NewRestPropertyHandler(propertyService services.IPropertyService) *RestPropertyHandler {
	return &RestPropertyHandler{propertyService: propertyService}
}

// SearchProperties handles GET /v1/property/search
func (h *RestPropertyHandler) SearchProperties(c *gin.Context) {
	filter := services.PropertySearchFilter{}

	if cityStr := c.Query("city"); cityStr != "" {
		city := models.City(cityStr)
		if !city.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown city"})
			return
		}
		filter.City = &city
	}
	if typeStr := c.Query("type"); typeStr != "" {
		pType := models.PropertyType(typeStr)
		if !pType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown property type"})
			return
		}
		filter.Type = &pType
	}
	if minStr := c.Query("min_price"); minStr != "" {
		if v, err := strconv.ParseFloat(minStr, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if v, err := strconv.ParseFloat(maxStr, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	filter.Limit = limit
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil && skip > 0 {
		filter.Skip = skip
	}

	properties, err := h.propertyService.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

// GetProperty handles GET /v1/property/:id. Anonymous callers see only
// approved listings; owners and admins see their listings in any state.
func (h *RestPropertyHandler) GetProperty(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if actor, authed := actorFromContext(c); authed {
		property, err := h.propertyService.GetProperty(c.Request.Context(), propertyID, actor)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, property)
		return
	}

	property, err := h.propertyService.FindPropertyByID(c.Request.Context(), propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// CreateProperty handles POST /v1/property
func (h *RestPropertyHandler) CreateProperty(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var input services.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// UpdateProperty handles PATCH /v1/property/:id
func (h *RestPropertyHandler) UpdateProperty(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates services.PropertyUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), propertyID, actor, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// ApproveProperty handles POST /v1/admin/property/:id/approve
func (h *RestPropertyHandler) ApproveProperty(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.Approve(c.Request.Context(), propertyID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// MarkPropertySold handles POST /v1/property/:id/sold
func (h *RestPropertyHandler) MarkPropertySold(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.MarkSold(c.Request.Context(), propertyID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// RejectProperty handles DELETE /v1/admin/property/:id. Rejection removes the
// listing outright along with its favorites, leads and stored media.
func (h *RestPropertyHandler) RejectProperty(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Reject(c.Request.Context(), propertyID, actor); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddPropertyMedia handles POST /v1/property/:id/media
func (h *RestPropertyHandler) AddPropertyMedia(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		Files []services.NewMediaFile `json:"files"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must contain at least one file"})
		return
	}

	property, err := h.propertyService.AddFiles(c.Request.Context(), propertyID, actor, body.Files)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// RemovePropertyMedia handles DELETE /v1/property/:id/media/:file_id
func (h *RestPropertyHandler) RemovePropertyMedia(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	property, err := h.propertyService.RemoveFile(c.Request.Context(), propertyID, fileID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// ListMyProperties handles GET /v1/my/properties
func (h *RestPropertyHandler) ListMyProperties(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	properties, err := h.propertyService.FindByOwner(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

// ListPendingProperties handles GET /v1/admin/property/pending
func (h *RestPropertyHandler) ListPendingProperties(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	properties, err := h.propertyService.ListPending(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}
