package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IamAKX/propso-v2-sub000/internal/services"
)

// RestConfigHandler serves the public platform configuration.
type RestConfigHandler struct {
	settingsService services.ISettingsService
}

// NewRestConfigHandler creates a new RestConfigHandler.
func NewRestConfigHandler(settingsService services.ISettingsService) *RestConfigHandler {
	return &RestConfigHandler{settingsService: settingsService}
}

// GetConfig handles GET /v1/config. Clients use this to render city and
// property type selectors without hardcoding the enumerations.
func (h *RestConfigHandler) GetConfig(c *gin.Context) {
	payload, err := h.settingsService.PublicConfig(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load configuration"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// SetSetting handles PUT /v1/admin/config/:key
func (h *RestConfigHandler) SetSetting(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var body struct {
		Value interface{} `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.settingsService.Set(c.Request.Context(), actor, c.Param("key"), body.Value); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
