package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IamAKX/propso-v2-sub000/internal/services"
)

// RestFavoriteHandler handles REST requests for favorites.
type RestFavoriteHandler struct {
	favoriteService services.IFavoriteService
}

// NewRestFavoriteHandler creates a new RestFavoriteHandler.
func NewRestFavoriteHandler(favoriteService services.IFavoriteService) *RestFavoriteHandler {
	return &RestFavoriteHandler{favoriteService: favoriteService}
}

// AddFavorite handles PUT /v1/favorite/:id
func (h *RestFavoriteHandler) AddFavorite(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), actor.UserID, propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorite)
}

// RemoveFavorite handles DELETE /v1/favorite/:id
func (h *RestFavoriteHandler) RemoveFavorite(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), actor.UserID, propertyID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFavorites handles GET /v1/favorite
func (h *RestFavoriteHandler) ListFavorites(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	properties, err := h.favoriteService.ListFavorites(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}
