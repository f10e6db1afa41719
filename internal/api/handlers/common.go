package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IamAKX/propso-v2-sub000/internal/api/middleware"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// actorFromContext builds the service-layer capability from the values the
// auth middleware stored in the Gin context.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userIDStr, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		return services.Actor{}, false
	}
	userID, err := utils.ParseSixID(userIDStr.(string))
	if err != nil {
		return services.Actor{}, false
	}
	return services.Actor{
		UserID:  userID,
		IsAdmin: c.GetBool(middleware.ContextKeyIsAdmin),
	}, true
}

// requireActor aborts with 401 when no authenticated actor is present.
func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return actor, ok
}

// respondServiceError translates service-layer sentinel errors to HTTP status
// codes. Anything unrecognized is a 500 with a generic message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseIDParam parses the :id path parameter, replying 400 on failure.
func parseIDParam(c *gin.Context, name string) (utils.SixID, bool) {
	id, err := utils.ParseSixID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return utils.SixID{}, false
	}
	return id, true
}
