package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/storage"
	"github.com/IamAKX/propso-v2-sub000/internal/tasks"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// RestUploadHandler issues presigned upload URLs and accepts upload
// confirmations that hand off to the image pipeline.
type RestUploadHandler struct {
	objectStorage   storage.IObjectStorage
	propertyService services.IPropertyService
	taskClient      *asynq.Client
}

// NewRestUploadHandler creates a new RestUploadHandler.
func NewRestUploadHandler(objectStorage storage.IObjectStorage, propertyService services.IPropertyService, taskClient *asynq.Client) *RestUploadHandler {
	return &RestUploadHandler{
		objectStorage:   objectStorage,
		propertyService: propertyService,
		taskClient:      taskClient,
	}
}

// PresignUpload handles POST /v1/upload/presign. The caller uploads the file
// directly to object storage with the returned URL, then confirms.
func (h *RestUploadHandler) PresignUpload(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var body struct {
		PropertyID  string `json:"property_id"`
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename is required"})
		return
	}

	entityID := actor.UserID.String()
	if body.PropertyID != "" {
		propertyID, err := utils.ParseSixID(body.PropertyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
			return
		}
		if ok := h.checkListingOwnership(c, propertyID, actor); !ok {
			return
		}
		entityID = propertyID.String()
	}

	url, key, err := h.objectStorage.GeneratePresignedPutURL(
		c.Request.Context(), actor.UserID.String(), entityID, body.Filename, body.ContentType)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload_url": url, "key": key})
}

// ConfirmUpload handles POST /v1/upload/confirm. It enqueues the processing
// task that validates the object and attaches it to the listing.
func (h *RestUploadHandler) ConfirmUpload(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var body struct {
		Key        string `json:"key"`
		PropertyID string `json:"property_id"`
		IsVideo    bool   `json:"is_video"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Key == "" || body.PropertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key and property_id are required"})
		return
	}

	propertyID, err := utils.ParseSixID(body.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}
	if ok := h.checkListingOwnership(c, propertyID, actor); !ok {
		return
	}

	if h.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upload processing unavailable"})
		return
	}
	if err := tasks.EnqueueImageProcess(c.Request.Context(), h.taskClient, body.Key, propertyID, body.IsVideo); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule upload processing"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
}

// checkListingOwnership replies with an error and returns false unless the
// actor owns the listing or is an admin.
func (h *RestUploadHandler) checkListingOwnership(c *gin.Context, propertyID utils.SixID, actor services.Actor) bool {
	property, err := h.propertyService.GetProperty(c.Request.Context(), propertyID, actor)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if !actor.IsAdmin && !actor.Owns(property.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the listing owner may attach uploads"})
		return false
	}
	return true
}
