package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/IamAKX/propso-v2-sub000/internal/models"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/tasks"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// RestLeadHandler handles REST requests for leads.
type RestLeadHandler struct {
	leadService services.ILeadService
	taskClient  *asynq.Client // nil disables notifications
}

// NewRestLeadHandler creates a new RestLeadHandler.
func NewRestLeadHandler(leadService services.ILeadService, taskClient *asynq.Client) *RestLeadHandler {
	return &RestLeadHandler{leadService: leadService, taskClient: taskClient}
}

// CreateLead handles POST /v1/lead. Anonymous enquiries pass the captcha
// middleware and must reference a property so the lead lands with its owner.
func (h *RestLeadHandler) CreateLead(c *gin.Context) {
	var input services.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	actor, authed := actorFromContext(c)
	if !authed && input.PropertyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Anonymous enquiries must reference a property"})
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.taskClient != nil && lead.OwnerID != (utils.SixID{}) && lead.OwnerID != actor.UserID {
		if err := tasks.EnqueueLeadNotify(c.Request.Context(), h.taskClient, lead.ID, lead.OwnerID); err != nil {
			log.Printf("Failed to enqueue lead notification for %s: %v", lead.ID.String(), err)
		}
	}

	c.JSON(http.StatusCreated, lead)
}

// GetLead handles GET /v1/lead/:id
func (h *RestLeadHandler) GetLead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.FindLeadByID(c.Request.Context(), leadID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// ListMyLeads handles GET /v1/my/leads
func (h *RestLeadHandler) ListMyLeads(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	leads, err := h.leadService.FindLeadsByOwner(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leads})
}

// ListAllLeads handles GET /v1/admin/lead
func (h *RestLeadHandler) ListAllLeads(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 100
	}

	leads, err := h.leadService.ListAllLeads(c.Request.Context(), actor, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leads})
}

// SetLeadStatus handles POST /v1/lead/:id/status
func (h *RestLeadHandler) SetLeadStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		Status models.LeadStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lead, err := h.leadService.SetStatus(c.Request.Context(), leadID, actor, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// AddLeadComment handles POST /v1/lead/:id/comment
func (h *RestLeadHandler) AddLeadComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lead, err := h.leadService.AddComment(c.Request.Context(), leadID, actor, body.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// DeleteLead handles DELETE /v1/lead/:id
func (h *RestLeadHandler) DeleteLead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	leadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.leadService.DeleteLead(c.Request.Context(), leadID, actor); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
