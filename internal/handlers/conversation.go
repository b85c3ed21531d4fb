package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ayatoki/contact-tracker-api/internal/dto"
	apierrors "github.com/ayatoki/contact-tracker-api/internal/errors"
	"github.com/ayatoki/contact-tracker-api/internal/middleware"
	"github.com/ayatoki/contact-tracker-api/internal/services"
	"github.com/ayatoki/contact-tracker-api/internal/utils"
)

// ConversationHandler serves workspace-scoped conversation endpoints.
type ConversationHandler struct {
	contactService *services.ContactService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(contactService *services.ContactService) *ConversationHandler {
	return &ConversationHandler{
		contactService: contactService,
	}
}

// CreateConversation records a conversation with optional company and
// participant references, all verified against the workspace.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type ConversationRequest struct {
		Subject        string    `json:"subject" binding:"required"`
		Notes          string    `json:"notes"`
		HappenedAt     time.Time `json:"happened_at"`
		CompanyID      *uint64   `json:"company_id"`
		ParticipantIDs []uint64  `json:"participant_ids"`
	}

	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	conv, err := h.contactService.CreateConversation(ws.ID, services.ConversationInput{
		Subject:        req.Subject,
		Notes:          req.Notes,
		HappenedAt:     req.HappenedAt,
		CompanyID:      req.CompanyID,
		ParticipantIDs: req.ParticipantIDs,
		CreatorID:      userID,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToConversationDTO(*conv))
}

// ListConversations lists the workspace's conversations, newest first.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.InternalError(c, "Workspace not found in context")
		return
	}

	params := utils.GetPaginationParams(c)
	convs, total, err := h.contactService.ListConversations(ws.ID, params)
	if err != nil {
		respondContactError(c, err)
		return
	}

	convDTOs := make([]dto.ConversationDTO, len(convs))
	for i, conv := range convs {
		convDTOs[i] = dto.ToConversationDTO(conv)
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": convDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetConversation returns one conversation with participants.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}

	conv, err := h.contactService.GetConversation(ws.ID, id)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationDTO(*conv))
}

// DeleteConversation removes a conversation and its participant rows.
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	ws, _ := middleware.GetWorkspace(c)
	id, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteConversation(ws.ID, id); err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}
