package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/dto"
	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
	"github.com/noah-isme/ideaboard-api/pkg/response"
)

type messageService interface {
	ThreadsFor(ctx context.Context, identity string) ([]models.Conversation, error)
	Append(ctx context.Context, viewer models.Viewer, req models.SendMessageRequest) (*models.Message, error)
	MarkRead(ctx context.Context, identity, counterpart string) (int, error)
	UnreadCount(ctx context.Context, identity string) (int, error)
}

// MessageHandler exposes direct messaging between users.
type MessageHandler struct {
	service messageService
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(svc messageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Threads godoc
// @Summary List conversations
// @Description Conversations of the caller, most recent first.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /messages/threads [get]
func (h *MessageHandler) Threads(c *gin.Context) {
	viewer := viewerFromContext(c)
	threads, err := h.service.ThreadsFor(c.Request.Context(), viewer.Identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, threads, nil)
}

// UnreadCount godoc
// @Summary Count unread messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	viewer := viewerFromContext(c)
	count, err := h.service.UnreadCount(c.Request.Context(), viewer.Identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UnreadCountResponse{Unread: count}, nil)
}

// Send godoc
// @Summary Send message
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SendMessageRequest true "Message"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}
	msg, err := h.service.Append(c.Request.Context(), viewerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// MarkRead godoc
// @Summary Mark conversation read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param counterpart path string true "Other participant"
// @Success 200 {object} response.Envelope
// @Router /messages/threads/{counterpart}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	counterpart := strings.TrimSpace(c.Param("counterpart"))
	if counterpart == "" {
		response.Error(c, appErrors.Validation("counterpart is required", "counterpart"))
		return
	}
	viewer := viewerFromContext(c)
	updated, err := h.service.MarkRead(c.Request.Context(), viewer.Identity, counterpart)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MarkReadResponse{Updated: updated}, nil)
}
