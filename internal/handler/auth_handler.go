package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
	"github.com/noah-isme/ideaboard-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

type unreadCounter interface {
	UnreadCount(ctx context.Context, identity string) (int, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service  authService
	messages unreadCounter
}

// NewAuthHandler creates a new handler. messages may be nil, in which case the
// profile reports no unread messages.
func NewAuthHandler(svc authService, messages unreadCounter) *AuthHandler {
	return &AuthHandler{service: svc, messages: messages}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by username and password. Five failures within the lockout window block further attempts.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated user's role, capabilities, navigation and unread message count
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	viewer := viewerFromContext(c)
	if !viewer.Authenticated {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile := models.Profile{
		User:         models.UserInfo{Username: viewer.Identity, Role: viewer.Role},
		Capabilities: service.CapabilitiesFor(viewer),
		Navigation:   service.NavigationFor(viewer),
	}
	if h.messages != nil {
		unread, err := h.messages.UnreadCount(c.Request.Context(), viewer.Identity)
		if err != nil {
			response.Error(c, err)
			return
		}
		profile.UnreadCount = unread
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
