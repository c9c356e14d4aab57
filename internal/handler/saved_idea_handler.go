package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/response"
)

type savedIdeaService interface {
	Save(ctx context.Context, viewer models.Viewer, ideaID int64) error
	Remove(ctx context.Context, viewer models.Viewer, ideaID int64) error
	List(ctx context.Context, viewer models.Viewer, filter models.IdeaFilter) ([]models.Idea, *models.Pagination, error)
}

// SavedIdeaHandler exposes investor bookmarks.
type SavedIdeaHandler struct {
	service savedIdeaService
}

// NewSavedIdeaHandler constructs the handler.
func NewSavedIdeaHandler(svc savedIdeaService) *SavedIdeaHandler {
	return &SavedIdeaHandler{service: svc}
}

// List godoc
// @Summary List saved ideas
// @Tags Saved Ideas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /saved-ideas [get]
func (h *SavedIdeaHandler) List(c *gin.Context) {
	filter, err := parseIdeaFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ideas, pagination, err := h.service.List(c.Request.Context(), viewerFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ideas, pagination)
}

// Save godoc
// @Summary Save idea
// @Tags Saved Ideas
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /saved-ideas/{id} [post]
func (h *SavedIdeaHandler) Save(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Save(c.Request.Context(), viewerFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Remove godoc
// @Summary Remove saved idea
// @Tags Saved Ideas
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 204
// @Router /saved-ideas/{id} [delete]
func (h *SavedIdeaHandler) Remove(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Remove(c.Request.Context(), viewerFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
