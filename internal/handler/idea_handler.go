package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/dto"
	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
	"github.com/noah-isme/ideaboard-api/pkg/response"
)

type ideaService interface {
	List(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter) ([]models.Idea, *models.Pagination, error)
	Get(ctx context.Context, viewer models.Viewer, id int64) (*models.Idea, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, viewer models.Viewer, fields models.IdeaFields, asDraft bool) (*models.Idea, error)
	Update(ctx context.Context, viewer models.Viewer, id int64, fields models.IdeaFields, target models.IdeaStatus) (*models.Idea, error)
	Delete(ctx context.Context, viewer models.Viewer, id int64) error
	Publish(ctx context.Context, viewer models.Viewer, id int64) (*models.Idea, error)
	Reject(ctx context.Context, viewer models.Viewer, id int64) (*models.Idea, error)
}

type ideaExporter interface {
	Render(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter, format string) (*service.ExportResult, error)
}

// IdeaHandler exposes the idea workflow over HTTP.
type IdeaHandler struct {
	ideas    ideaService
	exporter ideaExporter
}

// NewIdeaHandler constructs the handler.
func NewIdeaHandler(ideas ideaService, exporter ideaExporter) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, exporter: exporter}
}

// List godoc
// @Summary List ideas
// @Description Ideas visible to the caller, newest first. Anonymous callers only see public, non-draft ideas.
// @Tags Ideas
// @Produce json
// @Param search query string false "Case-insensitive match on name or description"
// @Param category query string false "Exact category"
// @Param from query string false "Lower bound on from date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "Upper bound on to date (YYYY-MM-DD or RFC3339)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ideas [get]
func (h *IdeaHandler) List(c *gin.Context) {
	h.list(c, models.IdeaScopeBrowse)
}

// Mine godoc
// @Summary List my ideas
// @Description Ideas owned by the caller; for investors, the ideas they saved.
// @Tags Ideas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /ideas/mine [get]
func (h *IdeaHandler) Mine(c *gin.Context) {
	h.list(c, models.IdeaScopeMine)
}

func (h *IdeaHandler) list(c *gin.Context, scope models.IdeaScope) {
	filter, err := parseIdeaFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ideas, pagination, err := h.ideas.List(c.Request.Context(), viewerFromContext(c), scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ideas, pagination)
}

// Categories godoc
// @Summary List categories
// @Tags Ideas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ideas/categories [get]
func (h *IdeaHandler) Categories(c *gin.Context) {
	categories, err := h.ideas.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Export godoc
// @Summary Export ideas
// @Description Downloads the caller's filtered idea listing as CSV or PDF.
// @Tags Ideas
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param scope query string false "browse or mine" default(browse)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /ideas/export [get]
func (h *IdeaHandler) Export(c *gin.Context) {
	filter, err := parseIdeaFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	viewer := viewerFromContext(c)
	scope := models.IdeaScopeBrowse
	if c.Query("scope") == string(models.IdeaScopeMine) {
		if !viewer.Authenticated {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		scope = models.IdeaScopeMine
	}
	result, err := h.exporter.Render(c.Request.Context(), viewer, scope, filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

// Get godoc
// @Summary Get idea
// @Description Ideas the caller may not see are reported as not found.
// @Tags Ideas
// @Produce json
// @Param id path int true "Idea ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ideas/{id} [get]
func (h *IdeaHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	viewer := viewerFromContext(c)
	idea, err := h.ideas.Get(c.Request.Context(), viewer, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail(idea, viewer), nil)
}

// Create godoc
// @Summary Create idea
// @Description Submits an idea for review, or stores it as a draft when as_draft is set.
// @Tags Ideas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateIdeaRequest true "Idea payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /ideas [post]
func (h *IdeaHandler) Create(c *gin.Context) {
	var req dto.CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid idea payload"))
		return
	}
	viewer := viewerFromContext(c)
	idea, err := h.ideas.Create(c.Request.Context(), viewer, req.IdeaFields, req.AsDraft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail(idea, viewer))
}

// Update godoc
// @Summary Update idea
// @Tags Ideas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Param payload body dto.UpdateIdeaRequest true "Idea payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /ideas/{id} [put]
func (h *IdeaHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid idea payload"))
		return
	}
	viewer := viewerFromContext(c)
	idea, err := h.ideas.Update(c.Request.Context(), viewer, id, req.IdeaFields, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail(idea, viewer), nil)
}

// Delete godoc
// @Summary Delete idea
// @Tags Ideas
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ideas/{id} [delete]
func (h *IdeaHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.ideas.Delete(c.Request.Context(), viewerFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish idea
// @Description Moves an idea under review to Accepted.
// @Tags Ideas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /ideas/{id}/publish [post]
func (h *IdeaHandler) Publish(c *gin.Context) {
	h.review(c, h.ideas.Publish)
}

// Reject godoc
// @Summary Reject idea
// @Tags Ideas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /ideas/{id}/reject [post]
func (h *IdeaHandler) Reject(c *gin.Context) {
	h.review(c, h.ideas.Reject)
}

func (h *IdeaHandler) review(c *gin.Context, decide func(context.Context, models.Viewer, int64) (*models.Idea, error)) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	viewer := viewerFromContext(c)
	idea, err := decide(c.Request.Context(), viewer, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail(idea, viewer), nil)
}

func detail(idea *models.Idea, viewer models.Viewer) dto.IdeaDetail {
	canEdit := service.CapabilitiesFor(viewer).Edit && (viewer.IsAdmin() || idea.Owner == viewer.Identity)
	return dto.IdeaDetail{Idea: *idea, CanEdit: canEdit}
}
