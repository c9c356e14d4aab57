package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/middleware"
	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
	"github.com/noah-isme/ideaboard-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, viewer models.Viewer) (*models.IdeaSummary, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Idea statistics
// @Description Totals, acceptance rate, per-category breakdown and recently published ideas over the caller's visible set.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Summary(c.Request.Context(), viewerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ResponseMeta(c))
}
