package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ideaboard-api/internal/middleware"
	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

const dateOnlyLayout = "2006-01-02"

func viewerFromContext(c *gin.Context) models.Viewer {
	return middleware.Viewer(c)
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid idea id")
	}
	return id, nil
}

// parseIdeaFilter reads search, category, from, to, page and page_size. A bare
// "to" date covers the whole day.
func parseIdeaFilter(c *gin.Context) (models.IdeaFilter, error) {
	filter := models.IdeaFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		from, _, err := parseQueryDate(raw)
		if err != nil {
			return filter, appErrors.Validation("invalid from parameter", "from")
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		to, dateOnly, err := parseQueryDate(raw)
		if err != nil {
			return filter, appErrors.Validation("invalid to parameter", "to")
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Second)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, appErrors.Validation("from must not be after to", "from", "to")
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "0")); err == nil {
		filter.PageSize = size
	}
	return filter, nil
}

func parseQueryDate(raw string) (time.Time, bool, error) {
	if parsed, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return parsed.UTC(), true, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return parsed.UTC(), false, nil
}
