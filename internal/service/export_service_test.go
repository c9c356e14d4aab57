package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

func newTestExportService(ideas []models.Idea) *ExportService {
	svc := NewExportService(&stubVisible{ideas: ideas}, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	published := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestExportService([]models.Idea{{
		ID:            3,
		Status:        models.IdeaStatusAccepted,
		DatePublished: &published,
		Name:          "Grid, balanced",
		Category:      "ENERGY",
		Owner:         "ana",
		Visibility:    models.VisibilityPublic,
	}})

	result, err := svc.Render(context.Background(), ana, models.IdeaScopeBrowse, models.IdeaFilter{}, "")
	require.NoError(t, err)
	assert.Equal(t, "ideas_20240510_093000.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,Status,"))
	assert.Equal(t, `3,Accepted,,,,2024-03-01 08:00:00,,"Grid, balanced",ENERGY,,,,ana,Public`, lines[1])
}

func TestExportServicePDF(t *testing.T) {
	svc := newTestExportService([]models.Idea{{ID: 1, Name: "Triage", Status: models.IdeaStatusOnReview}})
	result, err := svc.Render(context.Background(), admin, models.IdeaScopeBrowse, models.IdeaFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(result.Body, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, err := newTestExportService(nil).Render(context.Background(), admin, models.IdeaScopeBrowse, models.IdeaFilter{}, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
