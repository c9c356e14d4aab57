package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/repository"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
	"github.com/noah-isme/ideaboard-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the viewer's filtered idea set as a downloadable file.
type ExportService struct {
	ideas     visibleIdeaProvider
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(ideas visibleIdeaProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		ideas: ideas,
		renderers: map[string]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(3, 1.2, 1, 1.2),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Render builds the export for the given format.
func (s *ExportService) Render(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation(fmt.Sprintf("unsupported export format %q", format), "format")
	}

	ideas, err := s.ideas.Visible(ctx, viewer, scope, filter)
	if err != nil {
		return nil, err
	}

	var dataset export.Dataset
	if format == ExportFormatPDF {
		dataset = summaryDataset(ideas)
	} else {
		dataset = tableDataset(ideas)
	}
	body, err := r.Render(dataset)
	if err != nil {
		s.logger.Error("export render failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("ideas_%s.%s", s.now().UTC().Format("20060102_150405"), r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}

// tableDataset mirrors the stored idea table.
func tableDataset(ideas []models.Idea) export.Dataset {
	rows := make([][]string, 0, len(ideas))
	for _, idea := range ideas {
		rows = append(rows, []string{
			strconv.FormatInt(idea.ID, 10),
			string(idea.Status),
			formatExportDate(idea.FromDate),
			formatExportDate(idea.ToDate),
			idea.DocumentName,
			formatExportDate(idea.DatePublished),
			idea.IssueNumber,
			idea.Name,
			idea.Category,
			idea.Description,
			idea.DetailedDescription,
			idea.EstimatedImpact,
			idea.Owner,
			string(idea.Visibility),
		})
	}
	return export.Dataset{Title: "Ideas", Headers: repository.IdeaColumns, Rows: rows}
}

func summaryDataset(ideas []models.Idea) export.Dataset {
	rows := make([][]string, 0, len(ideas))
	for _, idea := range ideas {
		rows = append(rows, []string{idea.Name, idea.Category, string(idea.Status), formatExportDate(idea.DatePublished)})
	}
	return export.Dataset{Title: "Ideas", Headers: []string{"Name", "Category", "Status", "Date published"}, Rows: rows}
}

func formatExportDate(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(repository.DateLayout)
}
