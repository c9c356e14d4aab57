package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

// IdeaColumns is the header of the idea table, in file order.
var IdeaColumns = []string{
	"id",
	"Status",
	"From date",
	"To date",
	"Document name",
	"Date published",
	"Issue Number",
	"Name",
	"Category",
	"Description",
	"Detailed Description",
	"Estimated Impact / Target Audience",
	"Owner",
	"Visibility Setting",
}

// IdeaCSVRepository stores the idea table as a flat CSV file with a sibling
// ".seq" file holding the id high-water mark.
type IdeaCSVRepository struct {
	table  csvTable
	store  *storage.LocalStorage
	seq    string
	logger *zap.Logger
}

// NewIdeaCSVRepository constructs the CSV idea store.
func NewIdeaCSVRepository(store *storage.LocalStorage, file string, logger *zap.Logger) *IdeaCSVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaCSVRepository{
		table:  newCSVTable(store, file, IdeaColumns, logger),
		store:  store,
		seq:    file + ".seq",
		logger: logger,
	}
}

// Load returns the whole table sorted newest id first.
func (r *IdeaCSVRepository) Load(ctx context.Context) (models.IdeaTable, error) {
	table := models.IdeaTable{LastID: r.loadSequence()}
	for _, row := range r.table.read("id") {
		idea, err := r.decode(row)
		if err != nil {
			r.logger.Warn("skipping idea row", zap.String("file", r.table.file), zap.Error(err))
			continue
		}
		table.Ideas = append(table.Ideas, idea)
	}
	table.SortNewestFirst()
	return table, nil
}

// Save overwrites the table. The high-water mark only ever grows.
func (r *IdeaCSVRepository) Save(ctx context.Context, table models.IdeaTable) error {
	sorted := table.Clone()
	sorted.SortNewestFirst()

	records := make([][]string, 0, len(sorted.Ideas))
	for _, idea := range sorted.Ideas {
		records = append(records, encodeIdea(idea))
	}
	if err := r.table.write(records); err != nil {
		return fmt.Errorf("save ideas: %w", err)
	}

	last := sorted.NextID() - 1
	if stored := r.loadSequence(); stored > last {
		last = stored
	}
	if err := r.store.WriteAtomic(r.seq, []byte(strconv.FormatInt(last, 10)+"\n")); err != nil {
		return fmt.Errorf("save idea sequence: %w", err)
	}
	return nil
}

func (r *IdeaCSVRepository) loadSequence() int64 {
	raw, err := r.store.Read(r.seq)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			r.logger.Warn("read idea sequence failed", zap.Error(err))
		}
		return 0
	}
	last, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		r.logger.Warn("idea sequence unparsable", zap.Error(err))
		return 0
	}
	return last
}

func (r *IdeaCSVRepository) decode(row csvRow) (models.Idea, error) {
	id, err := parseID(row.get("id"))
	if err != nil {
		return models.Idea{}, err
	}
	idea := models.Idea{
		ID:                  id,
		Status:              models.IdeaStatus(row.get("Status")),
		DocumentName:        row.get("Document name"),
		IssueNumber:         row.get("Issue Number"),
		Name:                row.get("Name"),
		Category:            row.get("Category"),
		Description:         row.get("Description"),
		DetailedDescription: row.get("Detailed Description"),
		EstimatedImpact:     row.get("Estimated Impact / Target Audience"),
		Owner:               row.get("Owner"),
		Visibility:          models.Visibility(row.get("Visibility Setting")),
	}
	if idea.Visibility != models.VisibilityPrivate {
		idea.Visibility = models.VisibilityPublic
	}
	if !idea.Status.Valid() {
		r.logger.Warn("unknown idea status kept as is, the idea is frozen until fixed by hand",
			zap.Int64("id", id), zap.String("status", string(idea.Status)))
	}

	dates := []struct {
		column string
		dest   **time.Time
	}{
		{"From date", &idea.FromDate},
		{"To date", &idea.ToDate},
		{"Date published", &idea.DatePublished},
	}
	for _, d := range dates {
		ts, err := parseDate(row.get(d.column))
		if err != nil {
			r.logger.Warn("dropping unparsable date", zap.Int64("id", id), zap.String("column", d.column), zap.Error(err))
			continue
		}
		*d.dest = ts
	}
	return idea, nil
}

func encodeIdea(idea models.Idea) []string {
	return []string{
		strconv.FormatInt(idea.ID, 10),
		string(idea.Status),
		formatDate(idea.FromDate),
		formatDate(idea.ToDate),
		idea.DocumentName,
		formatDate(idea.DatePublished),
		idea.IssueNumber,
		idea.Name,
		idea.Category,
		idea.Description,
		idea.DetailedDescription,
		idea.EstimatedImpact,
		idea.Owner,
		string(idea.Visibility),
	}
}

// parseID accepts integers and the float rendering ("7.0") some spreadsheet exports produce.
func parseID(value string) (int64, error) {
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return int64(f), nil
}
