package repository

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

var savedIdeaColumns = []string{"username", "idea_id"}

// SavedIdeaCSVRepository stores investor bookmarks in a flat CSV file.
type SavedIdeaCSVRepository struct {
	table  csvTable
	logger *zap.Logger
}

// NewSavedIdeaCSVRepository constructs the CSV saved-idea store.
func NewSavedIdeaCSVRepository(store *storage.LocalStorage, file string, logger *zap.Logger) *SavedIdeaCSVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedIdeaCSVRepository{table: newCSVTable(store, file, savedIdeaColumns, logger), logger: logger}
}

// Load returns every bookmark, dropping duplicate pairs.
func (r *SavedIdeaCSVRepository) Load(ctx context.Context) ([]models.SavedIdea, error) {
	rows := r.table.read(savedIdeaColumns...)
	seen := make(map[models.SavedIdea]struct{}, len(rows))
	saved := make([]models.SavedIdea, 0, len(rows))
	for _, row := range rows {
		id, err := parseID(row.get("idea_id"))
		if err != nil {
			r.logger.Warn("skipping saved idea row", zap.Error(err))
			continue
		}
		entry := models.SavedIdea{Username: row.get("username"), IdeaID: id}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		saved = append(saved, entry)
	}
	return saved, nil
}

// Save overwrites the bookmark table.
func (r *SavedIdeaCSVRepository) Save(ctx context.Context, saved []models.SavedIdea) error {
	records := make([][]string, 0, len(saved))
	for _, s := range saved {
		records = append(records, []string{s.Username, strconv.FormatInt(s.IdeaID, 10)})
	}
	if err := r.table.write(records); err != nil {
		return fmt.Errorf("save saved ideas: %w", err)
	}
	return nil
}
