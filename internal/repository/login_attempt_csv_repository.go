package repository

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

var loginAttemptColumns = []string{"username", "timestamp"}

// LoginAttemptCSVRepository stores failed logins in a flat CSV file.
type LoginAttemptCSVRepository struct {
	table  csvTable
	logger *zap.Logger
}

// NewLoginAttemptCSVRepository constructs the CSV login attempt store.
func NewLoginAttemptCSVRepository(store *storage.LocalStorage, file string, logger *zap.Logger) *LoginAttemptCSVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginAttemptCSVRepository{table: newCSVTable(store, file, loginAttemptColumns, logger), logger: logger}
}

// Load returns every recorded attempt, oldest first.
func (r *LoginAttemptCSVRepository) Load(ctx context.Context) ([]models.LoginAttempt, error) {
	rows := r.table.read(loginAttemptColumns...)
	attempts := make([]models.LoginAttempt, 0, len(rows))
	for _, row := range rows {
		ts, err := parseDate(row.get("timestamp"))
		if err != nil || ts == nil {
			r.logger.Warn("skipping login attempt row", zap.String("username", row.get("username")), zap.Error(err))
			continue
		}
		attempts = append(attempts, models.LoginAttempt{Username: row.get("username"), Timestamp: *ts})
	}
	sort.SliceStable(attempts, func(i, j int) bool { return attempts[i].Timestamp.Before(attempts[j].Timestamp) })
	return attempts, nil
}

// Save overwrites the attempt table.
func (r *LoginAttemptCSVRepository) Save(ctx context.Context, attempts []models.LoginAttempt) error {
	records := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		records = append(records, []string{a.Username, formatTime(a.Timestamp)})
	}
	if err := r.table.write(records); err != nil {
		return fmt.Errorf("save login attempts: %w", err)
	}
	return nil
}
