package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

var userColumns = []string{"username", "password", "status", "role"}

// UserCSVRepository stores accounts in a flat CSV file.
type UserCSVRepository struct {
	table csvTable
}

// NewUserCSVRepository constructs the CSV user store.
func NewUserCSVRepository(store *storage.LocalStorage, file string, logger *zap.Logger) *UserCSVRepository {
	return &UserCSVRepository{table: newCSVTable(store, file, userColumns, logger)}
}

// Load returns every account. Rows without a role default to student.
func (r *UserCSVRepository) Load(ctx context.Context) ([]models.User, error) {
	rows := r.table.read("username", "password")
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		username := row.get("username")
		if username == "" {
			continue
		}
		user := models.User{
			Username: username,
			Password: row.get("password"),
			Status:   models.UserStatus(strings.ToLower(row.get("status"))),
			Role:     models.UserRole(strings.ToLower(row.get("role"))),
		}
		if user.Status == "" {
			user.Status = models.UserStatusActive
		}
		if !user.Role.Valid() {
			user.Role = models.RoleStudent
		}
		users = append(users, user)
	}
	return users, nil
}

// Exists reports whether the user table file is present.
func (r *UserCSVRepository) Exists(ctx context.Context) (bool, error) {
	return r.table.exists()
}

// FindByUsername returns the account with the given identity.
func (r *UserCSVRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

// Save overwrites the user table sorted by username.
func (r *UserCSVRepository) Save(ctx context.Context, users []models.User) error {
	sorted := append([]models.User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Username < sorted[j].Username })

	records := make([][]string, 0, len(sorted))
	for _, u := range sorted {
		records = append(records, []string{u.Username, u.Password, string(u.Status), string(u.Role)})
	}
	if err := r.table.write(records); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// Upsert inserts or replaces one account.
func (r *UserCSVRepository) Upsert(ctx context.Context, user models.User) error {
	users, err := r.Load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].Username == user.Username {
			users[i] = user
			replaced = true
		}
	}
	if !replaced {
		users = append(users, user)
	}
	return r.Save(ctx, users)
}
