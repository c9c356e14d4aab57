package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/repository"
	"github.com/noah-isme/ideaboard-api/internal/service"
	"github.com/noah-isme/ideaboard-api/pkg/config"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

var bootstrapCfg = config.BootstrapConfig{AdminUsername: "admin", AdminPassword: "aA1234"}

type memoryUsers struct {
	exists bool
	users  []models.User
}

func (m *memoryUsers) Exists(context.Context) (bool, error) {
	return m.exists, nil
}

func (m *memoryUsers) Upsert(_ context.Context, user models.User) error {
	m.exists = true
	m.users = append(m.users, user)
	return nil
}

func TestBootstrapAdmin(t *testing.T) {
	users := &memoryUsers{}

	require.NoError(t, bootstrapAdmin(context.Background(), users, bootstrapCfg, zap.NewNop()))
	require.Len(t, users.users, 1)
	assert.Equal(t, models.RoleAdmin, users.users[0].Role)
	assert.NotEqual(t, "aA1234", users.users[0].Password)
	assert.True(t, service.PasswordMatches(users.users[0].Password, "aA1234"))

	require.NoError(t, bootstrapAdmin(context.Background(), users, bootstrapCfg, zap.NewNop()))
	assert.Len(t, users.users, 1, "existing accounts are left alone")
}

func TestBootstrapAdminLeavesExistingEmptyTable(t *testing.T) {
	users := &memoryUsers{exists: true}
	require.NoError(t, bootstrapAdmin(context.Background(), users, bootstrapCfg, zap.NewNop()))
	assert.Empty(t, users.users)
}

func TestBootstrapAdminKeepsAccountsBesideMalformedRow(t *testing.T) {
	dir := t.TempDir()
	content := "username,password,status,role\n" +
		"ana,pw1,active,student\n" +
		"bob,pw\"2,active,investor\n" +
		"carl,pw3,active,admin\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), []byte(content), 0o644))
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	users := repository.NewUserCSVRepository(store, "users.csv", nil)

	require.NoError(t, bootstrapAdmin(context.Background(), users, bootstrapCfg, zap.NewNop()))

	raw, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	assert.Equal(t, content, string(raw), "an existing table is never rewritten at startup")

	loaded, err := users.Load(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(loaded))
	for _, u := range loaded {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"ana", "bob", "carl"}, names)
}

func TestBootstrapAdminCreatesMissingTable(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	users := repository.NewUserCSVRepository(store, "users.csv", nil)

	require.NoError(t, bootstrapAdmin(context.Background(), users, bootstrapCfg, zap.NewNop()))
	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}
