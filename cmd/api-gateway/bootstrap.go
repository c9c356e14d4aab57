package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
	"github.com/noah-isme/ideaboard-api/pkg/config"
)

type userTable interface {
	Exists(ctx context.Context) (bool, error)
	Upsert(ctx context.Context, user models.User) error
}

// bootstrapAdmin creates the configured admin account when the user table file does not exist yet.
// An existing file is never rewritten here, even when it holds no readable rows.
func bootstrapAdmin(ctx context.Context, users userTable, cfg config.BootstrapConfig, logr *zap.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	exists, err := users.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check user table: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := service.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	if err := users.Upsert(ctx, models.User{
		Username: cfg.AdminUsername,
		Password: hash,
		Status:   models.UserStatusActive,
		Role:     models.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("store bootstrap admin: %w", err)
	}
	logr.Warn("created bootstrap admin account, change its password", zap.String("username", cfg.AdminUsername))
	return nil
}
