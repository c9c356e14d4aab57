package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/repository"
	"github.com/noah-isme/ideaboard-api/internal/service"
	"github.com/noah-isme/ideaboard-api/pkg/config"
	"github.com/noah-isme/ideaboard-api/pkg/logger"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	username := pflag.StringP("username", "u", "", "account name")
	password := pflag.StringP("password", "p", "", "plain text password, hashed before storing")
	role := pflag.StringP("role", "r", string(models.RoleStudent), "admin, student or investor")
	disabled := pflag.Bool("disabled", false, "store the account as disabled")
	dataDir := pflag.String("data-dir", cfg.Storage.DataDir, "directory holding the tables")
	pflag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	user, err := buildUser(*username, *password, *role, *disabled)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(2)
	}

	files, err := storage.NewLocalStorage(*dataDir)
	if err != nil {
		logr.Fatal("failed to prepare data directory", zap.Error(err))
	}
	users := repository.NewUserCSVRepository(files, cfg.Storage.UsersFile, logr)
	if err := users.Upsert(context.Background(), user); err != nil {
		logr.Fatal("failed to store user", zap.Error(err))
	}
	logr.Info("stored user",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)),
	)
}

// buildUser validates the flags and returns the row to store with its password hashed.
func buildUser(username, password, role string, disabled bool) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("--username is required")
	}
	if password == "" {
		return models.User{}, fmt.Errorf("--password is required")
	}
	userRole := models.UserRole(strings.ToLower(strings.TrimSpace(role)))
	if !userRole.Valid() {
		return models.User{}, fmt.Errorf("unknown role %q", role)
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	status := models.UserStatusActive
	if disabled {
		status = models.UserStatusDisabled
	}
	return models.User{Username: username, Password: hash, Status: status, Role: userRole}, nil
}
