package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/ideaboard-api/pkg/config"
)

// DSN renders the lib/pq connection string.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewPostgres returns a configured PostgreSQL client with the idea schema in place.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Schema holds the idempotent DDL for the idea table and its id sequence row.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS ideas (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		detailed_description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		estimated_impact TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		visibility TEXT NOT NULL,
		document_name TEXT NOT NULL DEFAULT '',
		issue_number TEXT NOT NULL DEFAULT '',
		date_published TIMESTAMPTZ NULL,
		from_date TIMESTAMPTZ NULL,
		to_date TIMESTAMPTZ NULL,
		owner TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS idea_sequence (
		name TEXT PRIMARY KEY,
		last_id BIGINT NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema applies Schema statements in order.
func EnsureSchema(ctx context.Context, db sqlx.ExecerContext) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
