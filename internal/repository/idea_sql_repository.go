package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

const ideaSequenceName = "ideas"

const ideaSelectColumns = `id, status, from_date, to_date, document_name, date_published, issue_number, name, category, description, detailed_description, estimated_impact, owner, visibility`

// IdeaSQLRepository keeps the idea table in PostgreSQL while preserving whole-table semantics.
type IdeaSQLRepository struct {
	db *sqlx.DB
}

// NewIdeaSQLRepository constructs the Postgres idea store.
func NewIdeaSQLRepository(db *sqlx.DB) *IdeaSQLRepository {
	return &IdeaSQLRepository{db: db}
}

// Load returns all rows newest id first together with the id high-water mark.
func (r *IdeaSQLRepository) Load(ctx context.Context) (models.IdeaTable, error) {
	var table models.IdeaTable
	query := `SELECT ` + ideaSelectColumns + ` FROM ideas ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &table.Ideas, query); err != nil {
		return models.IdeaTable{}, fmt.Errorf("load ideas: %w", err)
	}

	const seqQuery = `SELECT last_id FROM idea_sequence WHERE name = $1`
	if err := r.db.GetContext(ctx, &table.LastID, seqQuery, ideaSequenceName); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.IdeaTable{}, fmt.Errorf("load idea sequence: %w", err)
	}
	return table, nil
}

// Save replaces every row inside one transaction.
func (r *IdeaSQLRepository) Save(ctx context.Context, table models.IdeaTable) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save ideas: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM ideas`); err != nil {
		return fmt.Errorf("clear ideas: %w", err)
	}

	const insert = `INSERT INTO ideas (` + ideaSelectColumns + `) VALUES (:id, :status, :from_date, :to_date, :document_name, :date_published, :issue_number, :name, :category, :description, :detailed_description, :estimated_impact, :owner, :visibility)`
	for i := range table.Ideas {
		if _, err = tx.NamedExecContext(ctx, insert, &table.Ideas[i]); err != nil {
			return fmt.Errorf("insert idea %d: %w", table.Ideas[i].ID, err)
		}
	}

	const upsertSeq = `INSERT INTO idea_sequence (name, last_id) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET last_id = GREATEST(idea_sequence.last_id, EXCLUDED.last_id)`
	if _, err = tx.ExecContext(ctx, upsertSeq, ideaSequenceName, table.NextID()-1); err != nil {
		return fmt.Errorf("update idea sequence: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save ideas: %w", err)
	}
	return nil
}
