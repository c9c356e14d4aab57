package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var ideaSQLColumns = []string{"id", "status", "from_date", "to_date", "document_name", "date_published", "issue_number", "name", "category", "description", "detailed_description", "estimated_impact", "owner", "visibility"}

func TestIdeaSQLRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIdeaSQLRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(ideaSQLColumns).
		AddRow(5, "On Review", now, now.Add(48*time.Hour), "PROFORMA/5/AI", now, "5.00/100PLN", "Five", "AI", "d", "dd", "e", "ana", "Public").
		AddRow(2, "Draft", now, now.Add(48*time.Hour), "DRAFT/2/AI", nil, "", "Two", "AI", "", "", "", "bob", "Private")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, status, from_date")).WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT last_id FROM idea_sequence WHERE name = $1")).
		WithArgs("ideas").
		WillReturnRows(sqlmock.NewRows([]string{"last_id"}).AddRow(9))

	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Ideas, 2)
	assert.Equal(t, models.IdeaStatusOnReview, table.Ideas[0].Status)
	assert.Nil(t, table.Ideas[1].DatePublished)
	assert.Equal(t, models.VisibilityPrivate, table.Ideas[1].Visibility)
	assert.Equal(t, int64(10), table.NextID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdeaSQLRepositoryLoadWithoutSequenceRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIdeaSQLRepository(db)

	mock.ExpectQuery("SELECT id, status").WillReturnRows(sqlmock.NewRows(ideaSQLColumns))
	mock.ExpectQuery("SELECT last_id").WillReturnError(sql.ErrNoRows)

	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), table.NextID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdeaSQLRepositorySave(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIdeaSQLRepository(db)

	table := models.IdeaTable{LastID: 4, Ideas: []models.Idea{{ID: 3, Status: models.IdeaStatusDraft, Visibility: models.VisibilityPublic}}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM ideas").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO ideas").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO idea_sequence").WithArgs("ideas", int64(4)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), table))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdeaSQLRepositorySaveRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIdeaSQLRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM ideas").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO ideas").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), models.IdeaTable{Ideas: []models.Idea{{ID: 1}}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
