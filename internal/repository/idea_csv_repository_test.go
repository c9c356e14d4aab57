package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

func newIdeaCSV(t *testing.T) (*IdeaCSVRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return NewIdeaCSVRepository(store, "ideas.csv", nil), dir
}

func ts(value string) *time.Time {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func sampleTable() models.IdeaTable {
	return models.IdeaTable{Ideas: []models.Idea{
		{
			ID: 1, Status: models.IdeaStatusAccepted,
			FromDate: ts("2024-01-01 09:00:00"), ToDate: ts("2024-03-01 09:00:00"), DatePublished: ts("2024-01-02 10:30:00"),
			DocumentName: "PROFORMA/1/HEA", IssueNumber: "1.00/512PLN",
			Name: "Triage bot", Category: "HEALTH", Description: "Chat, \"quoted\" and\nmultiline",
			DetailedDescription: "details", EstimatedImpact: "Patients", Owner: "ana", Visibility: models.VisibilityPublic,
		},
		{
			ID: 3, Status: models.IdeaStatusDraft, FromDate: ts("2024-02-01 08:00:00"), ToDate: ts("2024-04-01 08:00:00"),
			DocumentName: "DRAFT/3/ENE", Name: "Grid", Category: "ENERGY", Owner: "bob", Visibility: models.VisibilityPrivate,
		},
	}}
}

func TestIdeaCSVRepositoryLoadMissingFile(t *testing.T) {
	repo, _ := newIdeaCSV(t)
	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table.Ideas)
	assert.Equal(t, int64(1), table.NextID())
}

func TestIdeaCSVRepositoryRoundTripIsIdempotent(t *testing.T) {
	repo, dir := newIdeaCSV(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleTable()))
	first, err := os.ReadFile(filepath.Join(dir, "ideas.csv"))
	require.NoError(t, err)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Ideas, 2)
	assert.Equal(t, int64(3), loaded.Ideas[0].ID, "newest id first")
	assert.Equal(t, "Chat, \"quoted\" and\nmultiline", loaded.Ideas[1].Description)
	assert.Nil(t, loaded.Ideas[0].DatePublished)

	require.NoError(t, repo.Save(ctx, loaded))
	second, err := os.ReadFile(filepath.Join(dir, "ideas.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestIdeaCSVRepositoryKeepsHighWaterMark(t *testing.T) {
	repo, _ := newIdeaCSV(t)
	ctx := context.Background()

	table := sampleTable()
	require.NoError(t, repo.Save(ctx, table))

	table.Ideas = table.Ideas[:1] // id 3 deleted
	require.NoError(t, repo.Save(ctx, models.IdeaTable{Ideas: table.Ideas}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Ideas, 1)
	assert.Equal(t, int64(3), loaded.LastID)
	assert.Equal(t, int64(4), loaded.NextID())
}

func TestIdeaCSVRepositoryUnparsableFileLoadsEmpty(t *testing.T) {
	repo, dir := newIdeaCSV(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ideas.csv"), []byte("Name,Category\n\"broken"), 0o644))

	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table.Ideas)
}

func TestIdeaCSVRepositoryReadsLegacyRows(t *testing.T) {
	repo, dir := newIdeaCSV(t)
	content := "id,Status,From date,To date,Document name,Date published,Issue Number,Name,Category,Description,Detailed Description,Estimated Impact / Target Audience,Owner\n" +
		"7.0,On Review,05/03/2024 14:30,2024-06-01,PROFORMA/05/03/2024,2024-03-05T14:30:00Z,1.00/100PLN,Legacy,AI,d,dd,e,bob\n" +
		"x,On Review,,,,,,,,,,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ideas.csv"), []byte(content), 0o644))

	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Ideas, 1)
	idea := table.Ideas[0]
	assert.Equal(t, int64(7), idea.ID)
	assert.Equal(t, models.VisibilityPublic, idea.Visibility)
	require.NotNil(t, idea.FromDate)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), *idea.FromDate)
	require.NotNil(t, idea.ToDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *idea.ToDate)
}

func TestIdeaCSVRepositoryKeepsUnknownStatus(t *testing.T) {
	repo, dir := newIdeaCSV(t)
	content := "id,Status,Name,Owner\n5,Archived,Old pilot,bob\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ideas.csv"), []byte(content), 0o644))
	ctx := context.Background()

	table, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, table.Ideas, 1)
	assert.Equal(t, models.IdeaStatus("Archived"), table.Ideas[0].Status)

	require.NoError(t, repo.Save(ctx, table))
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatus("Archived"), again.Ideas[0].Status, "a save does not rewrite the status")
}
