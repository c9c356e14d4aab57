package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

func TestSavedIdeaService(t *testing.T) {
	ideaStore := seededStore(
		models.Idea{ID: 7, Owner: "ana", Status: models.IdeaStatusAccepted, Visibility: models.VisibilityPublic},
		models.Idea{ID: 8, Owner: "ana", Status: models.IdeaStatusDraft},
	)
	saved := &fakeSavedStore{}
	ideas := newTestIdeaService(ideaStore, saved, IdeaServiceConfig{})
	svc := NewSavedIdeaService(ideas.saved, ideas, nil)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, investor, 7))
	require.NoError(t, svc.Save(ctx, investor, 7))
	assert.Equal(t, []models.SavedIdea{{Username: "bob", IdeaID: 7}}, saved.entries)
	assert.Equal(t, 1, saved.saves, "saving twice does not write")

	assert.ErrorIs(t, svc.Save(ctx, investor, 8), appErrors.ErrNotFound, "foreign drafts are invisible")
	assert.ErrorIs(t, svc.Save(ctx, investor, 99), appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Save(ctx, ana, 7), appErrors.ErrForbidden)

	list, page, err := svc.List(ctx, investor, models.IdeaFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids(list))
	assert.Equal(t, 1, page.TotalCount)

	require.NoError(t, svc.Remove(ctx, investor, 7))
	require.NoError(t, svc.Remove(ctx, investor, 7))
	assert.Empty(t, saved.entries)
}

// deletingReader starts a delete of the idea as soon as the visibility check passes.
type deletingReader struct {
	*IdeaService
	deleted chan error
}

func (d deletingReader) Get(ctx context.Context, viewer models.Viewer, id int64) (*models.Idea, error) {
	idea, err := d.IdeaService.Get(ctx, viewer, id)
	go func() { d.deleted <- d.IdeaService.Delete(context.Background(), admin, id) }()
	return idea, err
}

func TestSavedIdeaServiceSaveRacingDeleteLeavesNoOrphan(t *testing.T) {
	ideaStore := seededStore(models.Idea{ID: 7, Owner: "ana", Status: models.IdeaStatusAccepted, Visibility: models.VisibilityPublic})
	saved := &fakeSavedStore{}
	ideas := newTestIdeaService(ideaStore, saved, IdeaServiceConfig{})
	deleted := make(chan error, 1)
	svc := NewSavedIdeaService(ideas.saved, deletingReader{IdeaService: ideas, deleted: deleted}, nil)

	require.NoError(t, svc.Save(context.Background(), investor, 7))
	require.NoError(t, <-deleted)

	entries, err := ideas.saved.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries, "the bookmark of a deleted idea is dropped")
}
