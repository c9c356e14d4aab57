package service

import (
	"context"
	"sync"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

// SavedIdeaTable is the single in-process writer of the bookmark store. IdeaService and
// SavedIdeaService share one instance so their read-modify-write cycles never interleave.
type SavedIdeaTable struct {
	store savedIdeaStore
	mu    sync.Mutex
}

// NewSavedIdeaTable wraps the bookmark store.
func NewSavedIdeaTable(store savedIdeaStore) *SavedIdeaTable {
	return &SavedIdeaTable{store: store}
}

// Load returns every bookmark.
func (t *SavedIdeaTable) Load(ctx context.Context) ([]models.SavedIdea, error) {
	return t.store.Load(ctx)
}

// Update runs check, then mutate on the loaded rows, under the table lock. check may
// consult other state that must not change between the check and the write. The rows
// are saved only when mutate reports a change.
func (t *SavedIdeaTable) Update(ctx context.Context, check func() error, mutate func([]models.SavedIdea) ([]models.SavedIdea, bool)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if check != nil {
		if err := check(); err != nil {
			return err
		}
	}
	saved, err := t.store.Load(ctx)
	if err != nil {
		return appErrors.Storage(err, "failed to load saved ideas")
	}
	next, changed := mutate(saved)
	if !changed {
		return nil
	}
	if err := t.store.Save(ctx, next); err != nil {
		return appErrors.Storage(err, "failed to save saved ideas")
	}
	return nil
}
