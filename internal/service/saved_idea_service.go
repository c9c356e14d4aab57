package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

type ideaReader interface {
	Get(ctx context.Context, viewer models.Viewer, id int64) (*models.Idea, error)
	List(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter) ([]models.Idea, *models.Pagination, error)
}

// SavedIdeaService manages investor bookmarks.
type SavedIdeaService struct {
	table  *SavedIdeaTable
	ideas  ideaReader
	logger *zap.Logger
}

// NewSavedIdeaService constructs a SavedIdeaService. table must be the instance IdeaService uses.
func NewSavedIdeaService(table *SavedIdeaTable, ideas ideaReader, logger *zap.Logger) *SavedIdeaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedIdeaService{table: table, ideas: ideas, logger: logger}
}

// Save bookmarks a visible idea for the investor. Saving twice is a no-op.
// Visibility is checked under the table lock so a concurrent delete cannot leave an orphan row.
func (s *SavedIdeaService) Save(ctx context.Context, viewer models.Viewer, ideaID int64) error {
	if err := requireInvestor(viewer); err != nil {
		return err
	}
	entry := models.SavedIdea{Username: viewer.Identity, IdeaID: ideaID}
	added := false
	err := s.table.Update(ctx, func() error {
		_, err := s.ideas.Get(ctx, viewer, ideaID)
		return err
	}, func(saved []models.SavedIdea) ([]models.SavedIdea, bool) {
		for _, existing := range saved {
			if existing == entry {
				return saved, false
			}
		}
		added = true
		return append(saved, entry), true
	})
	if err != nil {
		return err
	}
	if added {
		s.logger.Info("idea saved", zap.String("username", viewer.Identity), zap.Int64("idea_id", ideaID))
	}
	return nil
}

// Remove drops a bookmark. Removing an absent bookmark is a no-op.
func (s *SavedIdeaService) Remove(ctx context.Context, viewer models.Viewer, ideaID int64) error {
	if err := requireInvestor(viewer); err != nil {
		return err
	}
	return s.table.Update(ctx, nil, func(saved []models.SavedIdea) ([]models.SavedIdea, bool) {
		kept := make([]models.SavedIdea, 0, len(saved))
		for _, existing := range saved {
			if existing.Username == viewer.Identity && existing.IdeaID == ideaID {
				continue
			}
			kept = append(kept, existing)
		}
		return kept, len(kept) != len(saved)
	})
}

// List returns the investor's saved ideas, which is their "My Ideas" scope.
func (s *SavedIdeaService) List(ctx context.Context, viewer models.Viewer, filter models.IdeaFilter) ([]models.Idea, *models.Pagination, error) {
	if err := requireInvestor(viewer); err != nil {
		return nil, nil, err
	}
	return s.ideas.List(ctx, viewer, models.IdeaScopeMine, filter)
}

func requireInvestor(viewer models.Viewer) error {
	if !viewer.Authenticated {
		return appErrors.ErrUnauthorized
	}
	if !CapabilitiesFor(viewer).Save {
		return appErrors.Clone(appErrors.ErrForbidden, "only investors can save ideas")
	}
	return nil
}
