package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

type visibleIdeaProvider interface {
	Visible(ctx context.Context, viewer models.Viewer, scope models.IdeaScope, filter models.IdeaFilter) ([]models.Idea, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
}

// DashboardService aggregates the viewer's browse set into home page statistics.
type DashboardService struct {
	ideas  visibleIdeaProvider
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(ideas visibleIdeaProvider, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{ideas: ideas, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Summary returns the statistics and reports whether they came from cache.
func (s *DashboardService) Summary(ctx context.Context, viewer models.Viewer) (*models.IdeaSummary, bool, error) {
	key := "dash:ideas:" + dashboardScope(viewer)
	if summary, hit := s.tryCache(ctx, key); hit {
		return summary, true, nil
	}

	ideas, err := s.ideas.Visible(ctx, viewer, models.IdeaScopeBrowse, models.IdeaFilter{})
	if err != nil {
		return nil, false, err
	}
	summary := s.compose(ideas)
	s.persistCache(ctx, key, summary)
	return summary, false, nil
}

// dashboardScope names the cache partition sharing one browse set. Signed-in
// non-admins also see their own drafts, so they are keyed per user.
func dashboardScope(viewer models.Viewer) string {
	switch {
	case !viewer.Authenticated:
		return "anonymous"
	case viewer.IsAdmin():
		return "admin"
	default:
		return "user:" + viewer.Identity
	}
}

func (s *DashboardService) tryCache(ctx context.Context, key string) (*models.IdeaSummary, bool) {
	var cached models.IdeaSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true
	}
	return nil, false
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value *models.IdeaSummary) {
	s.cache.Set(ctx, key, value, s.cfg.CacheTTL)
}

func (s *DashboardService) compose(ideas []models.Idea) *models.IdeaSummary {
	summary := &models.IdeaSummary{
		Total:       len(ideas),
		GeneratedAt: s.now().UTC(),
	}

	counts := make(map[string]int)
	matrix := make(map[string]map[models.IdeaStatus]int)
	for _, idea := range ideas {
		switch idea.Status {
		case models.IdeaStatusAccepted:
			summary.Accepted++
		case models.IdeaStatusOnReview:
			summary.OnReview++
		case models.IdeaStatusRejected:
			summary.Rejected++
		case models.IdeaStatusDraft:
			summary.Drafts++
		}
		category := idea.Category
		if category == "" {
			category = "Uncategorised"
		}
		counts[category]++
		if matrix[category] == nil {
			matrix[category] = make(map[models.IdeaStatus]int)
		}
		matrix[category][idea.Status]++
	}

	if summary.Total > 0 {
		summary.AcceptedPercent = percent(summary.Accepted, summary.Total)
		summary.OnReviewPercent = percent(summary.OnReview, summary.Total)
	}
	summary.Categories = len(counts)

	for category, count := range counts {
		summary.ByCategory = append(summary.ByCategory, models.CategoryCount{Category: category, Count: count})
		summary.StatusByCategory = append(summary.StatusByCategory, models.CategoryStatusCount{Category: category, Statuses: matrix[category]})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if summary.ByCategory[i].Count == summary.ByCategory[j].Count {
			return summary.ByCategory[i].Category < summary.ByCategory[j].Category
		}
		return summary.ByCategory[i].Count > summary.ByCategory[j].Count
	})
	sort.Slice(summary.StatusByCategory, func(i, j int) bool {
		return summary.StatusByCategory[i].Category < summary.StatusByCategory[j].Category
	})

	summary.Recent = recentlyPublished(ideas, s.cfg.RecentLimit)
	return summary
}

func recentlyPublished(ideas []models.Idea, limit int) []models.Idea {
	published := make([]models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if idea.DatePublished != nil {
			published = append(published, idea)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].DatePublished.After(*published[j].DatePublished)
	})
	if len(published) > limit {
		published = published[:limit]
	}
	return published
}

func percent(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}
