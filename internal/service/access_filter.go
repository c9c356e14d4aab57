package service

import (
	"strings"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

const maxPageSize = 100

// AccessFilterConfig tunes visibility rules.
type AccessFilterConfig struct {
	// ShowPrivateToAuthenticated lets any signed-in user browse other users' private ideas.
	ShowPrivateToAuthenticated bool
}

// AccessFilter decides which ideas a viewer may see and filters listings.
type AccessFilter struct {
	cfg AccessFilterConfig
}

// NewAccessFilter constructs an AccessFilter.
func NewAccessFilter(cfg AccessFilterConfig) *AccessFilter {
	return &AccessFilter{cfg: cfg}
}

// CanView reports whether the idea belongs to the viewer's browse set.
func (f *AccessFilter) CanView(idea models.Idea, viewer models.Viewer) bool {
	if !viewer.Authenticated {
		return idea.Visibility != models.VisibilityPrivate && idea.Status != models.IdeaStatusDraft
	}
	if viewer.IsAdmin() || idea.Owner == viewer.Identity {
		return true
	}
	if idea.Status == models.IdeaStatusDraft {
		return false
	}
	return f.cfg.ShowPrivateToAuthenticated || idea.Visibility != models.VisibilityPrivate
}

// VisibleSet returns the ideas of the given scope. For investors the "mine" scope
// is the saved-ideas join; for everybody else it is ownership.
func (f *AccessFilter) VisibleSet(ideas []models.Idea, viewer models.Viewer, scope models.IdeaScope, saved map[int64]struct{}) []models.Idea {
	result := make([]models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if f.inScope(idea, viewer, scope, saved) {
			result = append(result, idea)
		}
	}
	return result
}

func (f *AccessFilter) inScope(idea models.Idea, viewer models.Viewer, scope models.IdeaScope, saved map[int64]struct{}) bool {
	if scope != models.IdeaScopeMine {
		return f.CanView(idea, viewer)
	}
	if !viewer.Authenticated {
		return false
	}
	if viewer.Role == models.RoleInvestor {
		_, ok := saved[idea.ID]
		return ok && f.CanView(idea, viewer)
	}
	return idea.Owner == viewer.Identity
}

// Apply keeps the ideas matching every set predicate of the filter.
func (f *AccessFilter) Apply(ideas []models.Idea, filter models.IdeaFilter) []models.Idea {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.TrimSpace(filter.Category)

	result := make([]models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if search != "" && !strings.Contains(strings.ToLower(idea.Name+"|"+idea.Description), search) {
			continue
		}
		if category != "" && idea.Category != category {
			continue
		}
		if filter.From != nil && (idea.FromDate == nil || idea.FromDate.Before(*filter.From)) {
			continue
		}
		if filter.To != nil && (idea.ToDate == nil || idea.ToDate.After(*filter.To)) {
			continue
		}
		result = append(result, idea)
	}
	return result
}

// Paginate slices ideas into the requested page.
func Paginate(ideas []models.Idea, page, pageSize, defaultSize int) ([]models.Idea, *models.Pagination) {
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(ideas)}

	// page is client input; compare before multiplying so huge values cannot overflow.
	if page-1 > len(ideas)/pageSize {
		return []models.Idea{}, pagination
	}
	start := (page - 1) * pageSize
	if start >= len(ideas) {
		return []models.Idea{}, pagination
	}
	end := start + pageSize
	if end > len(ideas) {
		end = len(ideas)
	}
	return ideas[start:end], pagination
}

// CapabilitiesFor lists the idea actions a viewer may take.
func CapabilitiesFor(viewer models.Viewer) models.Capabilities {
	if !viewer.Authenticated {
		return models.Capabilities{}
	}
	switch viewer.Role {
	case models.RoleAdmin:
		return models.Capabilities{Create: true, Edit: true, Delete: true, Publish: true, Review: true}
	case models.RoleStudent:
		return models.Capabilities{Create: true, Edit: true, Delete: true, Publish: true}
	case models.RoleInvestor:
		return models.Capabilities{Save: true}
	}
	return models.Capabilities{}
}

// NavigationFor returns the menu entries enabled for the viewer.
func NavigationFor(viewer models.Viewer) []string {
	if !viewer.Authenticated {
		return []string{"Home", "Ideas"}
	}
	nav := []string{"Home", "Ideas", "My Ideas"}
	if CapabilitiesFor(viewer).Create {
		nav = append(nav, "New Idea")
	}
	return append(nav, "Messages", "Profile")
}
