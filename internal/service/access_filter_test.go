package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

func ids(ideas []models.Idea) []int64 {
	out := make([]int64, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, idea.ID)
	}
	return out
}

func TestAccessFilterPrivateFlag(t *testing.T) {
	ideas := []models.Idea{
		{ID: 1, Owner: "ana", Status: models.IdeaStatusAccepted, Visibility: models.VisibilityPrivate},
		{ID: 2, Owner: "bob", Status: models.IdeaStatusAccepted, Visibility: models.VisibilityPrivate},
		{ID: 3, Owner: "ana", Status: models.IdeaStatusOnReview, Visibility: models.VisibilityPublic},
		{ID: 4, Owner: "ana", Status: models.IdeaStatusDraft, Visibility: models.VisibilityPublic},
	}

	strict := NewAccessFilter(AccessFilterConfig{ShowPrivateToAuthenticated: false})
	assert.Equal(t, []int64{2, 3}, ids(strict.VisibleSet(ideas, bob, models.IdeaScopeBrowse, nil)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(strict.VisibleSet(ideas, admin, models.IdeaScopeBrowse, nil)))
	assert.Equal(t, []int64{3}, ids(strict.VisibleSet(ideas, models.Anonymous(), models.IdeaScopeBrowse, nil)))

	open := NewAccessFilter(AccessFilterConfig{ShowPrivateToAuthenticated: true})
	assert.Equal(t, []int64{1, 2, 3}, ids(open.VisibleSet(ideas, bob, models.IdeaScopeBrowse, nil)))
	assert.Equal(t, []int64{1, 3, 4}, ids(open.VisibleSet(ideas, ana, models.IdeaScopeMine, nil)))
	assert.Empty(t, open.VisibleSet(ideas, models.Anonymous(), models.IdeaScopeMine, nil))
}

func TestAccessFilterApply(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	at := func(m time.Month, d int) *time.Time {
		ts := time.Date(2024, m, d, 12, 0, 0, 0, time.UTC)
		return &ts
	}
	ideas := []models.Idea{
		{ID: 1, Name: "Smart Parking", Description: "city sensors", Category: "TRANSPORT", FromDate: at(2, 1), ToDate: at(5, 1)},
		{ID: 2, Name: "Triage", Description: "PARKING for ambulances", Category: "HEALTH", FromDate: at(2, 1), ToDate: at(8, 1)},
		{ID: 3, Name: "Grid", Description: "storage", Category: "ENERGY", FromDate: at(1, 1), ToDate: at(6, 30)},
		{ID: 4, Name: "No dates", Category: "ENERGY"},
	}
	f := NewAccessFilter(AccessFilterConfig{})

	assert.Equal(t, []int64{1, 2}, ids(f.Apply(ideas, models.IdeaFilter{Search: "parking"})))
	assert.Equal(t, []int64{3, 4}, ids(f.Apply(ideas, models.IdeaFilter{Category: "ENERGY"})))
	assert.Equal(t, []int64{1, 3}, ids(f.Apply(ideas, models.IdeaFilter{From: &from, To: &to})))
	assert.Equal(t, []int64{1}, ids(f.Apply(ideas, models.IdeaFilter{Search: "PARK", From: &from, To: &to, Category: "TRANSPORT"})))
	assert.Len(t, f.Apply(ideas, models.IdeaFilter{}), 4)
}

func TestPaginate(t *testing.T) {
	ideas := make([]models.Idea, 25)
	page, meta := Paginate(ideas, 3, 10, 10)
	assert.Len(t, page, 5)
	assert.Equal(t, 25, meta.TotalCount)

	page, meta = Paginate(ideas, 9, 0, 10)
	assert.Empty(t, page)
	assert.Equal(t, 10, meta.PageSize)

	_, meta = Paginate(ideas, 0, 500, 10)
	assert.Equal(t, maxPageSize, meta.PageSize)
	assert.Equal(t, 1, meta.Page)
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	ideas := []models.Idea{{ID: 1}, {ID: 2}}
	var (
		page []models.Idea
		meta *models.Pagination
	)
	require.NotPanics(t, func() { page, meta = Paginate(ideas, math.MaxInt, 0, 10) })
	assert.Empty(t, page)
	assert.Equal(t, math.MaxInt, meta.Page)
	assert.Equal(t, 2, meta.TotalCount)

	page, _ = Paginate(make([]models.Idea, 20), 3, 10, 10)
	assert.Empty(t, page)
	page, _ = Paginate(make([]models.Idea, 20), 2, 10, 10)
	assert.Len(t, page, 10)
}

func TestCapabilitiesAndNavigation(t *testing.T) {
	assert.Equal(t, models.Capabilities{Save: true}, CapabilitiesFor(investor))
	assert.True(t, CapabilitiesFor(admin).Review)
	assert.False(t, CapabilitiesFor(ana).Review)
	assert.Equal(t, models.Capabilities{}, CapabilitiesFor(models.Anonymous()))

	require.Contains(t, NavigationFor(ana), "New Idea")
	assert.NotContains(t, NavigationFor(investor), "New Idea")
	assert.Equal(t, []string{"Home", "Ideas"}, NavigationFor(models.Anonymous()))
}
