package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

func TestGenerateIdeas(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	table := generateIdeas(50, today, rand.New(rand.NewSource(7)))

	require.Len(t, table.Ideas, 50)
	assert.Equal(t, int64(50), table.LastID)
	assert.Equal(t, int64(50), table.Ideas[0].ID, "newest first")

	admin := 0
	for _, idea := range table.Ideas {
		if idea.ID%3 == 0 {
			assert.Equal(t, "admin", idea.Owner)
			admin++
		} else {
			assert.NotEqual(t, "admin", idea.Owner)
		}
		assert.NotEqual(t, models.IdeaStatusDraft, idea.Status)
		assert.False(t, idea.ToDate.Before(*idea.FromDate))
		assert.False(t, idea.DatePublished.Before(*idea.FromDate))
		assert.False(t, idea.DatePublished.After(*idea.ToDate))
		assert.True(t, idea.FromDate.Before(today))
		assert.LessOrEqual(t, len([]rune(idea.Description)), models.DescriptionMaxLength)
	}
	assert.Equal(t, 16, admin)
}

func TestGenerateIdeasIsDeterministicPerSeed(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	a := generateIdeas(10, today, rand.New(rand.NewSource(1)))
	b := generateIdeas(10, today, rand.New(rand.NewSource(1)))
	assert.Equal(t, a, b)
}

func TestCategoryCode(t *testing.T) {
	assert.Equal(t, "TEC", categoryCode("Technology"))
	assert.Equal(t, "AI", categoryCode("AI"))
}
