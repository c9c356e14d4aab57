package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/noah-isme/ideaboard-api/internal/models"
)

var descriptions = []string{
	"AI assistant for monitoring research progress and suggesting funding opportunities.",
	"Machine learning model for predicting traffic congestion in smart cities.",
	"Renewable energy optimizer for reducing waste in solar grid systems.",
	"Chatbot platform for academic support and student engagement.",
	"Computer vision tool for detecting anomalies in industrial processes.",
	"Predictive analytics for hospital resource management.",
	"IoT platform for real-time air quality monitoring.",
	"Remote patient monitoring system using wearable devices.",
	"Crowdsourced mapping tool for disaster response coordination.",
	"Digital twin simulation for urban planning.",
	"Smart parking system with real-time availability updates.",
	"Waste management optimizer using IoT sensors.",
	"Smart irrigation system for agricultural optimization.",
	"Carbon footprint calculator for supply chains.",
	"Predictive model for student dropout prevention.",
	"Smart building energy management system.",
}

var (
	seedCategories = []string{"TRANSPORT", "HEALTH", "ENERGY", "AI", "Technology", "Social"}
	seedOwners     = []string{"user1", "user2", "user3", "user4"}
	seedAudiences  = []string{
		"Students, Researchers, Academic institutions",
		"SMEs, Startups, Tech companies",
		"City residents, Urban planners, Government",
		"Healthcare providers, Patients, Medical staff",
		"Engineers, Industrial facilities, Manufacturing",
	}
)

const seedDetail = "Integer rutrum, odio at scelerisque fermentum, purus libero mattis mi, sed tristique mauris sapien eu tortor. " +
	"Donec accumsan, urna vel bibendum faucibus, lorem nisi consequat justo, vitae venenatis eros magna id ex."

// generateIdeas builds n submitted ideas spread over the 120 days before today.
// Every third idea belongs to admin.
func generateIdeas(n int, today time.Time, rng *rand.Rand) models.IdeaTable {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -120)

	table := models.IdeaTable{LastID: int64(n)}
	for i := 1; i <= n; i++ {
		from := randomDay(rng, start, today.AddDate(0, 0, -1))
		to := randomDay(rng, from, from.AddDate(0, 0, 14))
		published := randomDay(rng, from, to)

		description := descriptions[(i-1)%len(descriptions)]
		category := seedCategories[rng.Intn(len(seedCategories))]
		owner := "admin"
		if i%3 != 0 {
			owner = seedOwners[rng.Intn(len(seedOwners))]
		}

		table.Ideas = append(table.Ideas, models.Idea{
			ID:                  int64(i),
			Status:              weightedStatus(rng),
			FromDate:            &from,
			ToDate:              &to,
			DocumentName:        fmt.Sprintf("PROFORMA/%d/%s", i, categoryCode(category)),
			DatePublished:       &published,
			IssueNumber:         fmt.Sprintf("%d.00/%dPLN", i, 100+rng.Intn(900)),
			Name:                fmt.Sprintf("Project %d: %s Innovation", i, strings.Fields(description)[0]),
			Category:            category,
			Description:         description,
			DetailedDescription: seedDetail,
			EstimatedImpact:     seedAudiences[rng.Intn(len(seedAudiences))],
			Owner:               owner,
			Visibility:          models.VisibilityPublic,
		})
	}
	table.SortNewestFirst()
	return table
}

// weightedStatus picks On Review, Accepted and Rejected in a 5:3:2 ratio.
func weightedStatus(rng *rand.Rand) models.IdeaStatus {
	switch roll := rng.Intn(10); {
	case roll < 5:
		return models.IdeaStatusOnReview
	case roll < 8:
		return models.IdeaStatusAccepted
	default:
		return models.IdeaStatusRejected
	}
}

func randomDay(rng *rand.Rand, from, to time.Time) time.Time {
	days := int(to.Sub(from).Hours() / 24)
	if days <= 0 {
		return from
	}
	return from.AddDate(0, 0, rng.Intn(days+1))
}

func categoryCode(category string) string {
	runes := []rune(strings.ToUpper(category))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
