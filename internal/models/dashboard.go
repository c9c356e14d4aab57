package models

import "time"

// CategoryCount is a per-category tally.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryStatusCount breaks one category down by status.
type CategoryStatusCount struct {
	Category string             `json:"category"`
	Statuses map[IdeaStatus]int `json:"statuses"`
}

// IdeaSummary aggregates the viewer's browse set for the home dashboard.
type IdeaSummary struct {
	Total            int                   `json:"total"`
	Accepted         int                   `json:"accepted"`
	OnReview         int                   `json:"on_review"`
	Rejected         int                   `json:"rejected"`
	Drafts           int                   `json:"drafts"`
	AcceptedPercent  float64               `json:"accepted_percent"`
	OnReviewPercent  float64               `json:"on_review_percent"`
	Categories       int                   `json:"categories"`
	ByCategory       []CategoryCount       `json:"by_category"`
	StatusByCategory []CategoryStatusCount `json:"status_by_category"`
	Recent           []Idea                `json:"recent"`
	GeneratedAt      time.Time             `json:"generated_at"`
}
