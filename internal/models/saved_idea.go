package models

// SavedIdea is an investor bookmark keyed by (username, idea id).
type SavedIdea struct {
	Username string `json:"username"`
	IdeaID   int64  `json:"idea_id"`
}
