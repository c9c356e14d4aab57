package dto

import "github.com/noah-isme/ideaboard-api/internal/models"

// CreateIdeaRequest is the payload of POST /ideas. AsDraft keeps the idea out of review.
type CreateIdeaRequest struct {
	models.IdeaFields
	AsDraft bool `json:"as_draft"`
}

// UpdateIdeaRequest is the payload of PUT /ideas/:id. Status is the target state,
// Draft or On Review. When empty a draft stays a draft and anything else is resubmitted.
type UpdateIdeaRequest struct {
	models.IdeaFields
	Status models.IdeaStatus `json:"status"`
}

// IdeaDetail pairs an idea with the actions the viewer may take on it.
type IdeaDetail struct {
	models.Idea
	CanEdit bool `json:"can_edit"`
}
