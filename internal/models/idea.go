package models

import (
	"sort"
	"time"
)

// IdeaStatus enumerates the lifecycle states of an idea.
type IdeaStatus string

const (
	IdeaStatusDraft    IdeaStatus = "Draft"
	IdeaStatusOnReview IdeaStatus = "On Review"
	IdeaStatusAccepted IdeaStatus = "Accepted"
	IdeaStatusRejected IdeaStatus = "Rejected"
)

// Valid reports whether the status is one of the known states.
func (s IdeaStatus) Valid() bool {
	switch s {
	case IdeaStatusDraft, IdeaStatusOnReview, IdeaStatusAccepted, IdeaStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status closes the review.
func (s IdeaStatus) Terminal() bool {
	return s == IdeaStatusAccepted || s == IdeaStatusRejected
}

// Visibility gates anonymous read access.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

// DescriptionMaxLength caps the short description, in characters.
const DescriptionMaxLength = 200

// Idea is one submitted proposal row.
type Idea struct {
	ID                  int64      `db:"id" json:"id"`
	Status              IdeaStatus `db:"status" json:"status"`
	FromDate            *time.Time `db:"from_date" json:"from_date,omitempty"`
	ToDate              *time.Time `db:"to_date" json:"to_date,omitempty"`
	DocumentName        string     `db:"document_name" json:"document_name"`
	DatePublished       *time.Time `db:"date_published" json:"date_published,omitempty"`
	IssueNumber         string     `db:"issue_number" json:"issue_number"`
	Name                string     `db:"name" json:"name"`
	Category            string     `db:"category" json:"category"`
	Description         string     `db:"description" json:"description"`
	DetailedDescription string     `db:"detailed_description" json:"detailed_description"`
	EstimatedImpact     string     `db:"estimated_impact" json:"estimated_impact"`
	Owner               string     `db:"owner" json:"owner"`
	Visibility          Visibility `db:"visibility" json:"visibility"`
}

// IdeaTable is the whole idea table as loaded from and saved to a store.
// LastID is the highest id ever assigned, kept so deleted ids are not handed out again.
type IdeaTable struct {
	Ideas  []Idea
	LastID int64
}

// NextID returns the id the next created idea receives.
func (t IdeaTable) NextID() int64 {
	highest := t.LastID
	for _, idea := range t.Ideas {
		if idea.ID > highest {
			highest = idea.ID
		}
	}
	return highest + 1
}

// Index returns the position of the idea with the given id, or -1.
func (t IdeaTable) Index(id int64) int {
	for i := range t.Ideas {
		if t.Ideas[i].ID == id {
			return i
		}
	}
	return -1
}

// SortNewestFirst orders rows by id descending.
func (t *IdeaTable) SortNewestFirst() {
	sort.SliceStable(t.Ideas, func(i, j int) bool { return t.Ideas[i].ID > t.Ideas[j].ID })
}

// Clone returns a deep copy of the row slice so callers can mutate freely.
func (t IdeaTable) Clone() IdeaTable {
	ideas := make([]Idea, len(t.Ideas))
	copy(ideas, t.Ideas)
	return IdeaTable{Ideas: ideas, LastID: t.LastID}
}

// IdeaFields carries the user-editable content of an idea.
type IdeaFields struct {
	Name                string     `json:"name" validate:"max=255"`
	Category            string     `json:"category" validate:"max=100"`
	Description         string     `json:"description"`
	DetailedDescription string     `json:"detailed_description"`
	EstimatedImpact     string     `json:"estimated_impact"`
	Visibility          Visibility `json:"visibility" validate:"omitempty,oneof=Public Private"`
	TermsAccepted       bool       `json:"terms_accepted"`
}

// IdeaScope selects which base set a viewer is looking at.
type IdeaScope string

const (
	IdeaScopeBrowse IdeaScope = "browse"
	IdeaScopeMine   IdeaScope = "mine"
)

// IdeaFilter captures search predicates and paging for idea listings.
type IdeaFilter struct {
	Search   string
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
