package models

import "time"

// Engagement statuses. The status enum is the single source of truth for
// the lifecycle stage; checklist existence is a derived invariant, never
// something to branch on.
const (
	StatusPending    = "pending"
	StatusPostponed  = "postponed"
	StatusOnboarding = "onboarding"
	StatusFirst15    = "first15"
	StatusProduction = "production"
	StatusArchived   = "archived"
	StatusBooted     = "booted"
)

// Client types
const (
	ClientDirect   = "direct"
	ClientRoster   = "roster"
	ClientAudition = "audition"
)

// WordsPerFinishedHour converts a manuscript word count into PFH
// (per-finished-hour) units for billing.
const WordsPerFinishedHour = 9300

type Engagement struct {
	ID             int        `json:"id"`
	ClientName     string     `json:"client_name"`
	ClientEmail    string     `json:"client_email"`
	ClientType     string     `json:"client_type"` // 'direct', 'roster' or 'audition'
	BookTitle      string     `json:"book_title"`
	WordCount      int        `json:"word_count"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Status         string     `json:"status"`
	NarrationStyle string     `json:"narration_style"`
	IsReturning    bool       `json:"is_returning"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PFHCount derives the default billable finished-hour count from word count
func (e *Engagement) PFHCount() float64 {
	if e.WordCount <= 0 {
		return 0
	}
	return float64(e.WordCount) / WordsPerFinishedHour
}

// OccupyingStatuses are the statuses whose engagements hold their calendar
// range. A confirmed reservation enters as pending with both dates set and
// blocks the calendar immediately; postponing or terminating releases it.
var OccupyingStatuses = []string{StatusPending, StatusOnboarding, StatusFirst15, StatusProduction}

// Occupying reports whether this engagement holds its calendar range
func (e *Engagement) Occupying() bool {
	if e.StartDate == nil || e.EndDate == nil {
		return false
	}
	for _, s := range OccupyingStatuses {
		if e.Status == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the engagement has reached a terminal status
func (e *Engagement) Terminal() bool {
	return e.Status == StatusArchived || e.Status == StatusBooted
}

// ValidClientType reports whether t is one of the known client types
func ValidClientType(t string) bool {
	return t == ClientDirect || t == ClientRoster || t == ClientAudition
}

// CreateEngagementRequest represents the request body for creating an engagement
type CreateEngagementRequest struct {
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	ClientType     string `json:"client_type"`
	BookTitle      string `json:"book_title"`
	WordCount      int    `json:"word_count"`
	StartDate      string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        string `json:"end_date,omitempty"`   // YYYY-MM-DD
	NarrationStyle string `json:"narration_style"`
	IsReturning    bool   `json:"is_returning"`
}

// TransitionRequest represents the request body for a lifecycle transition
type TransitionRequest struct {
	Action string `json:"action"`
}
