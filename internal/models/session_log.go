package models

import "time"

// Session activities
const (
	ActivityPrep      = "prep"
	ActivityRecording = "recording"
	ActivityEditing   = "editing"
	ActivityProofing  = "proofing"
)

// SessionLog is one logged block of work on an engagement. Immutable once
// written, except for deletion.
type SessionLog struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"` // FK to engagements
	Date        time.Time `json:"date"`
	Activity    string    `json:"activity"`
	DurationHrs float64   `json:"duration_hrs"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidActivity reports whether a is a known session activity
func ValidActivity(a string) bool {
	switch a {
	case ActivityPrep, ActivityRecording, ActivityEditing, ActivityProofing:
		return true
	}
	return false
}

// CreateSessionLogRequest represents the request body for logging a session
type CreateSessionLogRequest struct {
	ProjectID   int     `json:"project_id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Activity    string  `json:"activity"`
	DurationHrs float64 `json:"duration_hrs"`
	Notes       string  `json:"notes"`
}
