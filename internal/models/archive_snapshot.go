package models

import (
	"encoding/json"
	"time"
)

// ArchiveSnapshot is the terminal record written when an engagement is
// booted. It has its own identity; EngagementID remembers the original id
// for restore but is never assumed to still be free.
type ArchiveSnapshot struct {
	ID            int             `json:"id"`
	EngagementID  int             `json:"engagement_id"`
	OriginalData  json.RawMessage `json:"original_data"`
	ArchivedAt    time.Time       `json:"archived_at"`
	IsBlacklisted bool            `json:"is_blacklisted"`
	DNCReason     string          `json:"dnc_reason"`
}

// SnapshotPayload is the denormalized copy stored in OriginalData.
// Checklist is nil when the engagement was past onboarding at boot time.
type SnapshotPayload struct {
	Engagement *Engagement          `json:"engagement"`
	Checklist  *OnboardingChecklist `json:"checklist,omitempty"`
}

// Payload decodes OriginalData back into its structured form
func (a *ArchiveSnapshot) Payload() (*SnapshotPayload, error) {
	var p SnapshotPayload
	if err := json.Unmarshal(a.OriginalData, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ToggleBlacklistRequest represents the request body for toggling DNC status
type ToggleBlacklistRequest struct {
	IsBlacklisted bool   `json:"is_blacklisted"`
	Reason        string `json:"reason,omitempty"`
}
