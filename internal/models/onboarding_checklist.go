package models

import "time"

// BootableStrikes is the strike threshold at which an engagement becomes
// eligible for termination. The counter keeps incrementing past it; being
// bootable is derived, not stored.
const BootableStrikes = 3

type OnboardingChecklist struct {
	ID        int `json:"id"`
	RequestID int `json:"request_id"` // FK to engagements

	// Contract & deposit flags
	ContractSent   bool `json:"contract_sent"`
	ContractSigned bool `json:"contract_signed"`
	DepositSent    bool `json:"deposit_sent"`
	DepositPaid    bool `json:"deposit_paid"`

	// Access flags
	EmailReceiptSent   bool `json:"email_receipt_sent"`
	BackendFolder      bool `json:"backend_folder"`
	ManuscriptReceived bool `json:"manuscript_received"`

	StrikeCount int       `json:"strike_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bootable reports whether the strike count has reached the termination threshold
func (c *OnboardingChecklist) Bootable() bool {
	return c.StrikeCount >= BootableStrikes
}

// ReadyForFirst15 reports whether the contract/deposit preconditions for
// advancing out of onboarding are met
func (c *OnboardingChecklist) ReadyForFirst15() bool {
	return c.ContractSigned && c.DepositPaid
}

// UpdateChecklistRequest represents the request body for updating checklist flags
type UpdateChecklistRequest struct {
	ContractSent       *bool `json:"contract_sent,omitempty"`
	ContractSigned     *bool `json:"contract_signed,omitempty"`
	DepositSent        *bool `json:"deposit_sent,omitempty"`
	DepositPaid        *bool `json:"deposit_paid,omitempty"`
	EmailReceiptSent   *bool `json:"email_receipt_sent,omitempty"`
	BackendFolder      *bool `json:"backend_folder,omitempty"`
	ManuscriptReceived *bool `json:"manuscript_received,omitempty"`
}
