package models

import "time"

// Ledger tabs — the coarse payment-status bucket an invoice is filed under
const (
	LedgerOpen    = "open"
	LedgerWaiting = "waiting"
	LedgerPaid    = "paid"
)

// NET-15 payment terms: due date is always 15 days after the invoiced date
const NetTermDays = 15

// MaxReminders caps the overdue escalation ladder
const MaxReminders = 3

type Invoice struct {
	ID            int        `json:"id"`
	ProjectID     int        `json:"project_id"` // FK to engagements, unique
	PFHRate       float64    `json:"pfh_rate"`
	PFHCount      *float64   `json:"pfh_count,omitempty"` // defaults to word_count/9300 when unset
	PozotronRate  float64    `json:"pozotron_rate"`       // per-PFH pass-through proofing cost
	EstTaxRate    float64    `json:"est_tax_rate"`        // percent
	OtherExpenses float64    `json:"other_expenses"`
	LedgerTab     string     `json:"ledger_tab"`
	RemindersSent int        `json:"reminders_sent"` // 0..3
	InvoicedDate  *time.Time `json:"invoiced_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	LineItems     []LineItem `json:"line_items"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LineItem is extra revenue (or an itemized add-on) attached to an invoice
type LineItem struct {
	ID          int       `json:"id"`
	InvoiceID   int       `json:"invoice_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReminderLabel maps the escalation level to its display semantics
func ReminderLabel(level int) string {
	switch level {
	case 0:
		return "clear"
	case 1:
		return "first notice"
	case 2:
		return "second notice - elevated"
	default:
		return "final notice - maximum severity"
	}
}

// UpdateInvoiceRequest represents the request body for updating invoice terms
type UpdateInvoiceRequest struct {
	PFHRate       *float64 `json:"pfh_rate,omitempty"`
	PFHCount      *float64 `json:"pfh_count,omitempty"`
	PozotronRate  *float64 `json:"pozotron_rate,omitempty"`
	EstTaxRate    *float64 `json:"est_tax_rate,omitempty"`
	OtherExpenses *float64 `json:"other_expenses,omitempty"`
	LedgerTab     *string  `json:"ledger_tab,omitempty"`
	InvoicedDate  *string  `json:"invoiced_date,omitempty"` // YYYY-MM-DD, derives due_date
}

// AddLineItemRequest represents the request body for adding a line item
type AddLineItemRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}
