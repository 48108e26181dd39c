package services

import (
	"context"
	"encoding/json"
	"time"

	"narration-backend/internal/apperr"
	"narration-backend/internal/cache"
	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
	"narration-backend/internal/settlement"
	"narration-backend/internal/timeutil"
)

// SettlementView is the full financial picture returned to the console
type SettlementView struct {
	Invoice       *models.Invoice       `json:"invoice"`
	Settlement    settlement.Settlement `json:"settlement"`
	OverdueDays   *int                  `json:"overdue_days,omitempty"`
	ReminderLabel string                `json:"reminder_label"`
}

// SettlementService recomputes settlements on demand. The calculator
// itself is pure; this layer only loads inputs and caches output.
type SettlementService struct {
	EngagementRepo *repositories.EngagementRepository
	InvoiceRepo    *repositories.InvoiceRepository
	SessionLogRepo *repositories.SessionLogRepository
}

func NewSettlementService(
	engagementRepo *repositories.EngagementRepository,
	invoiceRepo *repositories.InvoiceRepository,
	sessionLogRepo *repositories.SessionLogRepository,
) *SettlementService {
	return &SettlementService{
		EngagementRepo: engagementRepo,
		InvoiceRepo:    invoiceRepo,
		SessionLogRepo: sessionLogRepo,
	}
}

// GetSettlement returns the derived figures for an engagement, creating a
// defaulted invoice on first access
func (s *SettlementService) GetSettlement(ctx context.Context, engagementID int) (*SettlementView, error) {
	if data, ok := cache.GetCachedSettlement(ctx, engagementID); ok {
		var view SettlementView
		if err := json.Unmarshal(data, &view); err == nil {
			return &view, nil
		}
	}

	engagement, err := s.EngagementRepo.Get(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.InvoiceRepo.GetOrCreate(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	logs, err := s.SessionLogRepo.ListByProject(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	view := &SettlementView{
		Invoice:       invoice,
		Settlement:    settlement.Settle(invoice, engagement.WordCount, logs),
		ReminderLabel: models.ReminderLabel(invoice.RemindersSent),
	}
	if days, ok := settlement.OverdueDays(invoice, timeutil.Today()); ok {
		view.OverdueDays = &days
	}

	if data, err := json.Marshal(view); err == nil {
		cache.CacheSettlement(ctx, engagementID, data)
	}
	return view, nil
}

// UpdateInvoice applies partial term updates. Setting invoiced_date also
// derives due_date fifteen days later (NET-15), always together.
func (s *SettlementService) UpdateInvoice(ctx context.Context, engagementID int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	invoice, err := s.InvoiceRepo.GetOrCreate(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	if req.LedgerTab != nil {
		switch *req.LedgerTab {
		case models.LedgerOpen, models.LedgerWaiting, models.LedgerPaid:
		default:
			return nil, apperr.Validation("ledger tab must be 'open', 'waiting' or 'paid'")
		}
	}

	var invoicedDate, dueDate *time.Time
	if req.InvoicedDate != nil {
		parsed, err := timeutil.ParseDate(*req.InvoicedDate)
		if err != nil {
			return nil, apperr.Validation("invoiced date must be YYYY-MM-DD: %v", err)
		}
		derived := settlement.NetDueDate(parsed)
		invoicedDate = &parsed
		dueDate = &derived
	}

	updated, err := s.InvoiceRepo.UpdateTerms(ctx, invoice.ID, req, invoicedDate, dueDate)
	if err != nil {
		return nil, err
	}

	cache.InvalidateSettlement(ctx, engagementID)
	return updated, nil
}

// AddLineItem attaches extra revenue to an engagement's invoice
func (s *SettlementService) AddLineItem(ctx context.Context, engagementID int, req *models.AddLineItemRequest) (*models.LineItem, error) {
	if req.Description == "" {
		return nil, apperr.Validation("line item description is required")
	}

	invoice, err := s.InvoiceRepo.GetOrCreate(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	item, err := s.InvoiceRepo.AddLineItem(ctx, invoice.ID, req.Description, req.Amount)
	if err != nil {
		return nil, err
	}

	cache.InvalidateSettlement(ctx, engagementID)
	return item, nil
}

// DeleteLineItem removes a line item from an engagement's invoice
func (s *SettlementService) DeleteLineItem(ctx context.Context, engagementID, itemID int) error {
	if err := s.InvoiceRepo.DeleteLineItem(ctx, itemID); err != nil {
		return err
	}
	cache.InvalidateSettlement(ctx, engagementID)
	return nil
}

// EscalateInvoice bumps the overdue reminder ladder one step, clamped at
// maximum severity. Always an explicit operator action; overdue days never
// escalate on their own.
func (s *SettlementService) EscalateInvoice(ctx context.Context, invoiceID int) (*models.Invoice, error) {
	current, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.InvoiceRepo.SetReminders(ctx, invoiceID, settlement.NextReminderLevel(current.RemindersSent))
	if err != nil {
		return nil, err
	}
	cache.InvalidateSettlement(ctx, invoice.ProjectID)
	return invoice, nil
}

// ResetInvoice clears the reminder ladder back to zero
func (s *SettlementService) ResetInvoice(ctx context.Context, invoiceID int) (*models.Invoice, error) {
	invoice, err := s.InvoiceRepo.SetReminders(ctx, invoiceID, 0)
	if err != nil {
		return nil, err
	}
	cache.InvalidateSettlement(ctx, invoice.ProjectID)
	return invoice, nil
}
