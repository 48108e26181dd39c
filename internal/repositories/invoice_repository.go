package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, project_id, pfh_rate, pfh_count, pozotron_rate, est_tax_rate,
	other_expenses, ledger_tab, reminders_sent, invoiced_date, due_date, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.ProjectID, &inv.PFHRate, &inv.PFHCount, &inv.PozotronRate,
		&inv.EstTaxRate, &inv.OtherExpenses, &inv.LedgerTab, &inv.RemindersSent,
		&inv.InvoicedDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetOrCreate returns the invoice for an engagement, lazily creating a
// defaulted one on first access. The unique constraint on project_id makes
// concurrent first accesses converge on one row.
func (r *InvoiceRepository) GetOrCreate(ctx context.Context, projectID int) (*models.Invoice, error) {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO invoices(project_id, ledger_tab) VALUES($1, $2)
		 ON CONFLICT (project_id) DO NOTHING`,
		projectID, models.LedgerOpen)
	if err != nil {
		return nil, apperr.Persistence(err, "create invoice for engagement %d", projectID)
	}
	return r.GetByProject(ctx, projectID)
}

// GetByProject returns the invoice for an engagement with its line items
func (r *InvoiceRepository) GetByProject(ctx context.Context, projectID int) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE project_id = $1`, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("no invoice for engagement %d", projectID)
		}
		return nil, apperr.Persistence(err, "get invoice for engagement %d", projectID)
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("invoice %d not found", id)
		}
		return nil, apperr.Persistence(err, "get invoice %d", id)
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) loadLineItems(ctx context.Context, inv *models.Invoice) error {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, description, amount, created_at
		 FROM invoice_line_items WHERE invoice_id = $1 ORDER BY id`, inv.ID)
	if err != nil {
		return apperr.Persistence(err, "load line items for invoice %d", inv.ID)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Amount, &item.CreatedAt); err != nil {
			return apperr.Persistence(err, "scan line item")
		}
		items = append(items, item)
	}
	inv.LineItems = items
	return rows.Err()
}

// UpdateTerms applies partial updates to rate/tax/ledger fields.
// invoicedDate, when set, carries the NET-15 derived due date with it.
func (r *InvoiceRepository) UpdateTerms(ctx context.Context, id int, req *models.UpdateInvoiceRequest, invoicedDate, dueDate *time.Time) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`UPDATE invoices SET
			pfh_rate       = COALESCE($1, pfh_rate),
			pfh_count      = COALESCE($2, pfh_count),
			pozotron_rate  = COALESCE($3, pozotron_rate),
			est_tax_rate   = COALESCE($4, est_tax_rate),
			other_expenses = COALESCE($5, other_expenses),
			ledger_tab     = COALESCE($6, ledger_tab),
			invoiced_date  = COALESCE($7, invoiced_date),
			due_date       = COALESCE($8, due_date),
			updated_at     = CURRENT_TIMESTAMP
		 WHERE id = $9
		 RETURNING `+invoiceColumns,
		req.PFHRate, req.PFHCount, req.PozotronRate, req.EstTaxRate,
		req.OtherExpenses, req.LedgerTab, invoicedDate, dueDate, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("invoice %d not found", id)
		}
		return nil, apperr.Persistence(err, "update invoice %d", id)
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// AddLineItem appends extra revenue to an invoice
func (r *InvoiceRepository) AddLineItem(ctx context.Context, invoiceID int, description string, amount float64) (*models.LineItem, error) {
	var item models.LineItem
	err := r.DB.QueryRow(ctx,
		`INSERT INTO invoice_line_items(invoice_id, description, amount)
		 VALUES($1, $2, $3)
		 RETURNING id, invoice_id, description, amount, created_at`,
		invoiceID, description, amount,
	).Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Amount, &item.CreatedAt)
	if err != nil {
		return nil, apperr.Persistence(err, "add line item to invoice %d", invoiceID)
	}
	return &item, nil
}

// DeleteLineItem removes a line item
func (r *InvoiceRepository) DeleteLineItem(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoice_line_items WHERE id = $1`, id)
	if err != nil {
		return apperr.Persistence(err, "delete line item %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("line item %d not found", id)
	}
	return nil
}

// SetReminders writes an escalation level, clamped in the statement so a
// stale read can never push the stored value past the cap
func (r *InvoiceRepository) SetReminders(ctx context.Context, id int, level int) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`UPDATE invoices
		 SET reminders_sent = LEAST(GREATEST($1, 0), 3), updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING `+invoiceColumns, level, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("invoice %d not found", id)
		}
		return nil, apperr.Persistence(err, "set reminders on invoice %d", id)
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// DeleteByProject removes an engagement's invoice, if any. Line items go
// with it. No-op when the invoice was never created.
func (r *InvoiceRepository) DeleteByProject(ctx context.Context, projectID int) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE project_id = $1`, projectID); err != nil {
		return apperr.Persistence(err, "delete invoice for engagement %d", projectID)
	}
	return nil
}
