package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
)

type ChecklistRepository struct {
	DB *pgxpool.Pool
}

func NewChecklistRepository(db *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{DB: db}
}

const checklistColumns = `id, request_id, contract_sent, contract_signed, deposit_sent, deposit_paid,
	email_receipt_sent, backend_folder, manuscript_received, strike_count, created_at, updated_at`

func scanChecklist(row pgx.Row) (*models.OnboardingChecklist, error) {
	var c models.OnboardingChecklist
	err := row.Scan(&c.ID, &c.RequestID, &c.ContractSent, &c.ContractSigned, &c.DepositSent,
		&c.DepositPaid, &c.EmailReceiptSent, &c.BackendFolder, &c.ManuscriptReceived,
		&c.StrikeCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a fresh all-false checklist for an engagement. The unique
// constraint on request_id enforces the 1:1 companion invariant; a second
// create for the same engagement reports a conflict.
func (r *ChecklistRepository) Create(ctx context.Context, requestID int) (*models.OnboardingChecklist, error) {
	c, err := scanChecklist(r.DB.QueryRow(ctx,
		`INSERT INTO onboarding_checklists(request_id) VALUES($1)
		 ON CONFLICT (request_id) DO NOTHING
		 RETURNING `+checklistColumns, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Conflict("engagement %d already has an onboarding checklist", requestID)
		}
		return nil, apperr.Persistence(err, "create checklist for engagement %d", requestID)
	}
	return c, nil
}

func (r *ChecklistRepository) Get(ctx context.Context, id int) (*models.OnboardingChecklist, error) {
	c, err := scanChecklist(r.DB.QueryRow(ctx,
		`SELECT `+checklistColumns+` FROM onboarding_checklists WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("checklist %d not found", id)
		}
		return nil, apperr.Persistence(err, "get checklist %d", id)
	}
	return c, nil
}

// GetByRequestID returns the checklist companion of an engagement
func (r *ChecklistRepository) GetByRequestID(ctx context.Context, requestID int) (*models.OnboardingChecklist, error) {
	c, err := scanChecklist(r.DB.QueryRow(ctx,
		`SELECT `+checklistColumns+` FROM onboarding_checklists WHERE request_id = $1`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("no checklist for engagement %d", requestID)
		}
		return nil, apperr.Persistence(err, "get checklist for engagement %d", requestID)
	}
	return c, nil
}

// List returns all open checklists, most strikes first
func (r *ChecklistRepository) List(ctx context.Context) ([]*models.OnboardingChecklist, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+checklistColumns+` FROM onboarding_checklists ORDER BY strike_count DESC, created_at`)
	if err != nil {
		return nil, apperr.Persistence(err, "list checklists")
	}
	defer rows.Close()

	var out []*models.OnboardingChecklist
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, apperr.Persistence(err, "scan checklist")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateFlags applies only the flags present in the request
func (r *ChecklistRepository) UpdateFlags(ctx context.Context, id int, req *models.UpdateChecklistRequest) (*models.OnboardingChecklist, error) {
	c, err := scanChecklist(r.DB.QueryRow(ctx,
		`UPDATE onboarding_checklists SET
			contract_sent       = COALESCE($1, contract_sent),
			contract_signed     = COALESCE($2, contract_signed),
			deposit_sent        = COALESCE($3, deposit_sent),
			deposit_paid        = COALESCE($4, deposit_paid),
			email_receipt_sent  = COALESCE($5, email_receipt_sent),
			backend_folder      = COALESCE($6, backend_folder),
			manuscript_received = COALESCE($7, manuscript_received),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8
		 RETURNING `+checklistColumns,
		req.ContractSent, req.ContractSigned, req.DepositSent, req.DepositPaid,
		req.EmailReceiptSent, req.BackendFolder, req.ManuscriptReceived, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("checklist %d not found", id)
		}
		return nil, apperr.Persistence(err, "update checklist %d", id)
	}
	return c, nil
}

// AddStrike increments the strike counter atomically and returns the new
// state. The counter only ever moves up here; ResetStrikes is the one way
// down.
func (r *ChecklistRepository) AddStrike(ctx context.Context, id int) (*models.OnboardingChecklist, error) {
	c, err := scanChecklist(r.DB.QueryRow(ctx,
		`UPDATE onboarding_checklists
		 SET strike_count = strike_count + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+checklistColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("checklist %d not found", id)
		}
		return nil, apperr.Persistence(err, "add strike to checklist %d", id)
	}
	return c, nil
}

// ResetStrikes zeroes the strike counter
func (r *ChecklistRepository) ResetStrikes(ctx context.Context, id int) (*models.OnboardingChecklist, error) {
	c, err := scanChecklist(r.DB.QueryRow(ctx,
		`UPDATE onboarding_checklists
		 SET strike_count = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+checklistColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("checklist %d not found", id)
		}
		return nil, apperr.Persistence(err, "reset strikes on checklist %d", id)
	}
	return c, nil
}

// DeleteByRequestID removes the checklist companion of an engagement.
// Deleting a checklist that is already gone is not an error; boot and
// advance stay idempotent in their net effect.
func (r *ChecklistRepository) DeleteByRequestID(ctx context.Context, requestID int) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM onboarding_checklists WHERE request_id = $1`, requestID)
	if err != nil {
		return apperr.Persistence(err, "delete checklist for engagement %d", requestID)
	}
	return nil
}
