package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
	"narration-backend/internal/schedule"
)

type EngagementRepository struct {
	DB *pgxpool.Pool
}

func NewEngagementRepository(db *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{DB: db}
}

const engagementColumns = `id, client_name, client_email, client_type, book_title, word_count,
	start_date, end_date, status, narration_style, is_returning, created_at, updated_at`

func scanEngagement(row pgx.Row) (*models.Engagement, error) {
	var e models.Engagement
	err := row.Scan(&e.ID, &e.ClientName, &e.ClientEmail, &e.ClientType, &e.BookTitle,
		&e.WordCount, &e.StartDate, &e.EndDate, &e.Status, &e.NarrationStyle,
		&e.IsReturning, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new engagement and fills in its generated fields
func (r *EngagementRepository) Create(ctx context.Context, e *models.Engagement) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO engagements(client_name, client_email, client_type, book_title, word_count,
		    start_date, end_date, status, narration_style, is_returning)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		e.ClientName, e.ClientEmail, e.ClientType, e.BookTitle, e.WordCount,
		e.StartDate, e.EndDate, e.Status, e.NarrationStyle, e.IsReturning,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return apperr.Persistence(err, "create engagement")
	}
	return nil
}

func (r *EngagementRepository) Get(ctx context.Context, id int) (*models.Engagement, error) {
	e, err := scanEngagement(r.DB.QueryRow(ctx,
		`SELECT `+engagementColumns+` FROM engagements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("engagement %d not found", id)
		}
		return nil, apperr.Persistence(err, "get engagement %d", id)
	}
	return e, nil
}

// List returns all engagements, newest first
func (r *EngagementRepository) List(ctx context.Context) ([]*models.Engagement, error) {
	return r.list(ctx, `SELECT `+engagementColumns+` FROM engagements ORDER BY created_at DESC`)
}

// ListByStatus returns engagements filtered to one status
func (r *EngagementRepository) ListByStatus(ctx context.Context, status string) ([]*models.Engagement, error) {
	return r.list(ctx,
		`SELECT `+engagementColumns+` FROM engagements WHERE status = $1 ORDER BY created_at DESC`,
		status)
}

func (r *EngagementRepository) list(ctx context.Context, sql string, args ...interface{}) ([]*models.Engagement, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Persistence(err, "list engagements")
	}
	defer rows.Close()

	var out []*models.Engagement
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, apperr.Persistence(err, "scan engagement")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateStatus transitions an engagement's status, re-validating the current
// status at write time. A transition from a status not in `from` reports a
// conflict rather than silently applying.
func (r *EngagementRepository) UpdateStatus(ctx context.Context, id int, from []string, to string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE engagements SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND status = ANY($3)`,
		to, id, from)
	if err != nil {
		return apperr.Persistence(err, "update engagement %d status", id)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return apperr.Conflict("engagement %d is not in a status allowing transition to %s", id, to)
	}
	return nil
}

// Complete sets the terminal archived status and stamps the end date
func (r *EngagementRepository) Complete(ctx context.Context, id int, from []string, endDate time.Time) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE engagements SET status = $1, end_date = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 AND status = ANY($4)`,
		models.StatusArchived, endDate, id, from)
	if err != nil {
		return apperr.Persistence(err, "complete engagement %d", id)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return apperr.Conflict("engagement %d is not in a status allowing completion", id)
	}
	return nil
}

// Exists reports whether an engagement row exists under this id
func (r *EngagementRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM engagements WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.Persistence(err, "check engagement %d", id)
	}
	return exists, nil
}

// Restore writes a snapshot copy back into the engagements table. The
// branch on row existence is explicit: a live row under the old id is
// overwritten in place, otherwise the row is re-inserted with its original
// id preserved.
func (r *EngagementRepository) Restore(ctx context.Context, e *models.Engagement) error {
	exists, err := r.Exists(ctx, e.ID)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.DB.Exec(ctx,
			`UPDATE engagements SET client_name=$1, client_email=$2, client_type=$3, book_title=$4,
			    word_count=$5, start_date=$6, end_date=$7, status=$8, narration_style=$9,
			    is_returning=$10, updated_at=CURRENT_TIMESTAMP
			 WHERE id=$11`,
			e.ClientName, e.ClientEmail, e.ClientType, e.BookTitle, e.WordCount,
			e.StartDate, e.EndDate, e.Status, e.NarrationStyle, e.IsReturning, e.ID)
	} else {
		_, err = r.DB.Exec(ctx,
			`INSERT INTO engagements(id, client_name, client_email, client_type, book_title,
			    word_count, start_date, end_date, status, narration_style, is_returning, created_at)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			e.ID, e.ClientName, e.ClientEmail, e.ClientType, e.BookTitle, e.WordCount,
			e.StartDate, e.EndDate, e.Status, e.NarrationStyle, e.IsReturning, e.CreatedAt)
		if err == nil {
			// Keep the sequence ahead of explicitly inserted ids
			_, err = r.DB.Exec(ctx,
				`SELECT setval('engagements_id_seq', GREATEST((SELECT MAX(id) FROM engagements), 1))`)
		}
	}
	if err != nil {
		return apperr.Persistence(err, "restore engagement %d", e.ID)
	}
	return nil
}

// Delete hard-deletes an engagement. Only legal from a terminal status;
// the status list is re-validated in the statement.
func (r *EngagementRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM engagements WHERE id = $1 AND status = ANY($2)`,
		id, []string{models.StatusArchived, models.StatusBooted})
	if err != nil {
		return apperr.Persistence(err, "delete engagement %d", id)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return apperr.Conflict("engagement %d can only be deleted from a terminal status", id)
	}
	return nil
}

// ListHolds returns the calendar ranges held by occupying engagements
func (r *EngagementRepository) ListHolds(ctx context.Context) ([]schedule.Hold, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, start_date, end_date FROM engagements
		 WHERE status = ANY($1) AND start_date IS NOT NULL AND end_date IS NOT NULL
		 ORDER BY start_date`,
		models.OccupyingStatuses)
	if err != nil {
		return nil, apperr.Persistence(err, "list calendar holds")
	}
	defer rows.Close()

	var holds []schedule.Hold
	for rows.Next() {
		var h schedule.Hold
		if err := rows.Scan(&h.EngagementID, &h.Start, &h.End); err != nil {
			return nil, apperr.Persistence(err, "scan calendar hold")
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

// CreateReserved inserts an engagement occupying [start_date, end_date],
// re-checking the range against existing holds inside one transaction so
// two operators cannot double-book the same days.
func (r *EngagementRepository) CreateReserved(ctx context.Context, e *models.Engagement) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperr.Persistence(err, "begin reservation")
	}
	defer tx.Rollback(ctx)

	// Aggregates cannot take row locks, so lock the colliding rows
	// themselves and count what comes back
	rows, err := tx.Query(ctx,
		`SELECT id FROM engagements
		 WHERE status = ANY($1) AND start_date IS NOT NULL AND end_date IS NOT NULL
		   AND start_date <= $2 AND end_date >= $3
		 FOR UPDATE`,
		models.OccupyingStatuses,
		e.EndDate, e.StartDate)
	if err != nil {
		return apperr.Persistence(err, "re-check reservation range")
	}
	colliding := 0
	for rows.Next() {
		colliding++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperr.Persistence(err, "re-check reservation range")
	}
	if colliding > 0 {
		return apperr.Conflict("reservation range collides with %d existing hold(s)", colliding)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO engagements(client_name, client_email, client_type, book_title, word_count,
		    start_date, end_date, status, narration_style, is_returning)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		e.ClientName, e.ClientEmail, e.ClientType, e.BookTitle, e.WordCount,
		e.StartDate, e.EndDate, e.Status, e.NarrationStyle, e.IsReturning,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return apperr.Persistence(err, "insert reserved engagement")
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Persistence(err, "commit reservation")
	}
	return nil
}
