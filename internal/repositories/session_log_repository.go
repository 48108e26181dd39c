package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
)

type SessionLogRepository struct {
	DB *pgxpool.Pool
}

func NewSessionLogRepository(db *pgxpool.Pool) *SessionLogRepository {
	return &SessionLogRepository{DB: db}
}

// Create inserts a session log
func (r *SessionLogRepository) Create(ctx context.Context, l *models.SessionLog) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO session_logs(project_id, date, activity, duration_hrs, notes)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		l.ProjectID, l.Date, l.Activity, l.DurationHrs, l.Notes,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return apperr.Persistence(err, "create session log for engagement %d", l.ProjectID)
	}
	return nil
}

func (r *SessionLogRepository) Get(ctx context.Context, id int) (*models.SessionLog, error) {
	var l models.SessionLog
	err := r.DB.QueryRow(ctx,
		`SELECT id, project_id, date, activity, duration_hrs, notes, created_at
		 FROM session_logs WHERE id = $1`, id,
	).Scan(&l.ID, &l.ProjectID, &l.Date, &l.Activity, &l.DurationHrs, &l.Notes, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("session log %d not found", id)
		}
		return nil, apperr.Persistence(err, "get session log %d", id)
	}
	return &l, nil
}

// ListByProject returns an engagement's session logs in date order
func (r *SessionLogRepository) ListByProject(ctx context.Context, projectID int) ([]models.SessionLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, project_id, date, activity, duration_hrs, notes, created_at
		 FROM session_logs WHERE project_id = $1 ORDER BY date, id`, projectID)
	if err != nil {
		return nil, apperr.Persistence(err, "list session logs for engagement %d", projectID)
	}
	defer rows.Close()

	var logs []models.SessionLog
	for rows.Next() {
		var l models.SessionLog
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Date, &l.Activity, &l.DurationHrs, &l.Notes, &l.CreatedAt); err != nil {
			return nil, apperr.Persistence(err, "scan session log")
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Delete removes a session log. Logs are otherwise immutable.
func (r *SessionLogRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM session_logs WHERE id = $1`, id)
	if err != nil {
		return apperr.Persistence(err, "delete session log %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("session log %d not found", id)
	}
	return nil
}
