package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
)

type ArchiveRepository struct {
	DB *pgxpool.Pool
}

func NewArchiveRepository(db *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{DB: db}
}

const archiveColumns = `id, engagement_id, original_data, archived_at, is_blacklisted, dnc_reason`

func scanArchive(row pgx.Row) (*models.ArchiveSnapshot, error) {
	var a models.ArchiveSnapshot
	err := row.Scan(&a.ID, &a.EngagementID, &a.OriginalData, &a.ArchivedAt,
		&a.IsBlacklisted, &a.DNCReason)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create writes a terminal snapshot
func (r *ArchiveRepository) Create(ctx context.Context, a *models.ArchiveSnapshot) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO archive_snapshots(engagement_id, original_data)
		 VALUES($1, $2)
		 RETURNING id, archived_at`,
		a.EngagementID, a.OriginalData,
	).Scan(&a.ID, &a.ArchivedAt)
	if err != nil {
		return apperr.Persistence(err, "create archive snapshot for engagement %d", a.EngagementID)
	}
	return nil
}

func (r *ArchiveRepository) Get(ctx context.Context, id int) (*models.ArchiveSnapshot, error) {
	a, err := scanArchive(r.DB.QueryRow(ctx,
		`SELECT `+archiveColumns+` FROM archive_snapshots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("archive snapshot %d not found", id)
		}
		return nil, apperr.Persistence(err, "get archive snapshot %d", id)
	}
	return a, nil
}

// List returns all snapshots, newest first
func (r *ArchiveRepository) List(ctx context.Context) ([]*models.ArchiveSnapshot, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+archiveColumns+` FROM archive_snapshots ORDER BY archived_at DESC`)
	if err != nil {
		return nil, apperr.Persistence(err, "list archive snapshots")
	}
	defer rows.Close()

	var out []*models.ArchiveSnapshot
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, apperr.Persistence(err, "scan archive snapshot")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetBlacklist toggles DNC status. Turning it on overwrites the reason;
// turning it off leaves the recorded reason in place.
func (r *ArchiveRepository) SetBlacklist(ctx context.Context, id int, blacklisted bool, reason string) (*models.ArchiveSnapshot, error) {
	var row pgx.Row
	if blacklisted {
		row = r.DB.QueryRow(ctx,
			`UPDATE archive_snapshots SET is_blacklisted = TRUE, dnc_reason = $1
			 WHERE id = $2 RETURNING `+archiveColumns, reason, id)
	} else {
		row = r.DB.QueryRow(ctx,
			`UPDATE archive_snapshots SET is_blacklisted = FALSE
			 WHERE id = $1 RETURNING `+archiveColumns, id)
	}

	a, err := scanArchive(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("archive snapshot %d not found", id)
		}
		return nil, apperr.Persistence(err, "toggle blacklist on snapshot %d", id)
	}
	return a, nil
}

// Delete removes a snapshot (explicit permanent-delete or post-revive cleanup)
func (r *ArchiveRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM archive_snapshots WHERE id = $1`, id)
	if err != nil {
		return apperr.Persistence(err, "delete archive snapshot %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("archive snapshot %d not found", id)
	}
	return nil
}
