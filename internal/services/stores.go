package services

import (
	"context"
	"time"

	"narration-backend/internal/models"
)

// Store interfaces let the lifecycle controller be exercised against
// in-memory fakes; the pgx repositories are the production implementations.

type EngagementStore interface {
	Get(ctx context.Context, id int) (*models.Engagement, error)
	UpdateStatus(ctx context.Context, id int, from []string, to string) error
	Complete(ctx context.Context, id int, from []string, endDate time.Time) error
	Restore(ctx context.Context, e *models.Engagement) error
	Delete(ctx context.Context, id int) error
}

// InvoiceStore covers the one invoice write the lifecycle controller
// performs itself, cleaning up financial rows on hard delete.
type InvoiceStore interface {
	DeleteByProject(ctx context.Context, projectID int) error
}

type ChecklistStore interface {
	Create(ctx context.Context, requestID int) (*models.OnboardingChecklist, error)
	Get(ctx context.Context, id int) (*models.OnboardingChecklist, error)
	GetByRequestID(ctx context.Context, requestID int) (*models.OnboardingChecklist, error)
	UpdateFlags(ctx context.Context, id int, req *models.UpdateChecklistRequest) (*models.OnboardingChecklist, error)
	AddStrike(ctx context.Context, id int) (*models.OnboardingChecklist, error)
	ResetStrikes(ctx context.Context, id int) (*models.OnboardingChecklist, error)
	DeleteByRequestID(ctx context.Context, requestID int) error
}

type ArchiveStore interface {
	Create(ctx context.Context, a *models.ArchiveSnapshot) error
	Get(ctx context.Context, id int) (*models.ArchiveSnapshot, error)
	SetBlacklist(ctx context.Context, id int, blacklisted bool, reason string) (*models.ArchiveSnapshot, error)
	Delete(ctx context.Context, id int) error
}

// SnapshotExporter pushes a terminal snapshot to offsite backup.
// Optional; a nil exporter disables export.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, a *models.ArchiveSnapshot) error
}
