package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"narration-backend/internal/apperr"
	"narration-backend/internal/cache"
	"narration-backend/internal/metrics"
	"narration-backend/internal/models"
	"narration-backend/internal/timeutil"
)

// Transition actions accepted by Transition
const (
	ActionApprove             = "approve"
	ActionPostpone            = "postpone"
	ActionRevive              = "revive"
	ActionReject              = "reject"
	ActionBoot                = "boot"
	ActionAdvanceToFirst15    = "advanceToFirst15"
	ActionAdvanceToProduction = "advanceToProduction"
	ActionMarkComplete        = "markComplete"
)

// LifecycleService is the one component with write side effects: it owns
// every engagement status transition and the multi-record fan-outs (boot,
// revive). Multi-record writes follow create-new-then-delete-old ordering
// so a failure partway leaves valid, if duplicated, data.
type LifecycleService struct {
	Engagements EngagementStore
	Checklists  ChecklistStore
	Archives    ArchiveStore
	Invoices    InvoiceStore
	Exporter    SnapshotExporter // optional offsite backup
}

func NewLifecycleService(e EngagementStore, c ChecklistStore, a ArchiveStore, i InvoiceStore) *LifecycleService {
	return &LifecycleService{Engagements: e, Checklists: c, Archives: a, Invoices: i}
}

// SetExporter enables offsite snapshot export after boot
func (s *LifecycleService) SetExporter(exp SnapshotExporter) {
	s.Exporter = exp
}

func (s *LifecycleService) record(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	metrics.LifecycleTransitionsTotal.WithLabelValues(action, outcome).Inc()
}

// Transition dispatches a named lifecycle action on an engagement
func (s *LifecycleService) Transition(ctx context.Context, engagementID int, action string) (*models.Engagement, error) {
	var err error
	switch action {
	case ActionApprove:
		err = s.Approve(ctx, engagementID)
	case ActionPostpone:
		err = s.Postpone(ctx, engagementID)
	case ActionRevive:
		err = s.Revive(ctx, engagementID)
	case ActionReject:
		err = s.Reject(ctx, engagementID)
	case ActionBoot:
		err = s.Boot(ctx, engagementID)
	case ActionAdvanceToFirst15:
		err = s.AdvanceToFirst15(ctx, engagementID)
	case ActionAdvanceToProduction:
		err = s.AdvanceToProduction(ctx, engagementID)
	case ActionMarkComplete:
		err = s.MarkComplete(ctx, engagementID)
	default:
		err = apperr.Validation("unknown transition action %q", action)
	}
	if err != nil {
		return nil, err
	}
	return s.Engagements.Get(ctx, engagementID)
}

// Approve moves a pending engagement into onboarding and creates its
// all-false checklist companion. The conditional status update is the
// atomic guard: only one operator wins a concurrent approve.
func (s *LifecycleService) Approve(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionApprove, err) }()

	if err = s.Engagements.UpdateStatus(ctx, id, []string{models.StatusPending}, models.StatusOnboarding); err != nil {
		return err
	}

	if _, err = s.Checklists.Create(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			// Checklist already present from an earlier partial approve
			return nil
		}
		// Roll the status back so onboarding never exists without its
		// checklist; if the rollback also fails we surface the original
		// error and leave both records for the operator to retry
		if rbErr := s.Engagements.UpdateStatus(ctx, id, []string{models.StatusOnboarding}, models.StatusPending); rbErr != nil {
			log.Printf("[Lifecycle] approve rollback failed for engagement %d: %v", id, rbErr)
		}
		return err
	}

	cache.InvalidateHolds(ctx)
	return nil
}

// Postpone shelves a pending engagement
func (s *LifecycleService) Postpone(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionPostpone, err) }()
	if err = s.Engagements.UpdateStatus(ctx, id, []string{models.StatusPending}, models.StatusPostponed); err != nil {
		return err
	}
	cache.InvalidateHolds(ctx)
	return nil
}

// Revive brings a postponed engagement back to pending
func (s *LifecycleService) Revive(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionRevive, err) }()
	if err = s.Engagements.UpdateStatus(ctx, id, []string{models.StatusPostponed}, models.StatusPending); err != nil {
		return err
	}
	cache.InvalidateHolds(ctx)
	return nil
}

// Reject soft-archives an engagement from any non-terminal status. No
// snapshot is written; the absence of one is what distinguishes a
// rejection from a boot. The checklist companion, if any, is removed.
func (s *LifecycleService) Reject(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionReject, err) }()

	nonTerminal := []string{models.StatusPending, models.StatusPostponed,
		models.StatusOnboarding, models.StatusFirst15, models.StatusProduction}
	if err = s.Engagements.UpdateStatus(ctx, id, nonTerminal, models.StatusArchived); err != nil {
		return err
	}

	if err = s.Checklists.DeleteByRequestID(ctx, id); err != nil {
		return err
	}

	cache.InvalidateHolds(ctx)
	return nil
}

// AddStrike increments a checklist's escalation counter. Reaching the
// threshold only marks the engagement bootable; boot stays an explicit
// operator action.
func (s *LifecycleService) AddStrike(ctx context.Context, checklistID int) (*models.OnboardingChecklist, error) {
	return s.Checklists.AddStrike(ctx, checklistID)
}

// ResetStrikes zeroes a checklist's escalation counter
func (s *LifecycleService) ResetStrikes(ctx context.Context, checklistID int) (*models.OnboardingChecklist, error) {
	return s.Checklists.ResetStrikes(ctx, checklistID)
}

// UpdateChecklist applies partial flag updates
func (s *LifecycleService) UpdateChecklist(ctx context.Context, checklistID int, req *models.UpdateChecklistRequest) (*models.OnboardingChecklist, error) {
	return s.Checklists.UpdateFlags(ctx, checklistID, req)
}

// AdvanceToFirst15 moves onboarding → first15. Precondition: contract
// signed and deposit paid; checked before any write, so a failed
// precondition changes nothing. The checklist is deleted on success.
func (s *LifecycleService) AdvanceToFirst15(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionAdvanceToFirst15, err) }()

	checklist, err := s.Checklists.GetByRequestID(ctx, id)
	if err != nil {
		return err
	}
	if !checklist.ReadyForFirst15() {
		return apperr.Precondition("engagement %d cannot advance: contract_signed and deposit_paid must both be true", id)
	}

	if err = s.Engagements.UpdateStatus(ctx, id, []string{models.StatusOnboarding}, models.StatusFirst15); err != nil {
		return err
	}

	return s.Checklists.DeleteByRequestID(ctx, id)
}

// AdvanceToProduction moves first15 → production
func (s *LifecycleService) AdvanceToProduction(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionAdvanceToProduction, err) }()
	return s.Engagements.UpdateStatus(ctx, id, []string{models.StatusFirst15}, models.StatusProduction)
}

// MarkComplete finishes a production engagement: end date stamped to
// today, status archived. Completed engagements keep no snapshot.
func (s *LifecycleService) MarkComplete(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionMarkComplete, err) }()
	if err = s.Engagements.Complete(ctx, id, []string{models.StatusProduction}, timeutil.Today()); err != nil {
		return err
	}
	cache.InvalidateHolds(ctx)
	return nil
}

// Boot is the terminal-failure transition and the only one fanning out to
// three record types. Ordering is snapshot first, then status, then
// checklist delete: a crash at any point leaves valid data, and the
// conditional status update resolves two concurrent boots to one winner.
func (s *LifecycleService) Boot(ctx context.Context, id int) (err error) {
	defer func() { s.record(ActionBoot, err) }()

	engagement, err := s.Engagements.Get(ctx, id)
	if err != nil {
		return err
	}
	if engagement.Terminal() {
		return apperr.Conflict("engagement %d is already in terminal status %s", id, engagement.Status)
	}

	var checklist *models.OnboardingChecklist
	if c, cErr := s.Checklists.GetByRequestID(ctx, id); cErr == nil {
		checklist = c
	} else if !errors.Is(cErr, apperr.ErrNotFound) {
		return cErr
	}

	payload, err := json.Marshal(models.SnapshotPayload{Engagement: engagement, Checklist: checklist})
	if err != nil {
		return apperr.Validation("snapshot engagement %d: %v", id, err)
	}

	snapshot := &models.ArchiveSnapshot{EngagementID: id, OriginalData: payload}
	if err = s.Archives.Create(ctx, snapshot); err != nil {
		return err
	}

	nonTerminal := []string{models.StatusPending, models.StatusPostponed,
		models.StatusOnboarding, models.StatusFirst15, models.StatusProduction}
	if err = s.Engagements.UpdateStatus(ctx, id, nonTerminal, models.StatusBooted); err != nil {
		// Another operator won the race; drop our duplicate snapshot so
		// exactly one remains
		if delErr := s.Archives.Delete(ctx, snapshot.ID); delErr != nil {
			log.Printf("[Lifecycle] boot cleanup failed for snapshot %d: %v", snapshot.ID, delErr)
		}
		return err
	}

	if err = s.Checklists.DeleteByRequestID(ctx, id); err != nil {
		return err
	}

	cache.InvalidateHolds(ctx)

	if s.Exporter != nil {
		if expErr := s.Exporter.ExportSnapshot(ctx, snapshot); expErr != nil {
			log.Printf("[Lifecycle] snapshot %d export failed: %v", snapshot.ID, expErr)
		}
	}

	return nil
}

// ReviveFromArchive restores a booted engagement from its snapshot back to
// pending, then deletes the snapshot. The restore branches explicitly on
// whether a row still exists under the original id. Blacklisted snapshots
// must be un-blacklisted before revival.
func (s *LifecycleService) ReviveFromArchive(ctx context.Context, archiveID int) (*models.Engagement, error) {
	snapshot, err := s.Archives.Get(ctx, archiveID)
	if err != nil {
		return nil, err
	}
	if snapshot.IsBlacklisted {
		return nil, apperr.Precondition("snapshot %d is blacklisted (%s); remove the blacklist before reviving", archiveID, snapshot.DNCReason)
	}

	payload, err := snapshot.Payload()
	if err != nil || payload.Engagement == nil {
		return nil, apperr.Validation("snapshot %d has no restorable engagement data", archiveID)
	}

	restored := *payload.Engagement
	restored.Status = models.StatusPending

	// New record before old delete: a crash here leaves both the revived
	// engagement and the snapshot, never neither
	if err := s.Engagements.Restore(ctx, &restored); err != nil {
		return nil, err
	}
	if err := s.Archives.Delete(ctx, archiveID); err != nil {
		return nil, err
	}

	cache.InvalidateHolds(ctx)
	return &restored, nil
}

// ToggleBlacklist sets or clears DNC status on a snapshot. Setting it
// requires a reason; clearing it keeps the recorded reason for history.
func (s *LifecycleService) ToggleBlacklist(ctx context.Context, archiveID int, blacklisted bool, reason string) (*models.ArchiveSnapshot, error) {
	if blacklisted && reason == "" {
		return nil, apperr.Validation("blacklisting snapshot %d requires a non-empty reason", archiveID)
	}
	return s.Archives.SetBlacklist(ctx, archiveID, blacklisted, reason)
}

// PermanentDelete hard-deletes an engagement. The invoice row goes first
// since it references the engagement; the status check runs before any
// write so a live engagement never loses its financials, and the store
// re-validates the status when the engagement row is removed.
func (s *LifecycleService) PermanentDelete(ctx context.Context, id int) error {
	e, err := s.Engagements.Get(ctx, id)
	if err != nil {
		return err
	}
	if !e.Terminal() {
		return apperr.Precondition("engagement %d must be archived or booted before deletion", id)
	}
	if err := s.Invoices.DeleteByProject(ctx, id); err != nil {
		return err
	}
	if err := s.Engagements.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateHolds(ctx)
	return nil
}

// DeleteSnapshot removes an archive snapshot on explicit operator action
func (s *LifecycleService) DeleteSnapshot(ctx context.Context, archiveID int) error {
	return s.Archives.Delete(ctx, archiveID)
}
