package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"narration-backend/internal/apperr"
	"narration-backend/internal/models"
)

// In-memory stores mirroring the repositories' conditional-update
// semantics, so transitions can be exercised without a database.

type fakeEngagements struct {
	rows map[int]*models.Engagement
	seq  int
}

func newFakeEngagements() *fakeEngagements {
	return &fakeEngagements{rows: make(map[int]*models.Engagement)}
}

func (f *fakeEngagements) add(status string) *models.Engagement {
	f.seq++
	e := &models.Engagement{
		ID:         f.seq,
		ClientName: "Test Client",
		ClientType: models.ClientDirect,
		BookTitle:  "Test Title",
		WordCount:  46500,
		Status:     status,
	}
	f.rows[e.ID] = e
	return e
}

func (f *fakeEngagements) Get(ctx context.Context, id int) (*models.Engagement, error) {
	e, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("engagement %d not found", id)
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEngagements) UpdateStatus(ctx context.Context, id int, from []string, to string) error {
	e, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("engagement %d not found", id)
	}
	for _, s := range from {
		if e.Status == s {
			e.Status = to
			return nil
		}
	}
	return apperr.Conflict("engagement %d is not in an eligible status", id)
}

func (f *fakeEngagements) Complete(ctx context.Context, id int, from []string, endDate time.Time) error {
	if err := f.UpdateStatus(ctx, id, from, models.StatusArchived); err != nil {
		return err
	}
	f.rows[id].EndDate = &endDate
	return nil
}

func (f *fakeEngagements) Restore(ctx context.Context, e *models.Engagement) error {
	copied := *e
	if _, taken := f.rows[e.ID]; taken {
		f.rows[e.ID] = &copied
		return nil
	}
	if e.ID == 0 {
		f.seq++
		copied.ID = f.seq
		e.ID = copied.ID
	}
	f.rows[copied.ID] = &copied
	return nil
}

func (f *fakeEngagements) Delete(ctx context.Context, id int) error {
	e, ok := f.rows[id]
	if !ok {
		return apperr.NotFound("engagement %d not found", id)
	}
	if !e.Terminal() {
		return apperr.Precondition("engagement %d must be archived or booted before deletion", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeChecklists struct {
	rows map[int]*models.OnboardingChecklist
	seq  int
}

func newFakeChecklists() *fakeChecklists {
	return &fakeChecklists{rows: make(map[int]*models.OnboardingChecklist)}
}

func (f *fakeChecklists) byRequest(requestID int) *models.OnboardingChecklist {
	for _, c := range f.rows {
		if c.RequestID == requestID {
			return c
		}
	}
	return nil
}

func (f *fakeChecklists) countByRequest(requestID int) int {
	n := 0
	for _, c := range f.rows {
		if c.RequestID == requestID {
			n++
		}
	}
	return n
}

func (f *fakeChecklists) Create(ctx context.Context, requestID int) (*models.OnboardingChecklist, error) {
	if f.byRequest(requestID) != nil {
		return nil, apperr.Conflict("engagement %d already has a checklist", requestID)
	}
	f.seq++
	c := &models.OnboardingChecklist{ID: f.seq, RequestID: requestID}
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeChecklists) Get(ctx context.Context, id int) (*models.OnboardingChecklist, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("checklist %d not found", id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChecklists) GetByRequestID(ctx context.Context, requestID int) (*models.OnboardingChecklist, error) {
	c := f.byRequest(requestID)
	if c == nil {
		return nil, apperr.NotFound("no checklist for engagement %d", requestID)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChecklists) UpdateFlags(ctx context.Context, id int, req *models.UpdateChecklistRequest) (*models.OnboardingChecklist, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("checklist %d not found", id)
	}
	if req.ContractSent != nil {
		c.ContractSent = *req.ContractSent
	}
	if req.ContractSigned != nil {
		c.ContractSigned = *req.ContractSigned
	}
	if req.DepositSent != nil {
		c.DepositSent = *req.DepositSent
	}
	if req.DepositPaid != nil {
		c.DepositPaid = *req.DepositPaid
	}
	if req.EmailReceiptSent != nil {
		c.EmailReceiptSent = *req.EmailReceiptSent
	}
	if req.BackendFolder != nil {
		c.BackendFolder = *req.BackendFolder
	}
	if req.ManuscriptReceived != nil {
		c.ManuscriptReceived = *req.ManuscriptReceived
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChecklists) AddStrike(ctx context.Context, id int) (*models.OnboardingChecklist, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("checklist %d not found", id)
	}
	c.StrikeCount++
	copied := *c
	return &copied, nil
}

func (f *fakeChecklists) ResetStrikes(ctx context.Context, id int) (*models.OnboardingChecklist, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("checklist %d not found", id)
	}
	c.StrikeCount = 0
	copied := *c
	return &copied, nil
}

func (f *fakeChecklists) DeleteByRequestID(ctx context.Context, requestID int) error {
	for id, c := range f.rows {
		if c.RequestID == requestID {
			delete(f.rows, id)
		}
	}
	return nil
}

type fakeArchives struct {
	rows map[int]*models.ArchiveSnapshot
	seq  int
}

func newFakeArchives() *fakeArchives {
	return &fakeArchives{rows: make(map[int]*models.ArchiveSnapshot)}
}

func (f *fakeArchives) Create(ctx context.Context, a *models.ArchiveSnapshot) error {
	f.seq++
	a.ID = f.seq
	a.ArchivedAt = time.Now()
	copied := *a
	f.rows[a.ID] = &copied
	return nil
}

func (f *fakeArchives) Get(ctx context.Context, id int) (*models.ArchiveSnapshot, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("archive snapshot %d not found", id)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeArchives) SetBlacklist(ctx context.Context, id int, blacklisted bool, reason string) (*models.ArchiveSnapshot, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("archive snapshot %d not found", id)
	}
	a.IsBlacklisted = blacklisted
	if blacklisted {
		a.DNCReason = reason
	}
	copied := *a
	return &copied, nil
}

func (f *fakeArchives) Delete(ctx context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("archive snapshot %d not found", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeArchives) countByEngagement(engagementID int) int {
	n := 0
	for _, a := range f.rows {
		if a.EngagementID == engagementID {
			n++
		}
	}
	return n
}

type fakeInvoices struct {
	byProject map[int]bool
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{byProject: make(map[int]bool)}
}

func (f *fakeInvoices) DeleteByProject(ctx context.Context, projectID int) error {
	delete(f.byProject, projectID)
	return nil
}

func newTestLifecycle() (*LifecycleService, *fakeEngagements, *fakeChecklists, *fakeArchives) {
	engagements := newFakeEngagements()
	checklists := newFakeChecklists()
	archives := newFakeArchives()
	return NewLifecycleService(engagements, checklists, archives, newFakeInvoices()), engagements, checklists, archives
}

func TestApproveCreatesChecklist(t *testing.T) {
	svc, engagements, checklists, _ := newTestLifecycle()
	e := engagements.add(models.StatusPending)

	if err := svc.Approve(context.Background(), e.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if got := engagements.rows[e.ID].Status; got != models.StatusOnboarding {
		t.Errorf("status = %q, want onboarding", got)
	}
	if n := checklists.countByRequest(e.ID); n != 1 {
		t.Fatalf("checklist count = %d, want 1", n)
	}

	c := checklists.byRequest(e.ID)
	if c.ContractSent || c.ContractSigned || c.DepositSent || c.DepositPaid ||
		c.EmailReceiptSent || c.BackendFolder || c.ManuscriptReceived {
		t.Error("new checklist should have all flags false")
	}
	if c.StrikeCount != 0 {
		t.Errorf("new checklist strike count = %d, want 0", c.StrikeCount)
	}
}

func TestApproveRequiresPending(t *testing.T) {
	svc, engagements, checklists, _ := newTestLifecycle()

	for _, status := range []string{models.StatusOnboarding, models.StatusProduction,
		models.StatusArchived, models.StatusBooted} {
		e := engagements.add(status)
		err := svc.Approve(context.Background(), e.ID)
		if !errors.Is(err, apperr.ErrConflict) {
			t.Errorf("Approve from %s: err = %v, want conflict", status, err)
		}
		if engagements.rows[e.ID].Status != status {
			t.Errorf("Approve from %s changed status to %s", status, engagements.rows[e.ID].Status)
		}
	}
	if len(checklists.rows) != 0 {
		t.Errorf("failed approves created %d checklists", len(checklists.rows))
	}
}

func TestApproveAfterPartialFailure(t *testing.T) {
	// A checklist left behind by an earlier partial approve is adopted, not
	// duplicated
	svc, engagements, checklists, _ := newTestLifecycle()
	e := engagements.add(models.StatusPending)
	checklists.Create(context.Background(), e.ID)

	if err := svc.Approve(context.Background(), e.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusOnboarding {
		t.Errorf("status = %q, want onboarding", engagements.rows[e.ID].Status)
	}
	if n := checklists.countByRequest(e.ID); n != 1 {
		t.Errorf("checklist count = %d, want exactly 1", n)
	}
}

type failingChecklists struct {
	*fakeChecklists
	createErr error
}

func (f *failingChecklists) Create(ctx context.Context, requestID int) (*models.OnboardingChecklist, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.fakeChecklists.Create(ctx, requestID)
}

func TestApproveRollsBackOnChecklistFailure(t *testing.T) {
	engagements := newFakeEngagements()
	checklists := &failingChecklists{
		fakeChecklists: newFakeChecklists(),
		createErr:      apperr.Persistence(errors.New("connection reset"), "create checklist"),
	}
	svc := NewLifecycleService(engagements, checklists, newFakeArchives(), newFakeInvoices())

	e := engagements.add(models.StatusPending)
	err := svc.Approve(context.Background(), e.ID)
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("err = %v, want persistence", err)
	}
	if got := engagements.rows[e.ID].Status; got != models.StatusPending {
		t.Errorf("status after rollback = %q, want pending", got)
	}
}

func TestPostponeAndRevive(t *testing.T) {
	svc, engagements, _, _ := newTestLifecycle()
	e := engagements.add(models.StatusPending)
	ctx := context.Background()

	if err := svc.Postpone(ctx, e.ID); err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusPostponed {
		t.Fatalf("status = %q, want postponed", engagements.rows[e.ID].Status)
	}

	// Postponing again is a conflict, not idempotent success
	if err := svc.Postpone(ctx, e.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("second Postpone err = %v, want conflict", err)
	}

	if err := svc.Revive(ctx, e.ID); err != nil {
		t.Fatalf("Revive: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusPending {
		t.Errorf("status = %q, want pending", engagements.rows[e.ID].Status)
	}
}

func TestRejectLeavesNoSnapshot(t *testing.T) {
	svc, engagements, checklists, archives := newTestLifecycle()
	e := engagements.add(models.StatusOnboarding)
	checklists.Create(context.Background(), e.ID)

	if err := svc.Reject(context.Background(), e.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusArchived {
		t.Errorf("status = %q, want archived", engagements.rows[e.ID].Status)
	}
	if checklists.byRequest(e.ID) != nil {
		t.Error("checklist should be deleted on reject")
	}
	if n := archives.countByEngagement(e.ID); n != 0 {
		t.Errorf("reject wrote %d snapshots, want 0", n)
	}
}

func TestAdvanceToFirst15Precondition(t *testing.T) {
	svc, engagements, checklists, _ := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusOnboarding)
	c, _ := checklists.Create(ctx, e.ID)

	cases := []struct {
		name         string
		signed, paid bool
		wantAdvance  bool
	}{
		{"neither", false, false, false},
		{"signed only", true, false, false},
		{"paid only", false, true, false},
		{"both", true, true, true},
	}

	for _, tc := range cases {
		checklists.rows[c.ID].ContractSigned = tc.signed
		checklists.rows[c.ID].DepositPaid = tc.paid

		err := svc.AdvanceToFirst15(ctx, e.ID)
		if tc.wantAdvance {
			if err != nil {
				t.Fatalf("%s: AdvanceToFirst15: %v", tc.name, err)
			}
			if engagements.rows[e.ID].Status != models.StatusFirst15 {
				t.Errorf("%s: status = %q, want first15", tc.name, engagements.rows[e.ID].Status)
			}
			if checklists.byRequest(e.ID) != nil {
				t.Errorf("%s: checklist should be deleted after advancing", tc.name)
			}
		} else {
			if !errors.Is(err, apperr.ErrPrecondition) {
				t.Errorf("%s: err = %v, want precondition", tc.name, err)
			}
			// A failed precondition changes nothing
			if engagements.rows[e.ID].Status != models.StatusOnboarding {
				t.Errorf("%s: status changed to %q", tc.name, engagements.rows[e.ID].Status)
			}
			if checklists.byRequest(e.ID) == nil {
				t.Errorf("%s: checklist deleted despite failed precondition", tc.name)
			}
		}
	}
}

func TestAdvanceToProductionAndComplete(t *testing.T) {
	svc, engagements, _, _ := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusFirst15)

	if err := svc.AdvanceToProduction(ctx, e.ID); err != nil {
		t.Fatalf("AdvanceToProduction: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusProduction {
		t.Fatalf("status = %q, want production", engagements.rows[e.ID].Status)
	}

	if err := svc.MarkComplete(ctx, e.ID); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusArchived {
		t.Errorf("status = %q, want archived", engagements.rows[e.ID].Status)
	}
	if engagements.rows[e.ID].EndDate == nil {
		t.Error("MarkComplete should stamp the end date")
	}
}

func TestStrikeEscalation(t *testing.T) {
	svc, engagements, checklists, _ := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusOnboarding)
	c, _ := checklists.Create(ctx, e.ID)

	for i := 1; i <= 5; i++ {
		got, err := svc.AddStrike(ctx, c.ID)
		if err != nil {
			t.Fatalf("AddStrike %d: %v", i, err)
		}
		if got.StrikeCount != i {
			t.Fatalf("strike count = %d, want %d", got.StrikeCount, i)
		}
		if got.Bootable() != (i >= models.BootableStrikes) {
			t.Errorf("at %d strikes Bootable() = %v", i, got.Bootable())
		}
	}

	got, err := svc.ResetStrikes(ctx, c.ID)
	if err != nil {
		t.Fatalf("ResetStrikes: %v", err)
	}
	if got.StrikeCount != 0 || got.Bootable() {
		t.Errorf("after reset: count = %d, bootable = %v", got.StrikeCount, got.Bootable())
	}
}

func TestBootWritesSnapshotAndDeletesChecklist(t *testing.T) {
	svc, engagements, checklists, archives := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusOnboarding)
	c, _ := checklists.Create(ctx, e.ID)
	checklists.rows[c.ID].StrikeCount = 3

	if err := svc.Boot(ctx, e.ID); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if engagements.rows[e.ID].Status != models.StatusBooted {
		t.Errorf("status = %q, want booted", engagements.rows[e.ID].Status)
	}
	if checklists.byRequest(e.ID) != nil {
		t.Error("checklist should be deleted on boot")
	}
	if n := archives.countByEngagement(e.ID); n != 1 {
		t.Fatalf("snapshot count = %d, want exactly 1", n)
	}

	for _, a := range archives.rows {
		payload, err := a.Payload()
		if err != nil {
			t.Fatalf("payload: %v", err)
		}
		if payload.Engagement == nil || payload.Engagement.ID != e.ID {
			t.Error("snapshot payload missing engagement")
		}
		if payload.Checklist == nil || payload.Checklist.StrikeCount != 3 {
			t.Error("snapshot payload missing checklist state")
		}
	}
}

func TestBootWithoutChecklist(t *testing.T) {
	svc, engagements, _, archives := newTestLifecycle()
	e := engagements.add(models.StatusProduction)

	if err := svc.Boot(context.Background(), e.ID); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	for _, a := range archives.rows {
		payload, _ := a.Payload()
		if payload.Checklist != nil {
			t.Error("production boot should snapshot a nil checklist")
		}
	}
}

func TestBootTerminalConflicts(t *testing.T) {
	svc, engagements, _, archives := newTestLifecycle()
	e := engagements.add(models.StatusBooted)

	err := svc.Boot(context.Background(), e.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(archives.rows) != 0 {
		t.Errorf("terminal boot wrote %d snapshots", len(archives.rows))
	}
}

type racingEngagements struct {
	*fakeEngagements
	conflictOnUpdate bool
}

func (f *racingEngagements) UpdateStatus(ctx context.Context, id int, from []string, to string) error {
	if f.conflictOnUpdate {
		return apperr.Conflict("engagement %d is not in an eligible status", id)
	}
	return f.fakeEngagements.UpdateStatus(ctx, id, from, to)
}

func TestBootRaceDropsDuplicateSnapshot(t *testing.T) {
	engagements := &racingEngagements{fakeEngagements: newFakeEngagements()}
	archives := newFakeArchives()
	svc := NewLifecycleService(engagements, newFakeChecklists(), archives, newFakeInvoices())

	e := engagements.add(models.StatusProduction)
	engagements.conflictOnUpdate = true

	err := svc.Boot(context.Background(), e.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(archives.rows) != 0 {
		t.Errorf("losing boot left %d snapshots behind", len(archives.rows))
	}
}

func TestReviveFromArchive(t *testing.T) {
	svc, engagements, _, archives := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusProduction)

	if err := svc.Boot(ctx, e.ID); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	var snapshotID int
	for id := range archives.rows {
		snapshotID = id
	}

	revived, err := svc.ReviveFromArchive(ctx, snapshotID)
	if err != nil {
		t.Fatalf("ReviveFromArchive: %v", err)
	}
	if revived.Status != models.StatusPending {
		t.Errorf("revived status = %q, want pending", revived.Status)
	}
	if revived.ClientName != e.ClientName || revived.WordCount != e.WordCount {
		t.Error("revived engagement lost original fields")
	}
	if len(archives.rows) != 0 {
		t.Errorf("snapshot count after revive = %d, want 0", len(archives.rows))
	}
}

func TestReviveBlacklistedRefused(t *testing.T) {
	svc, engagements, _, archives := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusProduction)

	if err := svc.Boot(ctx, e.ID); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	var snapshotID int
	for id := range archives.rows {
		snapshotID = id
	}
	if _, err := svc.ToggleBlacklist(ctx, snapshotID, true, "repeated payment failures"); err != nil {
		t.Fatalf("ToggleBlacklist: %v", err)
	}

	_, err := svc.ReviveFromArchive(ctx, snapshotID)
	if !errors.Is(err, apperr.ErrPrecondition) {
		t.Fatalf("err = %v, want precondition", err)
	}
	if len(archives.rows) != 1 {
		t.Error("refused revive should leave the snapshot in place")
	}
}

func TestToggleBlacklistKeepsReason(t *testing.T) {
	svc, engagements, _, archives := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusProduction)
	svc.Boot(ctx, e.ID)

	var snapshotID int
	for id := range archives.rows {
		snapshotID = id
	}

	if _, err := svc.ToggleBlacklist(ctx, snapshotID, true, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("blacklist without reason: err = %v, want validation", err)
	}

	a, err := svc.ToggleBlacklist(ctx, snapshotID, true, "ghosted mid-production")
	if err != nil {
		t.Fatalf("ToggleBlacklist on: %v", err)
	}
	if !a.IsBlacklisted || a.DNCReason != "ghosted mid-production" {
		t.Errorf("after set: blacklisted = %v, reason = %q", a.IsBlacklisted, a.DNCReason)
	}

	a, err = svc.ToggleBlacklist(ctx, snapshotID, false, "")
	if err != nil {
		t.Fatalf("ToggleBlacklist off: %v", err)
	}
	if a.IsBlacklisted {
		t.Error("blacklist flag should clear")
	}
	if a.DNCReason != "ghosted mid-production" {
		t.Errorf("clearing the flag should keep the reason, got %q", a.DNCReason)
	}
}

func TestPermanentDeleteRequiresTerminal(t *testing.T) {
	svc, engagements, _, _ := newTestLifecycle()
	ctx := context.Background()

	active := engagements.add(models.StatusProduction)
	if err := svc.PermanentDelete(ctx, active.ID); !errors.Is(err, apperr.ErrPrecondition) {
		t.Errorf("delete active: err = %v, want precondition", err)
	}

	done := engagements.add(models.StatusArchived)
	if err := svc.PermanentDelete(ctx, done.ID); err != nil {
		t.Fatalf("delete archived: %v", err)
	}
	if _, ok := engagements.rows[done.ID]; ok {
		t.Error("archived engagement should be gone")
	}
}

func TestPermanentDeleteRemovesInvoice(t *testing.T) {
	svc, engagements, _, _ := newTestLifecycle()
	invoices := svc.Invoices.(*fakeInvoices)
	ctx := context.Background()

	active := engagements.add(models.StatusProduction)
	invoices.byProject[active.ID] = true
	if err := svc.PermanentDelete(ctx, active.ID); !errors.Is(err, apperr.ErrPrecondition) {
		t.Fatalf("delete active: err = %v, want precondition", err)
	}
	if !invoices.byProject[active.ID] {
		t.Error("live engagement's invoice should survive a refused delete")
	}

	done := engagements.add(models.StatusBooted)
	invoices.byProject[done.ID] = true
	if err := svc.PermanentDelete(ctx, done.ID); err != nil {
		t.Fatalf("delete booted: %v", err)
	}
	if invoices.byProject[done.ID] {
		t.Error("invoice should be deleted with its engagement")
	}
	if _, ok := engagements.rows[done.ID]; ok {
		t.Error("booted engagement should be gone")
	}
}

func TestTransitionDispatch(t *testing.T) {
	svc, engagements, _, _ := newTestLifecycle()
	ctx := context.Background()
	e := engagements.add(models.StatusPending)

	got, err := svc.Transition(ctx, e.ID, ActionApprove)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != models.StatusOnboarding {
		t.Errorf("returned status = %q, want onboarding", got.Status)
	}

	if _, err := svc.Transition(ctx, e.ID, "promote"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown action err = %v, want validation", err)
	}
}
