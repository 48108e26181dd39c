package services

import (
	"context"

	"narration-backend/internal/apperr"
	"narration-backend/internal/cache"
	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
	"narration-backend/internal/timeutil"
)

type SessionLogService struct {
	Repo           *repositories.SessionLogRepository
	EngagementRepo *repositories.EngagementRepository
}

func NewSessionLogService(repo *repositories.SessionLogRepository, engagementRepo *repositories.EngagementRepository) *SessionLogService {
	return &SessionLogService{Repo: repo, EngagementRepo: engagementRepo}
}

// LogSession records a block of work against an engagement
func (s *SessionLogService) LogSession(ctx context.Context, req *models.CreateSessionLogRequest) (*models.SessionLog, error) {
	if req.DurationHrs <= 0 {
		return nil, apperr.Validation("session duration must be positive, got %v", req.DurationHrs)
	}
	if !models.ValidActivity(req.Activity) {
		return nil, apperr.Validation("activity must be one of prep, recording, editing, proofing")
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("session date must be YYYY-MM-DD: %v", err)
	}

	if _, err := s.EngagementRepo.Get(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	l := &models.SessionLog{
		ProjectID:   req.ProjectID,
		Date:        date,
		Activity:    req.Activity,
		DurationHrs: req.DurationHrs,
		Notes:       req.Notes,
	}
	if err := s.Repo.Create(ctx, l); err != nil {
		return nil, err
	}

	cache.InvalidateSettlement(ctx, req.ProjectID)
	return l, nil
}

// ListSessions returns an engagement's logged sessions
func (s *SessionLogService) ListSessions(ctx context.Context, projectID int) ([]models.SessionLog, error) {
	return s.Repo.ListByProject(ctx, projectID)
}

// DeleteSession removes a log entry, the only mutation logs allow
func (s *SessionLogService) DeleteSession(ctx context.Context, id int) error {
	l, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateSettlement(ctx, l.ProjectID)
	return nil
}
