package services

import (
	"context"
	"encoding/json"

	"narration-backend/internal/apperr"
	"narration-backend/internal/cache"
	"narration-backend/internal/metrics"
	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
	"narration-backend/internal/schedule"
	"narration-backend/internal/timeutil"
)

// ScheduleService wraps the pure scheduling engine with hold loading and
// write-time re-validation. Proposals work off a read of the calendar;
// confirmation re-checks the range inside the insert transaction.
type ScheduleService struct {
	EngagementRepo *repositories.EngagementRepository
}

func NewScheduleService(engagementRepo *repositories.EngagementRepository) *ScheduleService {
	return &ScheduleService{EngagementRepo: engagementRepo}
}

// Holds returns the current calendar holds, via cache when warm. Only the
// display path uses the cache; Confirm always re-checks in the database.
func (s *ScheduleService) Holds(ctx context.Context) ([]schedule.Hold, error) {
	if data, ok := cache.GetCachedHolds(ctx); ok {
		var holds []schedule.Hold
		if err := json.Unmarshal(data, &holds); err == nil {
			return holds, nil
		}
	}

	holds, err := s.EngagementRepo.ListHolds(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(holds); err == nil {
		cache.CacheHolds(ctx, data)
	}
	return holds, nil
}

// Propose builds a reservation for a word count and start date without
// persisting anything
func (s *ScheduleService) Propose(ctx context.Context, wordCount int, startDate string) (*schedule.Reservation, error) {
	start, err := timeutil.ParseDate(startDate)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues("validation").Inc()
		return nil, apperr.Validation("start date must be YYYY-MM-DD: %v", err)
	}

	holds, err := s.EngagementRepo.ListHolds(ctx)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues("persistence").Inc()
		return nil, err
	}

	res, err := schedule.Propose(wordCount, start, timeutil.Today(), holds)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues("ok").Inc()
	return res, nil
}

// Confirm re-proposes the reservation from current data and persists the
// engagement occupying it. The availability check from the earlier Propose
// is never trusted: the insert re-validates the range under the database's
// atomicity, so racing operators cannot double-book.
func (s *ScheduleService) Confirm(ctx context.Context, req *models.CreateEngagementRequest) (*models.Engagement, *schedule.Reservation, error) {
	if req.ClientName == "" {
		return nil, nil, apperr.Validation("client name is required")
	}
	if !models.ValidClientType(req.ClientType) {
		return nil, nil, apperr.Validation("client type must be 'direct', 'roster' or 'audition'")
	}

	res, err := s.Propose(ctx, req.WordCount, req.StartDate)
	if err != nil {
		return nil, nil, err
	}

	e := &models.Engagement{
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientType:     req.ClientType,
		BookTitle:      req.BookTitle,
		WordCount:      req.WordCount,
		StartDate:      &res.StartDate,
		EndDate:        &res.EndDate,
		Status:         models.StatusPending,
		NarrationStyle: req.NarrationStyle,
		IsReturning:    req.IsReturning,
	}

	if err := s.EngagementRepo.CreateReserved(ctx, e); err != nil {
		metrics.ReservationsTotal.WithLabelValues("conflict").Inc()
		return nil, nil, err
	}

	cache.InvalidateHolds(ctx)
	return e, res, nil
}
