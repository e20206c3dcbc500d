package app

import (
	"context"
	"strings"
	"time"

	"dietprogram/internal/domain"
)

// ProgressService maintains the per-day progress ledger.
type ProgressService struct {
	progress domain.ProgressRepository
	now      func() time.Time
}

// NewProgressService creates a ProgressService.
func NewProgressService(progress domain.ProgressRepository) *ProgressService {
	return &ProgressService{progress: progress, now: time.Now}
}

// SaveProgress replaces the user's entry for e.Date, today when empty.
func (s *ProgressService) SaveProgress(ctx context.Context, userID int64, e domain.ProgressEntry) (*domain.ProgressEntry, error) {
	if e.Date == "" {
		e.Date = localDay(s.now())
	} else if !domain.ValidDay(e.Date) {
		return nil, invalidf("date must be YYYY-MM-DD")
	}
	if e.WeightKg != nil && *e.WeightKg <= 0 {
		return nil, invalidf("weight must be > 0")
	}
	if e.WaterLiters != nil && *e.WaterLiters < 0 {
		return nil, invalidf("waterIntake must be >= 0")
	}
	if e.ExerciseMinutes != nil && *e.ExerciseMinutes < 0 {
		return nil, invalidf("exerciseMinutes must be >= 0")
	}
	if e.Notes != nil && strings.TrimSpace(*e.Notes) == "" {
		e.Notes = nil
	}

	e.UserID = userID
	e.UpdatedAt = s.now()
	if err := s.progress.UpsertProgress(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListProgress returns entries newest first, optionally bounded by an
// inclusive [start, end] range.
func (s *ProgressService) ListProgress(ctx context.Context, userID int64, start, end string) ([]domain.ProgressEntry, error) {
	r, err := domain.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.progress.ListProgress(ctx, userID, r)
}

// LatestWeight returns the newest entry carrying a weight, or nil.
func (s *ProgressService) LatestWeight(ctx context.Context, userID int64) (*domain.ProgressEntry, error) {
	return s.progress.LatestWeight(ctx, userID)
}
