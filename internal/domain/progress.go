package domain

import (
	"context"
	"time"
)

// DayLayout is the format of calendar day strings.
const DayLayout = "2006-01-02"

// ProgressEntry is a user's record for one calendar day. All measurements
// are optional.
type ProgressEntry struct {
	ID              int64     `json:"id,omitempty"`
	UserID          int64     `json:"userId"`
	Date            string    `json:"date"`
	WeightKg        *float64  `json:"weight"`
	WaterLiters     *float64  `json:"waterIntake"`
	ExerciseMinutes *int      `json:"exerciseMinutes"`
	Notes           *string   `json:"notes"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start string
	End   string
}

// Contains reports whether day falls inside the range. Day strings in
// DayLayout order lexically.
func (r DateRange) Contains(day string) bool {
	return day >= r.Start && day <= r.End
}

// ParseDateRange validates optional start and end days. It returns nil when
// both are empty, and ErrInvalidDateRange when only one is given, either
// fails to parse, or start is after end.
func ParseDateRange(start, end string) (*DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, ErrInvalidDateRange
	}
	s, err := time.Parse(DayLayout, start)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	e, err := time.Parse(DayLayout, end)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if s.After(e) {
		return nil, ErrInvalidDateRange
	}
	return &DateRange{Start: start, End: end}, nil
}

// ValidDay reports whether s is a calendar day in DayLayout.
func ValidDay(s string) bool {
	_, err := time.Parse(DayLayout, s)
	return err == nil
}

// ProgressRepository is the port for the progress ledger.
type ProgressRepository interface {
	// UpsertProgress replaces the entry for (e.UserID, e.Date) entirely.
	UpsertProgress(ctx context.Context, e ProgressEntry) error
	// ListProgress returns entries ordered by date descending. A nil range
	// returns every entry.
	ListProgress(ctx context.Context, userID int64, r *DateRange) ([]ProgressEntry, error)
	// LatestWeight returns the most recent entry with a weight, or nil.
	LatestWeight(ctx context.Context, userID int64) (*ProgressEntry, error)
}
