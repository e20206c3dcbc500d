package app

import (
	"context"
	"time"

	"dietprogram/internal/domain"
)

// Dashboard summarises a user's day.
type Dashboard struct {
	Day               string        `json:"day"`
	Consumed          domain.Totals `json:"consumed"`
	DailyCalorieGoal  int           `json:"dailyCalorieGoal"`
	RemainingCalories int           `json:"remainingCalories"`
	CurrentWeight     float64       `json:"currentWeight"`
	TargetWeight      *float64      `json:"targetWeight"`
	Meals             []domain.Meal `json:"meals"`
}

// DashboardService assembles the daily summary.
type DashboardService struct {
	users    domain.UserRepository
	meals    domain.MealRepository
	progress domain.ProgressRepository
	now      func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(users domain.UserRepository, meals domain.MealRepository, progress domain.ProgressRepository) *DashboardService {
	return &DashboardService{users: users, meals: meals, progress: progress, now: time.Now}
}

// GetDashboard returns today's summary for the user. The current weight is
// the latest logged weight, falling back to the profile weight.
func (s *DashboardService) GetDashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	day := localDay(s.now())
	meals, err := s.meals.ListMeals(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	var consumed domain.Totals
	for _, m := range meals {
		consumed = consumed.Add(m.Totals)
	}

	weight := u.WeightKg
	latest, err := s.progress.LatestWeight(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.WeightKg != nil {
		weight = *latest.WeightKg
	}

	if meals == nil {
		meals = []domain.Meal{}
	}
	return &Dashboard{
		Day:               day,
		Consumed:          consumed,
		DailyCalorieGoal:  u.DailyCalorieGoal,
		RemainingCalories: u.DailyCalorieGoal - consumed.Calories,
		CurrentWeight:     weight,
		TargetWeight:      u.TargetWeightKg,
		Meals:             meals,
	}, nil
}
