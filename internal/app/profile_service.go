package app

import (
	"context"
	"time"

	"dietprogram/internal/domain"
)

// ProfileUpdate is the editable part of a user profile. Gender and
// BirthDate may be omitted once the profile has them.
type ProfileUpdate struct {
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Gender         domain.Gender        `json:"gender,omitempty"`
	BirthDate      string               `json:"birthDate,omitempty"`
	HeightCm       float64              `json:"height"`
	WeightKg       float64              `json:"weight"`
	ActivityLevel  domain.ActivityLevel `json:"activityLevel"`
	Goal           domain.Goal          `json:"goal"`
	TargetWeightKg *float64             `json:"targetWeight"`
}

// GoalRequest is the input of an ad-hoc calorie goal estimate. BirthDate
// takes precedence over Age when set.
type GoalRequest struct {
	domain.BodyMetrics
	BirthDate string `json:"birthDate"`
}

// GoalEstimate breaks a calorie goal down into its steps.
type GoalEstimate struct {
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	DailyCalorieGoal int     `json:"dailyCalorieGoal"`
}

// ProfileService reads and edits user profiles.
type ProfileService struct {
	users domain.UserRepository
	now   func() time.Time
}

// NewProfileService creates a ProfileService.
func NewProfileService(users domain.UserRepository) *ProfileService {
	return &ProfileService{users: users, now: time.Now}
}

// GetProfile returns the user with the given id.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies upd and recomputes the daily calorie goal from the
// new body metrics.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*domain.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Gender != "" {
		u.Gender = upd.Gender
	}
	if upd.BirthDate != "" {
		if !domain.ValidDay(upd.BirthDate) {
			return nil, invalidf("birthDate must be YYYY-MM-DD")
		}
		u.BirthDate = upd.BirthDate
	}
	if u.BirthDate == "" {
		return nil, invalidf("birthDate is required")
	}
	if err := validateBody(u.Gender, upd.HeightCm, upd.WeightKg, upd.ActivityLevel, upd.Goal); err != nil {
		return nil, err
	}
	if upd.TargetWeightKg != nil && *upd.TargetWeightKg <= 0 {
		return nil, invalidf("targetWeight must be > 0")
	}

	u.FirstName = upd.FirstName
	u.LastName = upd.LastName
	u.HeightCm = upd.HeightCm
	u.WeightKg = upd.WeightKg
	u.ActivityLevel = upd.ActivityLevel
	u.Goal = upd.Goal
	u.TargetWeightKg = upd.TargetWeightKg
	u.DailyCalorieGoal = domain.DailyCalorieGoal(u.BodyMetrics(s.now()))

	if err := s.users.UpdateProfile(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// EstimateGoal computes a calorie goal without touching any profile.
func (s *ProfileService) EstimateGoal(req GoalRequest) (GoalEstimate, error) {
	m := req.BodyMetrics
	if req.BirthDate != "" {
		b, err := time.Parse(domain.DayLayout, req.BirthDate)
		if err != nil {
			return GoalEstimate{}, invalidf("birthDate must be YYYY-MM-DD")
		}
		m.Age = domain.AgeOn(b, s.now())
	}
	return GoalEstimate{
		BMR:              domain.BasalMetabolicRate(m),
		TDEE:             domain.TotalDailyEnergyExpenditure(m),
		DailyCalorieGoal: domain.DailyCalorieGoal(m),
	}, nil
}
