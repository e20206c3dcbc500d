package app

import (
	"context"
	"time"

	"dietprogram/internal/domain"
)

// MaxChartDays caps the length of a chart series.
const MaxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	meals    domain.MealRepository
	progress domain.ProgressRepository
	now      func() time.Time
}

// NewChartsService creates a ChartsService backed by the given repositories.
func NewChartsService(meals domain.MealRepository, progress domain.ProgressRepository) *ChartsService {
	return &ChartsService{meals: meals, progress: progress, now: time.Now}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day             string       `json:"day"`
	Calories        int          `json:"calories"`
	WaterLiters     *float64     `json:"waterLiters"`
	ExerciseMinutes *int         `json:"exerciseMinutes"`
	Weight          *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns per-day chart data for the last days days, oldest first,
// with weights converted to the requested unit.
func (s *ChartsService) GetDaily(ctx context.Context, userID int64, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidWeightUnit(unit) {
		return nil, invalidf("unit must be \"kg\" or \"lb\"")
	}
	if days < 1 {
		return nil, invalidf("days must be >= 1")
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}

	today := s.now().In(time.Local)
	r := &domain.DateRange{
		Start: today.AddDate(0, 0, -(days - 1)).Format(domain.DayLayout),
		End:   today.Format(domain.DayLayout),
	}
	entries, err := s.progress.ListProgress(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	totals, err := s.meals.DailyTotals(ctx, userID, *r)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]domain.ProgressEntry, len(entries))
	for _, e := range entries {
		byDay[e.Date] = e
	}

	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format(domain.DayLayout)
		p := DayPoint{Day: dayStr, Calories: totals[dayStr].Calories}
		if e, ok := byDay[dayStr]; ok {
			p.WaterLiters = e.WaterLiters
			p.ExerciseMinutes = e.ExerciseMinutes
			if e.WeightKg != nil {
				p.Weight = &WeightPoint{Value: domain.ConvertWeight(*e.WeightKg, domain.UnitKg, unit), Unit: unit}
			}
		}
		points = append(points, p)
	}
	return points, nil
}
