package app

import (
	"fmt"
	"time"

	"dietprogram/internal/domain"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

func localDay(t time.Time) string {
	return t.In(time.Local).Format(domain.DayLayout)
}

func validateBody(gender domain.Gender, heightCm, weightKg float64, activity domain.ActivityLevel, goal domain.Goal) error {
	if gender != domain.GenderMale && gender != domain.GenderFemale {
		return invalidf("gender must be \"male\" or \"female\"")
	}
	if heightCm <= 0 {
		return invalidf("height must be > 0")
	}
	if weightKg <= 0 {
		return invalidf("weight must be > 0")
	}
	if !activity.Valid() {
		return invalidf("unknown activity level %q", activity)
	}
	if !goal.Valid() {
		return invalidf("unknown goal %q", goal)
	}
	return nil
}
