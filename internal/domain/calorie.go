package domain

import (
	"math"
	"time"
)

// Gender selects the BMR equation.
type Gender string

// Supported genders.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel scales BMR to total daily energy expenditure.
type ActivityLevel string

// Activity levels.
const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// Multiplier returns the TDEE multiplier; unknown levels count as sedentary.
func (a ActivityLevel) Multiplier() float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}

// Valid reports whether a is a known activity level.
func (a ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

// Goal is the user's weight objective.
type Goal string

// Goals.
const (
	GoalLoseWeight Goal = "lose_weight"
	GoalMaintain   Goal = "maintain"
	GoalGainWeight Goal = "gain_weight"
	GoalMuscleGain Goal = "muscle_gain"
)

// Valid reports whether g is a known goal.
func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalMaintain, GoalGainWeight, GoalMuscleGain:
		return true
	}
	return false
}

// Adjustment is the daily calorie offset applied on top of TDEE.
func (g Goal) Adjustment() float64 {
	switch g {
	case GoalLoseWeight:
		return -500
	case GoalGainWeight, GoalMuscleGain:
		return 300
	}
	return 0
}

// BodyMetrics is the input of the calorie goal calculation. Values are not
// range checked.
type BodyMetrics struct {
	WeightKg float64       `json:"weight"`
	HeightCm float64       `json:"height"`
	Age      int           `json:"age"`
	Gender   Gender        `json:"gender"`
	Activity ActivityLevel `json:"activityLevel"`
	Goal     Goal          `json:"goal"`
}

// BasalMetabolicRate uses the Harris-Benedict equation. Any gender other
// than male uses the female coefficients.
func BasalMetabolicRate(m BodyMetrics) float64 {
	age := float64(m.Age)
	if m.Gender == GenderMale {
		return 88.362 + 13.397*m.WeightKg + 4.799*m.HeightCm - 5.677*age
	}
	return 447.593 + 9.247*m.WeightKg + 3.098*m.HeightCm - 4.330*age
}

// TotalDailyEnergyExpenditure is BMR scaled by the activity multiplier.
func TotalDailyEnergyExpenditure(m BodyMetrics) float64 {
	return BasalMetabolicRate(m) * m.Activity.Multiplier()
}

// DailyCalorieGoal returns the recommended daily intake, rounded to the
// nearest calorie.
func DailyCalorieGoal(m BodyMetrics) int {
	return int(math.Round(TotalDailyEnergyExpenditure(m) + m.Goal.Adjustment()))
}

// AgeOn returns the number of full years between birth and today.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}
