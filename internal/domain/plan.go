package domain

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// PlanItem is a food portion within a diet plan template.
type PlanItem struct {
	FoodItemID int64 `json:"foodItemId"`
	Quantity   int   `json:"quantity"`
}

// PlanMeal is the template for one meal on one day of a plan.
type PlanMeal struct {
	ID        int64      `json:"id,omitempty"`
	DayNumber int        `json:"dayNumber"`
	MealType  MealType   `json:"mealType"`
	Items     []PlanItem `json:"items"`
}

// DietPlan is a multi-day meal template.
type DietPlan struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	DurationDays   int        `json:"durationDays"`
	TargetCalories int        `json:"targetCalories"`
	IsPublic       bool       `json:"isPublic"`
	Meals          []PlanMeal `json:"meals,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ComposedItem is a plan portion with its projected nutrition.
type ComposedItem struct {
	MealItem
	CaloriesPer100g float64 `json:"caloriesPer100g"`
}

// ComposedMeal is a plan meal expanded against the catalog.
type ComposedMeal struct {
	DayNumber int            `json:"dayNumber"`
	MealType  MealType       `json:"mealType"`
	Items     []ComposedItem `json:"items"`
	Totals    Totals         `json:"totals"`
}

// PlanDay holds the projected totals of one plan day.
type PlanDay struct {
	DayNumber int    `json:"dayNumber"`
	Totals    Totals `json:"totals"`
}

type planKey struct {
	day  int
	meal MealType
}

// ComposeDietPlan expands plan into composed meals ordered by day and then
// meal type. Template meals sharing a (day, meal type) are merged in
// template order. A meal with no items composes to zero totals.
func ComposeDietPlan(plan DietPlan, lookup FoodLookup) ([]ComposedMeal, error) {
	groups := make(map[planKey]*ComposedMeal)
	order := make([]planKey, 0, len(plan.Meals))

	for _, pm := range plan.Meals {
		k := planKey{day: pm.DayNumber, meal: pm.MealType}
		cm, ok := groups[k]
		if !ok {
			cm = &ComposedMeal{DayNumber: pm.DayNumber, MealType: pm.MealType, Items: []ComposedItem{}}
			groups[k] = cm
			order = append(order, k)
		}
		for _, it := range pm.Items {
			if it.Quantity <= 0 {
				return nil, fmt.Errorf("%w: plan quantity must be > 0", ErrInvalidInput)
			}
			f, found := lookup.FoodItem(it.FoodItemID)
			if !found {
				return nil, fmt.Errorf("%w: %d", ErrInvalidFoodReference, it.FoodItemID)
			}
			portion := PortionOf(f, it.Quantity)
			cm.Items = append(cm.Items, ComposedItem{MealItem: portion, CaloriesPer100g: f.CaloriesPer100g})
			cm.Totals = cm.Totals.Add(portion.Totals())
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].day != order[j].day {
			return order[i].day < order[j].day
		}
		return order[i].meal.Rank() < order[j].meal.Rank()
	})

	out := make([]ComposedMeal, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out, nil
}

// PlanDayTotals sums composed meals per day. meals must be ordered by day,
// as returned by ComposeDietPlan.
func PlanDayTotals(meals []ComposedMeal) []PlanDay {
	var days []PlanDay
	for _, m := range meals {
		if n := len(days); n > 0 && days[n-1].DayNumber == m.DayNumber {
			days[n-1].Totals = days[n-1].Totals.Add(m.Totals)
			continue
		}
		days = append(days, PlanDay{DayNumber: m.DayNumber, Totals: m.Totals})
	}
	return days
}

// FoodIDs returns the distinct food item ids referenced by the plan.
func (p DietPlan) FoodIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, m := range p.Meals {
		for _, it := range m.Items {
			if !seen[it.FoodItemID] {
				seen[it.FoodItemID] = true
				ids = append(ids, it.FoodItemID)
			}
		}
	}
	return ids
}

// DietPlanRepository is the port for diet plan persistence.
type DietPlanRepository interface {
	ListPublicPlans(ctx context.Context) ([]DietPlan, error)
	GetDietPlan(ctx context.Context, id int64) (*DietPlan, error)
}
