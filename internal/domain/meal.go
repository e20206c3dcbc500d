package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// MealType identifies which meal of the day an entry belongs to.
type MealType string

// Meal types in their canonical daily order.
const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var mealTypeRank = map[MealType]int{
	MealBreakfast: 0,
	MealLunch:     1,
	MealDinner:    2,
	MealSnack:     3,
}

// Valid reports whether t is a known meal type.
func (t MealType) Valid() bool {
	_, ok := mealTypeRank[t]
	return ok
}

// Rank orders meal types breakfast < lunch < dinner < snack. Unknown types
// rank after snack.
func (t MealType) Rank() int {
	if r, ok := mealTypeRank[t]; ok {
		return r
	}
	return len(mealTypeRank)
}

// Totals is the calorie and macronutrient sum of one or more meal items.
type Totals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the element-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
	}
}

// MealItemInput is a requested (food, grams) pair.
type MealItemInput struct {
	FoodItemID int64 `json:"foodItemId"`
	Quantity   int   `json:"quantity"`
}

// MealItem is a food portion with nutrition derived from the catalog.
type MealItem struct {
	ID         int64   `json:"id,omitempty"`
	FoodItemID int64   `json:"foodItemId"`
	FoodName   string  `json:"foodName"`
	Quantity   int     `json:"quantity"`
	Calories   int     `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
}

// Totals returns the item's contribution to a meal total.
func (mi MealItem) Totals() Totals {
	return Totals{Calories: mi.Calories, Protein: mi.Protein, Carbs: mi.Carbs, Fat: mi.Fat}
}

// Meal is a recorded meal of a user on a given day.
type Meal struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Date      string     `json:"date"`
	MealType  MealType   `json:"mealType"`
	Items     []MealItem `json:"items"`
	Totals    Totals     `json:"totals"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PortionOf computes the nutrition of quantity grams of f. Calories are
// rounded to the nearest whole calorie, macronutrients are not.
func PortionOf(f FoodItem, quantity int) MealItem {
	q := float64(quantity)
	return MealItem{
		FoodItemID: f.ID,
		FoodName:   f.Name,
		Quantity:   quantity,
		Calories:   int(math.Round(f.CaloriesPer100g * q / 100)),
		Protein:    f.ProteinPer100g * q / 100,
		Carbs:      f.CarbsPer100g * q / 100,
		Fat:        f.FatPer100g * q / 100,
	}
}

// SumItems returns the totals of items.
func SumItems(items []MealItem) Totals {
	var t Totals
	for _, it := range items {
		t = t.Add(it.Totals())
	}
	return t
}

// AggregateMeal resolves every input against lookup and returns the derived
// items, in input order, together with their totals.
func AggregateMeal(inputs []MealItemInput, lookup FoodLookup) ([]MealItem, Totals, error) {
	if len(inputs) == 0 {
		return nil, Totals{}, ErrEmptyMeal
	}
	items := make([]MealItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, Totals{}, fmt.Errorf("%w: quantity must be > 0", ErrInvalidInput)
		}
		f, ok := lookup.FoodItem(in.FoodItemID)
		if !ok {
			return nil, Totals{}, fmt.Errorf("%w: %d", ErrInvalidFoodReference, in.FoodItemID)
		}
		items = append(items, PortionOf(f, in.Quantity))
	}
	return items, SumItems(items), nil
}

// MealRepository is the port for meal persistence. Totals are never stored;
// readers recompute them from the items.
type MealRepository interface {
	CreateMeal(ctx context.Context, m *Meal) (int64, error)
	// ListMeals returns the user's meals on day, or every meal when day is
	// empty, ordered by date descending then meal type.
	ListMeals(ctx context.Context, userID int64, day string) ([]Meal, error)
	// DailyTotals sums item nutrition per day inside r. Days without meals
	// are absent.
	DailyTotals(ctx context.Context, userID int64, r DateRange) (map[string]Totals, error)
}
