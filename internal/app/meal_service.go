package app

import (
	"context"
	"time"

	"dietprogram/internal/domain"
)

// MealService records meals and derives their nutrition from the catalog.
type MealService struct {
	meals domain.MealRepository
	foods domain.FoodRepository
	now   func() time.Time
}

// NewMealService creates a MealService.
func NewMealService(meals domain.MealRepository, foods domain.FoodRepository) *MealService {
	return &MealService{meals: meals, foods: foods, now: time.Now}
}

// RecordMeal validates and stores a meal. An empty day means today. Nothing
// is stored when any item fails to resolve.
func (s *MealService) RecordMeal(ctx context.Context, userID int64, mealType domain.MealType, day string, inputs []domain.MealItemInput) (*domain.Meal, error) {
	if !mealType.Valid() {
		return nil, invalidf("unknown meal type %q", mealType)
	}
	if day == "" {
		day = localDay(s.now())
	} else if !domain.ValidDay(day) {
		return nil, invalidf("date must be YYYY-MM-DD")
	}
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyMeal
	}

	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.FoodItemID)
	}
	catalog, err := lookupFoods(ctx, s.foods, ids)
	if err != nil {
		return nil, err
	}

	items, totals, err := domain.AggregateMeal(inputs, catalog)
	if err != nil {
		return nil, err
	}

	m := &domain.Meal{
		UserID:    userID,
		Date:      day,
		MealType:  mealType,
		Items:     items,
		Totals:    totals,
		CreatedAt: s.now(),
	}
	id, err := s.meals.CreateMeal(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

// ListMeals returns the user's meals for day, or the whole history newest
// first when day is empty.
func (s *MealService) ListMeals(ctx context.Context, userID int64, day string) ([]domain.Meal, error) {
	if day != "" && !domain.ValidDay(day) {
		return nil, invalidf("date must be YYYY-MM-DD")
	}
	return s.meals.ListMeals(ctx, userID, day)
}
