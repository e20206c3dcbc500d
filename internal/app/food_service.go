package app

import (
	"context"

	"dietprogram/internal/domain"
)

// FoodService exposes the read-only food catalog.
type FoodService struct {
	foods domain.FoodRepository
}

// NewFoodService creates a FoodService.
func NewFoodService(foods domain.FoodRepository) *FoodService {
	return &FoodService{foods: foods}
}

// ListFoods returns the items matching filter, ordered by name.
func (s *FoodService) ListFoods(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalidf("unknown category %q", filter.Category)
	}
	return s.foods.ListFoodItems(ctx, filter)
}

// GetFood returns one item or domain.ErrNotFound.
func (s *FoodService) GetFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	f, err := s.foods.GetFoodItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// Categories returns the categories present in the catalog.
func (s *FoodService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.foods.ListCategories(ctx)
}

// lookupFoods loads the referenced items into a Catalog. Unknown ids are
// simply absent from the result.
func lookupFoods(ctx context.Context, foods domain.FoodRepository, ids []int64) (*domain.Catalog, error) {
	if len(ids) == 0 {
		return domain.NewCatalog(nil), nil
	}
	items, err := foods.GetFoodItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(items), nil
}
