package app

import (
	"context"
	"errors"
	"time"

	"dietprogram/internal/domain"
)

type mockUserRepo struct {
	getByLoginFn    func(ctx context.Context, login string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, u domain.User) (*domain.User, error)
	updateProfileFn func(ctx context.Context, u domain.User) error
}

func (m *mockUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	if m.getByLoginFn != nil {
		return m.getByLoginFn(ctx, login)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = 1
	return &u, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, u)
	}
	return nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

// mockFoodRepo serves a fixed item list.
type mockFoodRepo struct {
	items   []domain.FoodItem
	err     error
	listFn  func(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error)
	idsSeen [][]int64
}

func (m *mockFoodRepo) GetFoodItem(_ context.Context, id int64) (*domain.FoodItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.items {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, nil
}

func (m *mockFoodRepo) GetFoodItems(_ context.Context, ids []int64) ([]domain.FoodItem, error) {
	m.idsSeen = append(m.idsSeen, ids)
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.FoodItem
	for _, f := range m.items {
		for _, id := range ids {
			if f.ID == id {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (m *mockFoodRepo) ListFoodItems(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return domain.NewCatalog(m.items).Search(filter), nil
}

func (m *mockFoodRepo) ListCategories(context.Context) ([]domain.Category, error) {
	return domain.NewCatalog(m.items).Categories(), nil
}

type mockMealRepo struct {
	createFn func(ctx context.Context, m *domain.Meal) (int64, error)
	listFn   func(ctx context.Context, userID int64, day string) ([]domain.Meal, error)
	totalsFn func(ctx context.Context, userID int64, r domain.DateRange) (map[string]domain.Totals, error)
}

func (m *mockMealRepo) CreateMeal(ctx context.Context, meal *domain.Meal) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, meal)
	}
	return 1, nil
}

func (m *mockMealRepo) ListMeals(ctx context.Context, userID int64, day string) ([]domain.Meal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockMealRepo) DailyTotals(ctx context.Context, userID int64, r domain.DateRange) (map[string]domain.Totals, error) {
	if m.totalsFn != nil {
		return m.totalsFn(ctx, userID, r)
	}
	return nil, nil
}

type mockPlanRepo struct {
	listFn func(ctx context.Context) ([]domain.DietPlan, error)
	getFn  func(ctx context.Context, id int64) (*domain.DietPlan, error)
}

func (m *mockPlanRepo) ListPublicPlans(ctx context.Context) ([]domain.DietPlan, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPlanRepo) GetDietPlan(ctx context.Context, id int64) (*domain.DietPlan, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

type mockProgressRepo struct {
	upsertFn func(ctx context.Context, e domain.ProgressEntry) error
	listFn   func(ctx context.Context, userID int64, r *domain.DateRange) ([]domain.ProgressEntry, error)
	latestFn func(ctx context.Context, userID int64) (*domain.ProgressEntry, error)
}

func (m *mockProgressRepo) UpsertProgress(ctx context.Context, e domain.ProgressEntry) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, e)
	}
	return nil
}

func (m *mockProgressRepo) ListProgress(ctx context.Context, userID int64, r *domain.DateRange) ([]domain.ProgressEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, r)
	}
	return nil, nil
}

func (m *mockProgressRepo) LatestWeight(ctx context.Context, userID int64) (*domain.ProgressEntry, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID)
	}
	return nil, nil
}

var errBoom = errors.New("boom")

func fixedClock(day string) func() time.Time {
	t, err := time.ParseInLocation(domain.DayLayout, day, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(12 * time.Hour) }
}

func testFoods() []domain.FoodItem {
	return []domain.FoodItem{
		{ID: 1, Name: "Apple", Category: domain.CategoryFruits, CaloriesPer100g: 52, ProteinPer100g: 0.3, CarbsPer100g: 14, FatPer100g: 0.2},
		{ID: 2, Name: "Chicken Breast", Category: domain.CategoryProteins, CaloriesPer100g: 165, ProteinPer100g: 31, CarbsPer100g: 0, FatPer100g: 3.6},
		{ID: 3, Name: "Brown Rice", Category: domain.CategoryGrains, CaloriesPer100g: 111, ProteinPer100g: 2.6, CarbsPer100g: 23, FatPer100g: 0.9},
	}
}

func ptr[T any](v T) *T { return &v }
