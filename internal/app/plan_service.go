package app

import (
	"context"

	"dietprogram/internal/domain"
)

// PlanDetail is a diet plan expanded against the food catalog.
type PlanDetail struct {
	Plan  domain.DietPlan       `json:"plan"`
	Meals []domain.ComposedMeal `json:"meals"`
	Days  []domain.PlanDay      `json:"days"`
}

// PlanService serves the diet plan library.
type PlanService struct {
	plans domain.DietPlanRepository
	foods domain.FoodRepository
}

// NewPlanService creates a PlanService.
func NewPlanService(plans domain.DietPlanRepository, foods domain.FoodRepository) *PlanService {
	return &PlanService{plans: plans, foods: foods}
}

// ListPublic returns the public plans without their meal templates.
func (s *PlanService) ListPublic(ctx context.Context) ([]domain.DietPlan, error) {
	plans, err := s.plans.ListPublicPlans(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].Meals = nil
	}
	return plans, nil
}

// GetPlan composes the plan with the given id.
func (s *PlanService) GetPlan(ctx context.Context, id int64) (*PlanDetail, error) {
	plan, err := s.plans.GetDietPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	catalog, err := lookupFoods(ctx, s.foods, plan.FoodIDs())
	if err != nil {
		return nil, err
	}
	meals, err := domain.ComposeDietPlan(*plan, catalog)
	if err != nil {
		return nil, err
	}

	detail := &PlanDetail{Plan: *plan, Meals: meals, Days: domain.PlanDayTotals(meals)}
	detail.Plan.Meals = nil
	return detail, nil
}
