package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dietprogram/internal/domain"
)

type planRow struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	DurationDays   int       `db:"duration_days"`
	TargetCalories int       `db:"target_calories"`
	IsPublic       bool      `db:"is_public"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r planRow) toDomain() domain.DietPlan {
	return domain.DietPlan{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		DurationDays:   r.DurationDays,
		TargetCalories: r.TargetCalories,
		IsPublic:       r.IsPublic,
		CreatedAt:      r.CreatedAt,
	}
}

// planItemRow is one row of the plan meal / item join. Meals without items
// yield a single row with null item columns.
type planItemRow struct {
	MealID     int64  `db:"meal_id"`
	DayNumber  int    `db:"day_number"`
	MealType   string `db:"meal_type"`
	FoodItemID *int64 `db:"food_item_id"`
	Quantity   *int   `db:"quantity"`
}

const planColumns = "id, name, description, duration_days, target_calories, is_public, created_at"

// ListPublicPlans returns public plans ordered by name, without meals.
func (d *DB) ListPublicPlans(ctx context.Context) ([]domain.DietPlan, error) {
	var rows []planRow
	if err := d.sql.SelectContext(ctx, &rows,
		"SELECT "+planColumns+" FROM diet_plans WHERE is_public ORDER BY name",
	); err != nil {
		return nil, err
	}
	out := make([]domain.DietPlan, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// GetDietPlan returns the plan with id including its meal templates in
// template order, or nil.
func (d *DB) GetDietPlan(ctx context.Context, id int64) (*domain.DietPlan, error) {
	var row planRow
	err := d.sql.GetContext(ctx, &row, "SELECT "+planColumns+" FROM diet_plans WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []planItemRow
	if err := d.sql.SelectContext(ctx, &items,
		`SELECT pm.id AS meal_id, pm.day_number, pm.meal_type, pi.food_item_id, pi.quantity
		FROM diet_plan_meals pm
		LEFT JOIN diet_plan_meal_items pi ON pi.plan_meal_id = pm.id
		WHERE pm.diet_plan_id = $1
		ORDER BY pm.position, pi.position`,
		id,
	); err != nil {
		return nil, err
	}

	plan := row.toDomain()
	for _, it := range items {
		n := len(plan.Meals)
		if n == 0 || plan.Meals[n-1].ID != it.MealID {
			plan.Meals = append(plan.Meals, domain.PlanMeal{
				ID:        it.MealID,
				DayNumber: it.DayNumber,
				MealType:  domain.MealType(it.MealType),
				Items:     []domain.PlanItem{},
			})
			n++
		}
		if it.FoodItemID != nil && it.Quantity != nil {
			plan.Meals[n-1].Items = append(plan.Meals[n-1].Items, domain.PlanItem{
				FoodItemID: *it.FoodItemID,
				Quantity:   *it.Quantity,
			})
		}
	}
	return &plan, nil
}

// CreateDietPlan stores p with its meal templates in one transaction.
func (d *DB) CreateDietPlan(ctx context.Context, p domain.DietPlan) (int64, error) {
	tx, err := d.sql.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var planID int64
	if err := tx.GetContext(ctx, &planID,
		`INSERT INTO diet_plans (name, description, duration_days, target_calories, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.Description, p.DurationDays, p.TargetCalories, p.IsPublic, time.Now(),
	); err != nil {
		return 0, fmt.Errorf("insert plan: %w", err)
	}

	for i, m := range p.Meals {
		var mealID int64
		if err := tx.GetContext(ctx, &mealID,
			"INSERT INTO diet_plan_meals (diet_plan_id, position, day_number, meal_type) VALUES ($1, $2, $3, $4) RETURNING id",
			planID, i, m.DayNumber, string(m.MealType),
		); err != nil {
			return 0, fmt.Errorf("insert plan meal: %w", err)
		}
		for j, it := range m.Items {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO diet_plan_meal_items (plan_meal_id, position, food_item_id, quantity) VALUES ($1, $2, $3, $4)",
				mealID, j, it.FoodItemID, it.Quantity,
			); err != nil {
				return 0, fmt.Errorf("insert plan item: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return planID, nil
}
