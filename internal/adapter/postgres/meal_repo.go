package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"dietprogram/internal/domain"
)

type mealRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Date      string    `db:"date"`
	MealType  string    `db:"meal_type"`
	CreatedAt time.Time `db:"created_at"`
}

type mealItemRow struct {
	ID         int64   `db:"id"`
	MealID     int64   `db:"meal_id"`
	FoodItemID int64   `db:"food_item_id"`
	FoodName   string  `db:"food_name"`
	Quantity   int     `db:"quantity"`
	Calories   int     `db:"calories"`
	Protein    float64 `db:"protein"`
	Carbs      float64 `db:"carbs"`
	Fat        float64 `db:"fat"`
}

// mealTypeOrder sorts meal_type breakfast, lunch, dinner, snack.
const mealTypeOrder = `CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END`

// CreateMeal stores m with its items in one transaction and returns the
// new meal id. Item ids are written back into m.Items.
func (d *DB) CreateMeal(ctx context.Context, m *domain.Meal) (int64, error) {
	tx, err := d.sql.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var mealID int64
	if err := tx.GetContext(ctx, &mealID,
		"INSERT INTO meals (user_id, date, meal_type, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		m.UserID, m.Date, string(m.MealType), createdAt,
	); err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}

	for i := range m.Items {
		it := &m.Items[i]
		if err := tx.GetContext(ctx, &it.ID,
			`INSERT INTO meal_items (meal_id, food_item_id, position, food_name, quantity, calories, protein, carbs, fat)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			mealID, it.FoodItemID, i, it.FoodName, it.Quantity, it.Calories, it.Protein, it.Carbs, it.Fat,
		); err != nil {
			return 0, fmt.Errorf("insert meal item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return mealID, nil
}

// ListMeals returns the user's meals on day, or all of them when day is
// empty, newest day first and in meal type order within a day. Totals are
// recomputed from the items.
func (d *DB) ListMeals(ctx context.Context, userID int64, day string) ([]domain.Meal, error) {
	var rows []mealRow
	if err := d.sql.SelectContext(ctx, &rows,
		`SELECT id, user_id, date::text AS date, meal_type, created_at FROM meals
		WHERE user_id = $1 AND ($2 = '' OR date = NULLIF($2, '')::date)
		ORDER BY date DESC, `+mealTypeOrder+`, id`,
		userID, day,
	); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	var items []mealItemRow
	if err := d.sql.SelectContext(ctx, &items,
		`SELECT id, meal_id, food_item_id, food_name, quantity, calories, protein, carbs, fat
		FROM meal_items WHERE meal_id = ANY($1) ORDER BY meal_id, position`,
		pq.Array(ids),
	); err != nil {
		return nil, err
	}

	byMeal := make(map[int64][]domain.MealItem, len(rows))
	for _, it := range items {
		byMeal[it.MealID] = append(byMeal[it.MealID], domain.MealItem{
			ID:         it.ID,
			FoodItemID: it.FoodItemID,
			FoodName:   it.FoodName,
			Quantity:   it.Quantity,
			Calories:   it.Calories,
			Protein:    it.Protein,
			Carbs:      it.Carbs,
			Fat:        it.Fat,
		})
	}

	meals := make([]domain.Meal, 0, len(rows))
	for _, r := range rows {
		mi := byMeal[r.ID]
		if mi == nil {
			mi = []domain.MealItem{}
		}
		meals = append(meals, domain.Meal{
			ID:        r.ID,
			UserID:    r.UserID,
			Date:      r.Date,
			MealType:  domain.MealType(r.MealType),
			Items:     mi,
			Totals:    domain.SumItems(mi),
			CreatedAt: r.CreatedAt,
		})
	}
	return meals, nil
}

// DailyTotals sums the user's meal items per day within r. Days without
// meals are absent from the result.
func (d *DB) DailyTotals(ctx context.Context, userID int64, r domain.DateRange) (map[string]domain.Totals, error) {
	var rows []struct {
		Date     string  `db:"date"`
		Calories int     `db:"calories"`
		Protein  float64 `db:"protein"`
		Carbs    float64 `db:"carbs"`
		Fat      float64 `db:"fat"`
	}
	err := d.sql.SelectContext(ctx, &rows,
		`SELECT m.date::text AS date, SUM(mi.calories) AS calories, SUM(mi.protein) AS protein,
			SUM(mi.carbs) AS carbs, SUM(mi.fat) AS fat
		FROM meal_items mi JOIN meals m ON m.id = mi.meal_id
		WHERE m.user_id = $1 AND m.date BETWEEN $2 AND $3
		GROUP BY m.date`,
		userID, r.Start, r.End,
	)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Totals, len(rows))
	for _, row := range rows {
		out[row.Date] = domain.Totals{Calories: row.Calories, Protein: row.Protein, Carbs: row.Carbs, Fat: row.Fat}
	}
	return out, nil
}
