package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"dietprogram/internal/domain"
)

type foodRow struct {
	ID              int64   `db:"id"`
	Name            string  `db:"name"`
	Category        string  `db:"category"`
	CaloriesPer100g float64 `db:"calories_per_100g"`
	ProteinPer100g  float64 `db:"protein_per_100g"`
	CarbsPer100g    float64 `db:"carbs_per_100g"`
	FatPer100g      float64 `db:"fat_per_100g"`
}

func (r foodRow) toDomain() domain.FoodItem {
	return domain.FoodItem{
		ID:              r.ID,
		Name:            r.Name,
		Category:        domain.Category(r.Category),
		CaloriesPer100g: r.CaloriesPer100g,
		ProteinPer100g:  r.ProteinPer100g,
		CarbsPer100g:    r.CarbsPer100g,
		FatPer100g:      r.FatPer100g,
	}
}

func foodsToDomain(rows []foodRow) []domain.FoodItem {
	out := make([]domain.FoodItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

const foodColumns = "id, name, category, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g"

// GetFoodItem returns the item with id, or nil.
func (d *DB) GetFoodItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	var row foodRow
	err := d.sql.GetContext(ctx, &row, "SELECT "+foodColumns+" FROM food_items WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f := row.toDomain()
	return &f, nil
}

// GetFoodItems returns the items whose id is in ids. Unknown ids are skipped.
func (d *DB) GetFoodItems(ctx context.Context, ids []int64) ([]domain.FoodItem, error) {
	var rows []foodRow
	if err := d.sql.SelectContext(ctx, &rows,
		"SELECT "+foodColumns+" FROM food_items WHERE id = ANY($1)", pq.Array(ids),
	); err != nil {
		return nil, err
	}
	return foodsToDomain(rows), nil
}

// ListFoodItems returns the items matching filter, ordered by name.
func (d *DB) ListFoodItems(ctx context.Context, filter domain.FoodFilter) ([]domain.FoodItem, error) {
	var rows []foodRow
	if err := d.sql.SelectContext(ctx, &rows,
		`SELECT `+foodColumns+` FROM food_items
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR strpos(lower(name), lower($2)) > 0)
		ORDER BY name`,
		string(filter.Category), filter.NameContains,
	); err != nil {
		return nil, err
	}
	return foodsToDomain(rows), nil
}

// ListCategories returns the distinct categories in the catalog.
func (d *DB) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []string
	if err := d.sql.SelectContext(ctx, &cats, "SELECT DISTINCT category FROM food_items ORDER BY category"); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.Category(c))
	}
	return out, nil
}

// CountFoodItems returns the catalog size.
func (d *DB) CountFoodItems(ctx context.Context) (int, error) {
	var n int
	err := d.sql.GetContext(ctx, &n, "SELECT COUNT(*) FROM food_items")
	return n, err
}

// CreateFoodItem adds an item to the catalog and returns its id.
func (d *DB) CreateFoodItem(ctx context.Context, f domain.FoodItem) (int64, error) {
	var id int64
	err := d.sql.GetContext(ctx, &id,
		`INSERT INTO food_items (name, category, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		f.Name, string(f.Category), f.CaloriesPer100g, f.ProteinPer100g, f.CarbsPer100g, f.FatPer100g,
	)
	return id, err
}
