package domain

import (
	"context"
	"sort"
	"strings"
)

// Category groups food items in the catalog.
type Category string

// Known food categories.
const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryProteins   Category = "proteins"
	CategoryGrains     Category = "grains"
	CategoryDairy      Category = "dairy"
	CategoryNuts       Category = "nuts"
	CategorySeeds      Category = "seeds"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFruits, CategoryVegetables, CategoryProteins, CategoryGrains,
		CategoryDairy, CategoryNuts, CategorySeeds:
		return true
	}
	return false
}

// FoodItem holds the nutrition facts of a food per 100 grams.
type FoodItem struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	CaloriesPer100g float64  `json:"caloriesPer100g"`
	ProteinPer100g  float64  `json:"proteinPer100g"`
	CarbsPer100g    float64  `json:"carbsPer100g"`
	FatPer100g      float64  `json:"fatPer100g"`
}

// FoodFilter narrows a catalog listing. Zero values match everything.
type FoodFilter struct {
	Category     Category
	NameContains string
}

// Match reports whether f passes the filter. Name matching is case-insensitive.
func (ff FoodFilter) Match(f FoodItem) bool {
	if ff.Category != "" && f.Category != ff.Category {
		return false
	}
	if ff.NameContains != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(ff.NameContains)) {
		return false
	}
	return true
}

// FoodLookup resolves food item ids to their nutrition facts.
type FoodLookup interface {
	FoodItem(id int64) (FoodItem, bool)
}

// Catalog is an immutable snapshot of food items, used as a FoodLookup by
// the meal and plan computations.
type Catalog struct {
	byID  map[int64]FoodItem
	items []FoodItem
}

// NewCatalog builds a catalog from items. Items are kept ordered by name.
func NewCatalog(items []FoodItem) *Catalog {
	c := &Catalog{
		byID:  make(map[int64]FoodItem, len(items)),
		items: make([]FoodItem, len(items)),
	}
	copy(c.items, items)
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].Name < c.items[j].Name })
	for _, f := range c.items {
		c.byID[f.ID] = f
	}
	return c
}

// FoodItem implements FoodLookup.
func (c *Catalog) FoodItem(id int64) (FoodItem, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Search returns the items matching filter, ordered by name.
func (c *Catalog) Search(filter FoodFilter) []FoodItem {
	out := make([]FoodItem, 0, len(c.items))
	for _, f := range c.items {
		if filter.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// Categories returns the distinct categories present, sorted.
func (c *Catalog) Categories() []Category {
	seen := make(map[Category]bool)
	out := make([]Category, 0, 7)
	for _, f := range c.items {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FoodRepository is the port for the food catalog.
type FoodRepository interface {
	GetFoodItem(ctx context.Context, id int64) (*FoodItem, error)
	GetFoodItems(ctx context.Context, ids []int64) ([]FoodItem, error)
	ListFoodItems(ctx context.Context, filter FoodFilter) ([]FoodItem, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
