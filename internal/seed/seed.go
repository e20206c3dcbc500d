// Package seed loads the starter food catalog and diet plans into an empty
// store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"dietprogram/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Food is a catalog entry as written in the seed file.
type Food struct {
	Name     string          `yaml:"name"`
	Category domain.Category `yaml:"category"`
	Calories float64         `yaml:"calories"`
	Protein  float64         `yaml:"protein"`
	Carbs    float64         `yaml:"carbs"`
	Fat      float64         `yaml:"fat"`
}

// PlanItem references a food by name.
type PlanItem struct {
	Food  string `yaml:"food"`
	Grams int    `yaml:"grams"`
}

// PlanMeal is one templated meal.
type PlanMeal struct {
	Day   int             `yaml:"day"`
	Meal  domain.MealType `yaml:"meal"`
	Items []PlanItem      `yaml:"items"`
}

// Plan is a diet plan as written in the seed file.
type Plan struct {
	Name           string     `yaml:"name"`
	Description    string     `yaml:"description"`
	DurationDays   int        `yaml:"durationDays"`
	TargetCalories int        `yaml:"targetCalories"`
	Public         bool       `yaml:"public"`
	Meals          []PlanMeal `yaml:"meals"`
}

// Catalog is the parsed seed file.
type Catalog struct {
	Foods []Food `yaml:"foods"`
	Plans []Plan `yaml:"plans"`
}

// Store is the write side needed to seed a repository.
type Store interface {
	CountFoodItems(ctx context.Context) (int, error)
	CreateFoodItem(ctx context.Context, f domain.FoodItem) (int64, error)
	CreateDietPlan(ctx context.Context, p domain.DietPlan) (int64, error)
}

// Load reads the seed file at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	names := make(map[string]bool, len(c.Foods))
	for _, f := range c.Foods {
		if f.Name == "" {
			return fmt.Errorf("seed: food without name")
		}
		if names[f.Name] {
			return fmt.Errorf("seed: duplicate food %q", f.Name)
		}
		if !f.Category.Valid() {
			return fmt.Errorf("seed: food %q has unknown category %q", f.Name, f.Category)
		}
		if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 {
			return fmt.Errorf("seed: food %q has negative nutrition values", f.Name)
		}
		names[f.Name] = true
	}
	for _, p := range c.Plans {
		for _, m := range p.Meals {
			if !m.Meal.Valid() {
				return fmt.Errorf("seed: plan %q has unknown meal type %q", p.Name, m.Meal)
			}
			for _, it := range m.Items {
				if !names[it.Food] {
					return fmt.Errorf("seed: plan %q references unknown food %q", p.Name, it.Food)
				}
				if it.Grams <= 0 {
					return fmt.Errorf("seed: plan %q has non-positive portion of %q", p.Name, it.Food)
				}
			}
		}
	}
	return nil
}

// Apply writes the catalog into store unless it already holds food items.
// It reports whether anything was written.
func Apply(ctx context.Context, store Store, c *Catalog, log logrus.FieldLogger) (bool, error) {
	n, err := store.CountFoodItems(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.WithField("food_items", n).Debug("catalog already seeded")
		return false, nil
	}

	ids := make(map[string]int64, len(c.Foods))
	for _, f := range c.Foods {
		id, err := store.CreateFoodItem(ctx, domain.FoodItem{
			Name:            f.Name,
			Category:        f.Category,
			CaloriesPer100g: f.Calories,
			ProteinPer100g:  f.Protein,
			CarbsPer100g:    f.Carbs,
			FatPer100g:      f.Fat,
		})
		if err != nil {
			return false, fmt.Errorf("seed food %q: %w", f.Name, err)
		}
		ids[f.Name] = id
	}

	for _, p := range c.Plans {
		plan := domain.DietPlan{
			Name:           p.Name,
			Description:    p.Description,
			DurationDays:   p.DurationDays,
			TargetCalories: p.TargetCalories,
			IsPublic:       p.Public,
		}
		for _, m := range p.Meals {
			pm := domain.PlanMeal{DayNumber: m.Day, MealType: m.Meal}
			for _, it := range m.Items {
				pm.Items = append(pm.Items, domain.PlanItem{FoodItemID: ids[it.Food], Quantity: it.Grams})
			}
			plan.Meals = append(plan.Meals, pm)
		}
		if _, err := store.CreateDietPlan(ctx, plan); err != nil {
			return false, fmt.Errorf("seed plan %q: %w", p.Name, err)
		}
	}

	log.WithFields(logrus.Fields{"food_items": len(c.Foods), "diet_plans": len(c.Plans)}).Info("catalog seeded")
	return true, nil
}
