package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dietprogram/internal/adapter/memory"
	"dietprogram/internal/domain"
	"dietprogram/internal/seed"
)

func TestEmbeddedCatalogIsValid(t *testing.T) {
	c, err := seed.Load("")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(c.Foods), 25)
	assert.Len(t, c.Plans, 3)
}

func TestApplySeedsOnce(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	log, hook := test.NewNullLogger()

	c, err := seed.Load("")
	require.NoError(t, err)

	applied, err := seed.Apply(ctx, db, c, log)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	n, _ := db.CountFoodItems(ctx)
	assert.Equal(t, len(c.Foods), n)

	plans, err := db.ListPublicPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	// Every seeded plan composes against the seeded catalog.
	foods, _ := db.ListFoodItems(ctx, domain.FoodFilter{})
	catalog := domain.NewCatalog(foods)
	for _, p := range plans {
		full, _ := db.GetDietPlan(ctx, p.ID)
		_, err := domain.ComposeDietPlan(*full, catalog)
		assert.NoError(t, err, p.Name)
	}

	applied, err = seed.Apply(ctx, db, c, log)
	require.NoError(t, err)
	assert.False(t, applied)
	n, _ = db.CountFoodItems(ctx)
	assert.Equal(t, len(c.Foods), n)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"unknown category": "foods:\n  - {name: Candy, category: sweets, calories: 400}\n",
		"duplicate food":   "foods:\n  - {name: Apple, category: fruits}\n  - {name: Apple, category: fruits}\n",
		"unknown food": `foods:
  - {name: Apple, category: fruits, calories: 52}
plans:
  - name: P
    meals:
      - {day: 1, meal: lunch, items: [{food: Pear, grams: 100}]}
`,
		"bad meal type": `foods:
  - {name: Apple, category: fruits, calories: 52}
plans:
  - name: P
    meals:
      - {day: 1, meal: brunch, items: [{food: Apple, grams: 100}]}
`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := seed.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foods:\n  - {name: Kiwi, category: fruits, calories: 61, protein: 1.1, carbs: 14.7, fat: 0.5}\n"), 0o600))

	c, err := seed.Load(path)
	require.NoError(t, err)
	require.Len(t, c.Foods, 1)
	assert.Equal(t, "Kiwi", c.Foods[0].Name)

	_, err = seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
