package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dietprogram/internal/domain"
)

func testCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.FoodItem{
		{ID: 1, Name: "Apple", Category: domain.CategoryFruits, CaloriesPer100g: 52, ProteinPer100g: 0.3, CarbsPer100g: 14, FatPer100g: 0.2},
		{ID: 2, Name: "Chicken Breast", Category: domain.CategoryProteins, CaloriesPer100g: 165, ProteinPer100g: 31, CarbsPer100g: 0, FatPer100g: 3.6},
		{ID: 3, Name: "Brown Rice", Category: domain.CategoryGrains, CaloriesPer100g: 111, ProteinPer100g: 2.6, CarbsPer100g: 23, FatPer100g: 0.9},
		{ID: 4, Name: "Almonds", Category: domain.CategoryNuts, CaloriesPer100g: 579, ProteinPer100g: 21.2, CarbsPer100g: 21.6, FatPer100g: 49.9},
		{ID: 5, Name: "Greek Yogurt", Category: domain.CategoryDairy, CaloriesPer100g: 59, ProteinPer100g: 10, CarbsPer100g: 3.6, FatPer100g: 0.4},
	})
}

func TestAggregateMeal_SingleItemRounding(t *testing.T) {
	cat := testCatalog()
	for _, f := range cat.Search(domain.FoodFilter{}) {
		for _, q := range []int{1, 3, 7, 33, 50, 99, 100, 125, 250, 333, 1000} {
			_, totals, err := domain.AggregateMeal([]domain.MealItemInput{{FoodItemID: f.ID, Quantity: q}}, cat)
			require.NoError(t, err)
			want := int(math.Round(f.CaloriesPer100g * float64(q) / 100))
			assert.Equal(t, want, totals.Calories, "%s x %dg", f.Name, q)
			assert.InDelta(t, f.ProteinPer100g*float64(q)/100, totals.Protein, 1e-9)
		}
	}
}

func TestAggregateMeal_ItemsKeepInputOrder(t *testing.T) {
	items, totals, err := domain.AggregateMeal([]domain.MealItemInput{
		{FoodItemID: 2, Quantity: 150},
		{FoodItemID: 3, Quantity: 200},
	}, testCatalog())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Chicken Breast", items[0].FoodName)
	assert.Equal(t, 248, items[0].Calories) // 247.5 rounds up
	assert.InDelta(t, 46.5, items[0].Protein, 1e-9)
	assert.Equal(t, "Brown Rice", items[1].FoodName)
	assert.Equal(t, 222, items[1].Calories)

	assert.Equal(t, 470, totals.Calories)
	assert.InDelta(t, 46.5+5.2, totals.Protein, 1e-9)
	assert.InDelta(t, 46.0, totals.Carbs, 1e-9)
	assert.InDelta(t, 5.4+1.8, totals.Fat, 1e-9)
}

func TestAggregateMeal_Additive(t *testing.T) {
	cat := testCatalog()
	left := []domain.MealItemInput{{FoodItemID: 1, Quantity: 133}, {FoodItemID: 4, Quantity: 27}}
	right := []domain.MealItemInput{{FoodItemID: 5, Quantity: 170}, {FoodItemID: 2, Quantity: 95}, {FoodItemID: 1, Quantity: 1}}

	_, lt, err := domain.AggregateMeal(left, cat)
	require.NoError(t, err)
	_, rt, err := domain.AggregateMeal(right, cat)
	require.NoError(t, err)
	_, all, err := domain.AggregateMeal(append(append([]domain.MealItemInput{}, left...), right...), cat)
	require.NoError(t, err)

	sum := lt.Add(rt)
	assert.Equal(t, sum.Calories, all.Calories)
	assert.InDelta(t, sum.Protein, all.Protein, 1e-9)
	assert.InDelta(t, sum.Carbs, all.Carbs, 1e-9)
	assert.InDelta(t, sum.Fat, all.Fat, 1e-9)
}

func TestAggregateMeal_Errors(t *testing.T) {
	cat := testCatalog()
	tests := []struct {
		name   string
		inputs []domain.MealItemInput
		want   error
	}{
		{"empty", nil, domain.ErrEmptyMeal},
		{"unknown food", []domain.MealItemInput{{FoodItemID: 999, Quantity: 100}}, domain.ErrInvalidFoodReference},
		{"unknown after valid", []domain.MealItemInput{{FoodItemID: 1, Quantity: 100}, {FoodItemID: 42, Quantity: 10}}, domain.ErrInvalidFoodReference},
		{"zero quantity", []domain.MealItemInput{{FoodItemID: 1, Quantity: 0}}, domain.ErrInvalidInput},
		{"negative quantity", []domain.MealItemInput{{FoodItemID: 1, Quantity: -5}}, domain.ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := domain.AggregateMeal(tc.inputs, cat)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSumItemsMatchesItemTotals(t *testing.T) {
	items := []domain.MealItem{
		{Calories: 10, Protein: 1.5, Carbs: 2, Fat: 0.25},
		{Calories: 5, Protein: 0.5, Carbs: 1, Fat: 0.75},
	}
	assert.Equal(t, domain.Totals{Calories: 15, Protein: 2, Carbs: 3, Fat: 1}, domain.SumItems(items))
	assert.Equal(t, domain.Totals{}, domain.SumItems(nil))
}

func TestMealTypeRank(t *testing.T) {
	assert.Less(t, domain.MealBreakfast.Rank(), domain.MealLunch.Rank())
	assert.Less(t, domain.MealLunch.Rank(), domain.MealDinner.Rank())
	assert.Less(t, domain.MealDinner.Rank(), domain.MealSnack.Rank())
	assert.Greater(t, domain.MealType("brunch").Rank(), domain.MealSnack.Rank())
	assert.False(t, domain.MealType("brunch").Valid())
}
