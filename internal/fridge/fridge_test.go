package fridge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

var units = unit.NewCatalog([]unit.Unit{
	{Name: "gramme", Abbreviation: "g", Ratio: 1, Type: "masse"},
	{Name: "kilogramme", Abbreviation: "kg", Ratio: 1000, Type: "masse"},
	{Name: "milligramme", Abbreviation: "mg", Ratio: 0.001, Type: "masse"},
	{Name: "pièce(s)", Abbreviation: "pièce(s)", Ratio: 1, Type: "pièce(s)"},
})

func stocked(name string, amount float64, u string, date Date) Ingredient {
	return Ingredient{ID: uuid.New(), Ingredient: name, Amount: amount, Unit: u, ExpirationDate: date}
}

func line(name string, amount float64, u string) recipe.RecipeIngredient {
	return recipe.RecipeIngredient{Ingredient: name, Amount: amount, Unit: u}
}

func cook(title string, lines ...recipe.RecipeIngredient) recipe.Recipe {
	return recipe.Recipe{ID: uuid.New(), Title: title, Ingredients: lines}
}

// baseStock holds carrots, tomatoes and onions, expiring in that order.
func baseStock() []Ingredient {
	return []Ingredient{
		stocked("Carottes", 500, "g", NewDate(2130, 1, 1)),
		stocked("Tomates", 50, "g", NewDate(2130, 2, 2)),
		stocked("Oignons", 60, "g", NewDate(2131, 1, 1)),
	}
}

func titles(recipes []Recipe) []string {
	return lo.Map(recipes, func(r Recipe, _ int) string { return r.Title })
}

func TestMergeSumsInLargerUnit(t *testing.T) {
	day := NewDate(2030, 5, 1)
	merged := stocked("Farine", 1250, "g", day)

	var err error
	merged, err = Merge(merged, stocked("Farine", 12, "kg", day), units)
	require.NoError(t, err)
	assert.Equal(t, "kg", merged.Unit)
	assert.InDelta(t, 13.25, merged.Amount, 1e-9)

	id := merged.ID
	merged, err = Merge(merged, stocked("Farine", 290125, "mg", day), units)
	require.NoError(t, err)
	assert.Equal(t, "kg", merged.Unit)
	assert.InDelta(t, 13.54, merged.Amount, 1e-9)
	assert.Equal(t, id, merged.ID)
}

func TestMergeIncompatibleTypes(t *testing.T) {
	day := NewDate(2030, 5, 1)
	_, err := Merge(stocked("Navet", 1, "pièce(s)", day), stocked("Navet", 100, "g", day), units)
	assert.ErrorIs(t, err, unit.ErrIncompatible)
}

func TestMergeable(t *testing.T) {
	day := NewDate(2030, 5, 1)
	stock := []Ingredient{
		stocked("Farine", 1, "kg", NewDate(2030, 6, 1)),
		stocked("Navet", 2, "pièce(s)", day),
		stocked("Navet", 200, "g", day),
	}

	i, err := Mergeable(stock, Ingredient{Ingredient: "Navet", Amount: 1, Unit: "kg", ExpirationDate: day}, units)
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	i, err = Mergeable(stock, Ingredient{Ingredient: "Farine", Amount: 1, Unit: "kg", ExpirationDate: day}, units)
	require.NoError(t, err)
	assert.Equal(t, -1, i, "different expiration date")

	i, err = Mergeable(stock, stock[2], units)
	require.NoError(t, err)
	assert.Equal(t, -1, i, "an entry never merges into itself")

	_, err = Mergeable(stock, Ingredient{Ingredient: "Navet", Unit: "lb", ExpirationDate: day}, units)
	assert.ErrorIs(t, err, unit.ErrUnknown)
}

func TestFeasibleReturnsCookableRecipes(t *testing.T) {
	recipes := []recipe.Recipe{
		cook("Recipe 1", line("Carottes", 500, "g"), line("Tomates", 50, "g"), line("Oignons", 60, "g")),
		cook("Recipe 2", line("Carottes", 350, "g"), line("Tomates", 40, "g"), line("Oignons", 12, "g")),
		cook("Missing", line("Carottes", 350, "g"), line("Poivrons", 200, "g")),
		cook("Not enough", line("Carottes", 600, "g")),
		cook("Empty"),
	}

	got, err := Feasible(recipes, baseStock(), units)
	require.NoError(t, err)
	assert.Equal(t, []string{"Recipe 1", "Recipe 2"}, titles(got))

	first := got[0]
	assert.Equal(t, []string{"Carottes"}, first.PriorityIngredients)
	assert.Empty(t, first.UnsureIngredients)
	assert.NotNil(t, first.UnsureIngredients)
	assert.Equal(t, recipes[0].ID, first.ID)
}

func TestFeasibleSumsSplitAndConvertedStock(t *testing.T) {
	stock := append(baseStock(),
		stocked("Navet", 2, "kg", NewDate(2030, 1, 1)),
		stocked("Navet", 400, "g", NewDate(2030, 2, 2)),
	)
	recipes := []recipe.Recipe{
		cook("Recipe 1", line("Carottes", 500, "g"), line("Navet", 2400, "g")),
		cook("Recipe 2", line("Tomates", 40, "g"), line("Navet", 2.4, "kg")),
		cook("Recipe 3", line("Navet", 2.5, "kg")),
	}

	got, err := Feasible(recipes, stock, units)
	require.NoError(t, err)
	assert.Equal(t, []string{"Recipe 1", "Recipe 2"}, titles(got))
	assert.Equal(t, []string{"Navet"}, got[0].PriorityIngredients)
}

func TestFeasibleUnsureIngredients(t *testing.T) {
	stock := append(baseStock(),
		stocked("Navet", 1, "pièce(s)", NewDate(2129, 1, 1)),
		stocked("Navet", 200, "g", NewDate(2129, 6, 1)),
	)
	recipes := []recipe.Recipe{
		cook("Recipe 1", line("Carottes", 3, "pièce(s)"), line("Tomates", 50, "g"), line("Oignons", 2, "pièce(s)")),
		cook("Recipe 2", line("Navet", 400, "g")),
	}

	got, err := Feasible(recipes, stock, units)
	require.NoError(t, err)
	require.Equal(t, []string{"Recipe 2", "Recipe 1"}, titles(got))

	assert.Equal(t, []string{"Navet"}, got[0].UnsureIngredients)
	assert.Equal(t, []string{"Navet"}, got[0].PriorityIngredients)
	assert.ElementsMatch(t, []string{"Carottes", "Oignons"}, got[1].UnsureIngredients)
	assert.True(t, got[1].IsUnsure("Oignons"))
	assert.False(t, got[1].IsUnsure("Tomates"))
	assert.True(t, got[1].IsPriority("Carottes"))
}

func TestFeasibleOrdersByPriorityDate(t *testing.T) {
	stock := append(baseStock(), stocked("Navet", 100, "g", NewDate(2132, 1, 1)))
	recipes := []recipe.Recipe{
		cook("Recipe 1", line("Oignons", 50, "g"), line("Navet", 50, "g")),
		cook("Recipe 2", line("Carottes", 350, "g"), line("Navet", 40, "g")),
		cook("Recipe 3", line("Oignons", 50, "g"), line("Tomates", 40, "g")),
		cook("Recipe 4", line("Carottes", 10, "g")),
	}

	got, err := Feasible(recipes, stock, units)
	require.NoError(t, err)
	assert.Equal(t, []string{"Recipe 2", "Recipe 4", "Recipe 3", "Recipe 1"}, titles(got))
	assert.Equal(t, []string{"Oignons"}, got[3].PriorityIngredients)
}

func TestFeasibleUnknownUnit(t *testing.T) {
	_, err := Feasible([]recipe.Recipe{cook("R", line("Carottes", 1, "lb"))}, baseStock(), units)
	assert.ErrorIs(t, err, unit.ErrUnknown)

	_, err = Feasible(nil, []Ingredient{stocked("Carottes", 1, "lb", NewDate(2030, 1, 1))}, units)
	assert.ErrorIs(t, err, unit.ErrUnknown)
}

func TestPlanConsumptionPartial(t *testing.T) {
	stock := baseStock()
	carrots, onions := stock[0], stock[2]
	onions.Amount = 10
	stock[2] = onions

	plan, err := PlanConsumption(cook("Recipe 1", line("Carottes", 400, "g"), line("Oignons", 10, "g")), stock, units)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{onions.ID}, plan.Delete)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, carrots.ID, plan.Update[0].ID)
	assert.InDelta(t, 100, plan.Update[0].Amount, 1e-9)
}

func TestPlanConsumptionEarliestFirst(t *testing.T) {
	late := stocked("Oignons", 70, "g", NewDate(2030, 9, 15))
	early := stocked("Oignons", 30, "g", NewDate(2030, 8, 10))
	middle := stocked("Oignons", 10, "g", NewDate(2030, 9, 10))
	stock := []Ingredient{late, early, middle}

	plan, err := PlanConsumption(cook("Recipe 2", line("Oignons", 100, "g")), stock, units)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{early.ID, middle.ID}, plan.Delete)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, late.ID, plan.Update[0].ID)
	assert.InDelta(t, 10, plan.Update[0].Amount, 1e-9)
}

func TestPlanConsumptionConvertsUnits(t *testing.T) {
	bag := stocked("Farine", 1.5, "kg", NewDate(2030, 1, 1))

	plan, err := PlanConsumption(cook("Crêpes", line("Farine", 250, "g")), []Ingredient{bag}, units)
	require.NoError(t, err)
	assert.Empty(t, plan.Delete)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, "kg", plan.Update[0].Unit)
	assert.InDelta(t, 1.25, plan.Update[0].Amount, 1e-9)
}

func TestPlanConsumptionLeavesOtherUnitTypes(t *testing.T) {
	pieces := stocked("Navet", 2, "pièce(s)", NewDate(2030, 1, 1))
	grams := stocked("Navet", 100, "g", NewDate(2030, 2, 1))

	plan, err := PlanConsumption(cook("Soupe", line("Navet", 400, "g")), []Ingredient{pieces, grams}, units)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{grams.ID}, plan.Delete)
	assert.Empty(t, plan.Update)
}

func TestPlanConsumptionMissingIngredient(t *testing.T) {
	_, err := PlanConsumption(cook("R", line("Poivrons", 1, "g")), baseStock(), units)
	assert.ErrorIs(t, err, ErrMissingIngredient)
}

func TestValidate(t *testing.T) {
	known := lo.Keyify([]string{"Carottes"})
	today := NewDate(2030, 1, 10)

	valid := Ingredient{Ingredient: "Carottes", Amount: 2, Unit: "kg", ExpirationDate: today}
	assert.NoError(t, Validate(&valid, known, units, today))

	tests := []struct {
		name   string
		mutate func(in *Ingredient)
		want   error
	}{
		{"unknown ingredient", func(in *Ingredient) { in.Ingredient = "Licorne" }, recipe.ErrUnknownIngredient},
		{"zero amount", func(in *Ingredient) { in.Amount = 0 }, recipe.ErrNonPositiveAmount},
		{"empty unit", func(in *Ingredient) { in.Unit = "" }, recipe.ErrEmptyUnit},
		{"unknown unit", func(in *Ingredient) { in.Unit = "lb" }, recipe.ErrUnknownUnit},
		{"expired", func(in *Ingredient) { in.ExpirationDate = NewDate(2030, 1, 9) }, ErrExpired},
		{"missing date", func(in *Ingredient) { in.ExpirationDate = Date{} }, ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := Validate(&in, known, units, today)
			assert.ErrorIs(t, err, ErrInvalidIngredient)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2030-07-20")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2030, time.July, 20), d)
	assert.Equal(t, "2030-07-20", d.String())

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2030-07-20"`, string(out))

	var back Date
	require.NoError(t, back.UnmarshalJSON(out))
	assert.True(t, back.Equal(d.Time))
	assert.Error(t, back.UnmarshalJSON([]byte(`"20/07/2030"`)))

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2030, 7, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d, scanned)
	require.NoError(t, scanned.Scan([]byte("2031-01-02")))
	assert.Equal(t, NewDate(2031, 1, 2), scanned)
	assert.Error(t, scanned.Scan(42))

	paris := time.FixedZone("CET", 3600)
	assert.Equal(t, NewDate(2030, 1, 1), Today(time.Date(2030, 1, 1, 0, 30, 0, 0, paris)))
}

func TestRecipeJSONKeepsAvailability(t *testing.T) {
	in := Recipe{
		Recipe: recipe.Recipe{
			ID:          uuid.New(),
			Title:       "Soupe à l'oignon",
			Description: "Faire revenir les oignons.",
			Duration:    recipe.Duration(time.Hour),
			Ingredients: []recipe.RecipeIngredient{line("Oignons", 50, "g"), line("Carottes", 2, "pièce(s)")},
			Categories:  []string{"Plat"},
		},
		PriorityIngredients: []string{"Oignons"},
		UnsureIngredients:   []string{"Carottes"},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	var out Recipe
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	var trimmed Recipe
	require.NoError(t, json.Unmarshal([]byte(`{"title":" Soupe ","unsure_ingredients":["Navet"]}`), &trimmed))
	assert.Equal(t, "Soupe", trimmed.Title)
	assert.Equal(t, []string{"Navet"}, trimmed.UnsureIngredients)
	assert.Nil(t, trimmed.PriorityIngredients)
}
