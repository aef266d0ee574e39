package fridge

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

// epsilon absorbs float noise when comparing base amounts.
const epsilon = 1e-9

// Plan lists the fridge changes needed to cook a recipe.
type Plan struct {
	Delete []uuid.UUID  `json:"delete"`
	Update []Ingredient `json:"update"`
}

// PlanConsumption takes each recipe ingredient from the fridge entries of the
// same unit type, earliest expiration first. Exhausted entries are deleted and
// the last one touched is decremented. Stock held only in other unit types
// cannot be converted and is left alone.
func PlanConsumption(r recipe.Recipe, stock []Ingredient, units unit.Catalog) (Plan, error) {
	plan := Plan{Delete: []uuid.UUID{}, Update: []Ingredient{}}
	for _, ri := range r.Ingredients {
		u, err := units.Lookup(ri.Unit)
		if err != nil {
			return Plan{}, err
		}

		var candidates []Ingredient
		found := false
		for _, s := range stock {
			if s.Ingredient != ri.Ingredient {
				continue
			}
			found = true
			su, err := units.Lookup(s.Unit)
			if err != nil {
				return Plan{}, err
			}
			if su.Type == u.Type {
				candidates = append(candidates, s)
			}
		}
		if !found {
			return Plan{}, fmt.Errorf("%w: %q", ErrMissingIngredient, ri.Ingredient)
		}
		slices.SortStableFunc(candidates, func(a, b Ingredient) int {
			return a.ExpirationDate.Compare(b.ExpirationDate.Time)
		})

		need := u.ToBase(ri.Amount)
		for _, c := range candidates {
			if need <= epsilon {
				break
			}
			cu := units[c.Unit]
			have := cu.ToBase(c.Amount)
			if have <= need+epsilon {
				plan.Delete = append(plan.Delete, c.ID)
				need -= have
				continue
			}
			c.Amount = round2(cu.FromBase(have - need))
			if c.Amount <= 0 {
				plan.Delete = append(plan.Delete, c.ID)
			} else {
				plan.Update = append(plan.Update, c)
			}
			need = 0
		}
	}
	return plan, nil
}
