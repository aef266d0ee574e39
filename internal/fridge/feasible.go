package fridge

import (
	"slices"

	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

// level is the stock of one ingredient in one unit type, in the base unit
// of that type, with the earliest expiration date among its entries.
type level struct {
	amount float64
	date   Date
}

// inventory maps ingredient name to unit type to stock level.
type inventory map[string]map[string]level

func newInventory(stock []Ingredient, units unit.Catalog) (inventory, error) {
	inv := make(inventory)
	for _, s := range stock {
		u, err := units.Lookup(s.Unit)
		if err != nil {
			return nil, err
		}
		byType, ok := inv[s.Ingredient]
		if !ok {
			byType = make(map[string]level)
			inv[s.Ingredient] = byType
		}
		l, ok := byType[u.Type]
		if !ok || s.ExpirationDate.Before(l.date.Time) {
			l.date = s.ExpirationDate
		}
		l.amount += u.ToBase(s.Amount)
		byType[u.Type] = l
	}
	return inv, nil
}

// check reports whether ri can be taken from the inventory. When the fridge
// only holds the ingredient in another unit type, it is available but unsure
// and its date is the earliest across types.
func (inv inventory) check(ri recipe.RecipeIngredient, units unit.Catalog) (available, unsure bool, date Date, err error) {
	u, err := units.Lookup(ri.Unit)
	if err != nil {
		return false, false, Date{}, err
	}
	byType, ok := inv[ri.Ingredient]
	if !ok {
		return false, false, Date{}, nil
	}
	if l, ok := byType[u.Type]; ok && l.amount >= u.ToBase(ri.Amount) {
		return true, false, l.date, nil
	}

	others := false
	for t, l := range byType {
		if t != u.Type {
			others = true
		}
		if date.IsZero() || l.date.Before(date.Time) {
			date = l.date
		}
	}
	if !others {
		return false, false, Date{}, nil
	}
	return true, true, date, nil
}

// Feasible returns the recipes that can be cooked with stock, sorted by the
// expiration date of their priority ingredient. Recipes without ingredients
// are never feasible.
func Feasible(recipes []recipe.Recipe, stock []Ingredient, units unit.Catalog) ([]Recipe, error) {
	inv, err := newInventory(stock, units)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		recipe   Recipe
		priority Date
	}
	var candidates []candidate

next:
	for _, r := range recipes {
		if len(r.Ingredients) == 0 {
			continue
		}
		c := candidate{recipe: Recipe{Recipe: r, UnsureIngredients: []string{}}}
		var priorityName string
		for i, ri := range r.Ingredients {
			available, unsure, date, err := inv.check(ri, units)
			if err != nil {
				return nil, err
			}
			if !available {
				continue next
			}
			if unsure {
				c.recipe.UnsureIngredients = append(c.recipe.UnsureIngredients, ri.Ingredient)
			}
			if i == 0 || date.Before(c.priority.Time) {
				c.priority = date
				priorityName = ri.Ingredient
			}
		}
		c.recipe.PriorityIngredients = []string{priorityName}
		candidates = append(candidates, c)
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return a.priority.Compare(b.priority.Time)
	})

	feasible := make([]Recipe, len(candidates))
	for i, c := range candidates {
		feasible[i] = c.recipe
	}
	return feasible, nil
}
