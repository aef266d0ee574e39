package fridge

import (
	"errors"
	"fmt"

	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

// Validate checks a fridge entry before it is stored: the ingredient is in
// the catalog, the amount is positive, the unit is known and the entry has
// not expired on today.
func Validate(in *Ingredient, ingredients map[string]struct{}, units unit.Catalog, today Date) error {
	var errs []error
	if _, ok := ingredients[in.Ingredient]; !ok {
		errs = append(errs, fmt.Errorf("%w: %q", recipe.ErrUnknownIngredient, in.Ingredient))
	}
	if in.Amount <= 0 {
		errs = append(errs, recipe.ErrNonPositiveAmount)
	}
	if in.Unit == "" {
		errs = append(errs, recipe.ErrEmptyUnit)
	} else if _, err := units.Lookup(in.Unit); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", recipe.ErrUnknownUnit, in.Unit))
	}
	if in.ExpirationDate.IsZero() || in.ExpirationDate.Before(today.Time) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrExpired, in.ExpirationDate))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIngredient, errors.Join(errs...))
	}
	return nil
}
