package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Known lists the catalog entries a recipe may refer to.
type Known struct {
	Ingredients map[string]struct{}
	Categories  map[string]struct{}
	Units       map[string]struct{}
}

// NewKnown builds a Known from the catalog contents.
func NewKnown(ingredients, categories, units []string) Known {
	return Known{
		Ingredients: lo.Keyify(ingredients),
		Categories:  lo.Keyify(categories),
		Units:       lo.Keyify(units),
	}
}

// Validate checks a recipe before it is stored.
//
// Validation rules:
//   - Title and Description must not be empty
//   - At least one category, each present in the category catalog
//   - Duration must be positive
//   - At least one ingredient line; lines left completely empty are ignored
//   - Every ingredient exists in the ingredient catalog and appears once
//   - Every amount is positive and every unit is known
//
// All failures are reported together, wrapped in ErrInvalidRecipe.
func Validate(r *Recipe, known Known) error {
	if r == nil {
		return fmt.Errorf("%w: recipe is nil", ErrInvalidRecipe)
	}

	var errs []error
	if r.Title == "" {
		errs = append(errs, ErrEmptyTitle)
	}
	if r.Description == "" {
		errs = append(errs, ErrEmptyDescription)
	}
	if r.Duration <= 0 {
		errs = append(errs, ErrNonPositiveTime)
	}

	if len(r.Categories) == 0 {
		errs = append(errs, ErrNoCategory)
	}
	for _, c := range r.Categories {
		if _, ok := known.Categories[c]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCategory, c))
		}
	}

	r.Ingredients = lo.Reject(r.Ingredients, func(ri RecipeIngredient, _ int) bool {
		return ri.Ingredient == "" && ri.Amount == 0 && ri.Unit == ""
	})
	if len(r.Ingredients) == 0 {
		errs = append(errs, ErrNoIngredient)
	}
	seen := make(map[string]struct{}, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		if _, ok := known.Ingredients[ri.Ingredient]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownIngredient, ri.Ingredient))
		}
		if _, dup := seen[ri.Ingredient]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateIngredient, ri.Ingredient))
		}
		seen[ri.Ingredient] = struct{}{}

		if ri.Amount <= 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNonPositiveAmount, ri.Ingredient))
		}
		if ri.Unit == "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrEmptyUnit, ri.Ingredient))
		} else if _, ok := known.Units[ri.Unit]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownUnit, ri.Unit))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, errors.Join(errs...))
	}
	return nil
}

// ValidateName checks the name of a new catalog ingredient or category.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
