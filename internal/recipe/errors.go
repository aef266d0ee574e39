package recipe

import "errors"

// Store errors
var (
	// ErrNotFound indicates the requested recipe, ingredient or category does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInUse indicates an ingredient or category is still referenced by a recipe or the fridge.
	ErrInUse = errors.New("still in use")

	// ErrAlreadyExists indicates a catalog entry with the same name exists.
	ErrAlreadyExists = errors.New("already exists")
)

// Validation errors
var (
	// ErrInvalidRecipe wraps every recipe validation failure.
	ErrInvalidRecipe = errors.New("invalid recipe")

	ErrEmptyTitle          = errors.New("title is required")
	ErrEmptyDescription    = errors.New("description is required")
	ErrNoCategory          = errors.New("at least one category is required")
	ErrUnknownCategory     = errors.New("category does not exist")
	ErrNonPositiveTime     = errors.New("duration must be greater than 0")
	ErrNoIngredient        = errors.New("at least one ingredient is required")
	ErrUnknownIngredient   = errors.New("ingredient is not in the ingredient catalog")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrNonPositiveAmount   = errors.New("amount must be greater than 0")
	ErrEmptyUnit           = errors.New("unit is required")
	ErrUnknownUnit         = errors.New("unit does not exist")

	// ErrEmptyName indicates a catalog ingredient or category without a name.
	ErrEmptyName = errors.New("name is required")
)
