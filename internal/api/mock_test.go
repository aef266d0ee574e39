package api

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"mynextrecipe/internal/fridge"
	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

// mockCatalogStore is an in-memory recipe.Store.
type mockCatalogStore struct {
	ingredients []string
	categories  []string
	recipes     []recipe.Recipe
	inUse       map[string]bool
	listError   error
}

// ListIngredients mocks the ListIngredients method.
func (m *mockCatalogStore) ListIngredients(ctx context.Context) ([]recipe.Ingredient, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return lo.Map(m.ingredients, func(n string, _ int) recipe.Ingredient { return recipe.Ingredient{Name: n} }), nil
}

// CreateIngredient mocks the CreateIngredient method.
func (m *mockCatalogStore) CreateIngredient(ctx context.Context, name string) error {
	if slices.Contains(m.ingredients, name) {
		return fmt.Errorf("%w: %s", recipe.ErrAlreadyExists, name)
	}
	m.ingredients = append(m.ingredients, name)
	return nil
}

// DeleteIngredient mocks the DeleteIngredient method.
func (m *mockCatalogStore) DeleteIngredient(ctx context.Context, name string) error {
	if m.inUse[name] {
		return fmt.Errorf("%w: %s", recipe.ErrInUse, name)
	}
	i := slices.Index(m.ingredients, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, name)
	}
	m.ingredients = slices.Delete(m.ingredients, i, i+1)
	return nil
}

// ListCategories mocks the ListCategories method.
func (m *mockCatalogStore) ListCategories(ctx context.Context) ([]recipe.Category, error) {
	return lo.Map(m.categories, func(n string, _ int) recipe.Category { return recipe.Category{Name: n} }), nil
}

// CreateCategory mocks the CreateCategory method.
func (m *mockCatalogStore) CreateCategory(ctx context.Context, name string) error {
	m.categories = append(m.categories, name)
	return nil
}

// ListRecipes mocks the ListRecipes method.
func (m *mockCatalogStore) ListRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return slices.Clone(m.recipes), nil
}

// GetRecipe mocks the GetRecipe method.
func (m *mockCatalogStore) GetRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r, ok := lo.Find(m.recipes, func(r recipe.Recipe) bool { return r.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", recipe.ErrNotFound, id)
	}
	return &r, nil
}

// CreateRecipe mocks the CreateRecipe method.
func (m *mockCatalogStore) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	r.ID = uuid.New()
	m.recipes = append(m.recipes, *r)
	return nil
}

// UpdateRecipe mocks the UpdateRecipe method.
func (m *mockCatalogStore) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	_, i, ok := lo.FindIndexOf(m.recipes, func(x recipe.Recipe) bool { return x.ID == r.ID })
	if !ok {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, r.ID)
	}
	m.recipes[i] = *r
	return nil
}

// DeleteRecipe mocks the DeleteRecipe method.
func (m *mockCatalogStore) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	_, i, ok := lo.FindIndexOf(m.recipes, func(x recipe.Recipe) bool { return x.ID == id })
	if !ok {
		return fmt.Errorf("%w: %s", recipe.ErrNotFound, id)
	}
	m.recipes = slices.Delete(m.recipes, i, i+1)
	return nil
}

// Purge mocks the Purge method.
func (m *mockCatalogStore) Purge(ctx context.Context) (int64, error) {
	n := int64(len(m.recipes))
	m.recipes, m.categories, m.ingredients = nil, nil, nil
	return n, nil
}

// mockFridgeStore is an in-memory fridge.Store built on the fridge merge and
// consumption rules.
type mockFridgeStore struct {
	stock []fridge.Ingredient
}

// ListIngredients mocks the ListIngredients method.
func (m *mockFridgeStore) ListIngredients(ctx context.Context) ([]fridge.Ingredient, error) {
	return slices.Clone(m.stock), nil
}

// GetIngredient mocks the GetIngredient method.
func (m *mockFridgeStore) GetIngredient(ctx context.Context, id uuid.UUID) (*fridge.Ingredient, error) {
	in, ok := lo.Find(m.stock, func(s fridge.Ingredient) bool { return s.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", fridge.ErrNotFound, id)
	}
	return &in, nil
}

// CreateIngredient mocks the CreateIngredient method.
func (m *mockFridgeStore) CreateIngredient(ctx context.Context, in *fridge.Ingredient, units unit.Catalog) error {
	i, err := fridge.Mergeable(m.stock, *in, units)
	if err != nil {
		return err
	}
	if i < 0 {
		in.ID = uuid.New()
		m.stock = append(m.stock, *in)
		return nil
	}
	merged, err := fridge.Merge(m.stock[i], *in, units)
	if err != nil {
		return err
	}
	m.stock[i] = merged
	*in = merged
	return nil
}

// UpdateIngredient mocks the UpdateIngredient method.
func (m *mockFridgeStore) UpdateIngredient(ctx context.Context, in *fridge.Ingredient) error {
	_, i, ok := lo.FindIndexOf(m.stock, func(s fridge.Ingredient) bool { return s.ID == in.ID })
	if !ok {
		return fmt.Errorf("%w: %s", fridge.ErrNotFound, in.ID)
	}
	m.stock[i] = *in
	return nil
}

// DeleteIngredient mocks the DeleteIngredient method.
func (m *mockFridgeStore) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	_, i, ok := lo.FindIndexOf(m.stock, func(s fridge.Ingredient) bool { return s.ID == id })
	if !ok {
		return fmt.Errorf("%w: %s", fridge.ErrNotFound, id)
	}
	m.stock = slices.Delete(m.stock, i, i+1)
	return nil
}

// Consume mocks the Consume method.
func (m *mockFridgeStore) Consume(ctx context.Context, r recipe.Recipe, units unit.Catalog) (fridge.Plan, error) {
	plan, err := fridge.PlanConsumption(r, m.stock, units)
	if err != nil {
		return fridge.Plan{}, err
	}
	m.stock = lo.Reject(m.stock, func(s fridge.Ingredient, _ int) bool { return slices.Contains(plan.Delete, s.ID) })
	for _, u := range plan.Update {
		if err := m.UpdateIngredient(ctx, &u); err != nil {
			return fridge.Plan{}, err
		}
	}
	return plan, nil
}

// Purge mocks the Purge method.
func (m *mockFridgeStore) Purge(ctx context.Context) (int64, error) {
	n := int64(len(m.stock))
	m.stock = nil
	return n, nil
}

// mockUnitStore is an in-memory unit.Store.
type mockUnitStore struct {
	units []unit.Unit
	types []unit.Type
}

// ListUnits mocks the ListUnits method.
func (m *mockUnitStore) ListUnits(ctx context.Context) ([]unit.Unit, error) {
	return slices.Clone(m.units), nil
}

// GetUnit mocks the GetUnit method.
func (m *mockUnitStore) GetUnit(ctx context.Context, abbreviation string) (*unit.Unit, error) {
	u, ok := lo.Find(m.units, func(u unit.Unit) bool { return u.Abbreviation == abbreviation })
	if !ok {
		return nil, fmt.Errorf("%w: %q", unit.ErrNotFound, abbreviation)
	}
	return &u, nil
}

// SaveUnit mocks the SaveUnit method.
func (m *mockUnitStore) SaveUnit(ctx context.Context, u *unit.Unit) error {
	m.units = append(m.units, *u)
	return nil
}

// ListTypes mocks the ListTypes method.
func (m *mockUnitStore) ListTypes(ctx context.Context) ([]unit.Type, error) {
	return slices.Clone(m.types), nil
}

// SaveType mocks the SaveType method.
func (m *mockUnitStore) SaveType(ctx context.Context, t *unit.Type) error {
	m.types = append(m.types, *t)
	return nil
}

// Purge mocks the Purge method.
func (m *mockUnitStore) Purge(ctx context.Context) error {
	m.units, m.types = nil, nil
	return nil
}
