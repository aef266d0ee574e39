package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store defines the interface for catalog data operations.
type Store interface {
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	CreateIngredient(ctx context.Context, name string) error
	DeleteIngredient(ctx context.Context, name string) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) error

	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error)
	CreateRecipe(ctx context.Context, r *Recipe) error
	UpdateRecipe(ctx context.Context, r *Recipe) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context) (int64, error)
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

// The units table is owned by the unit package and must exist first.
const schema = `
CREATE TABLE IF NOT EXISTS ingredients (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS categories (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS recipes (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	duration_seconds BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS recipe_ingredients (
	recipe_id UUID NOT NULL REFERENCES recipes (id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	ingredient TEXT NOT NULL REFERENCES ingredients (name) ON DELETE RESTRICT,
	amount NUMERIC(10, 2) NOT NULL,
	unit TEXT NOT NULL REFERENCES units (abbreviation) ON DELETE RESTRICT,
	PRIMARY KEY (recipe_id, ingredient)
);
CREATE TABLE IF NOT EXISTS recipe_categories (
	recipe_id UUID NOT NULL REFERENCES recipes (id) ON DELETE CASCADE,
	category TEXT NOT NULL REFERENCES categories (name) ON DELETE RESTRICT,
	PRIMARY KEY (recipe_id, category)
);
`

// Postgres error codes.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// NewPostgresStore creates the catalog tables if needed and returns a store.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create catalog tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// translate maps driver errors to the package sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInUse, pqErr.Detail)
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pqErr.Detail)
		}
	}
	return err
}

// ListIngredients returns the ingredient catalog ordered by name.
func (s *PostgresStore) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	ingredients := []Ingredient{}
	if err := s.db.SelectContext(ctx, &ingredients, "SELECT name FROM ingredients ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// CreateIngredient adds an ingredient to the catalog.
func (s *PostgresStore) CreateIngredient(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT INTO ingredients (name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("failed to create ingredient: %w", translate(err))
	}
	return nil
}

// DeleteIngredient removes an ingredient no recipe or fridge entry refers to.
func (s *PostgresStore) DeleteIngredient(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM ingredients WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", translate(err))
	}
	return expectOne(res, name)
}

// ListCategories returns the categories ordered by name.
func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	if err := s.db.SelectContext(ctx, &categories, "SELECT name FROM categories ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory adds a category.
func (s *PostgresStore) CreateCategory(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("failed to create category: %w", translate(err))
	}
	return nil
}

type recipeRow struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	DurationSeconds int64     `db:"duration_seconds"`
}

type ingredientRow struct {
	RecipeID uuid.UUID `db:"recipe_id"`
	RecipeIngredient
}

type categoryRow struct {
	RecipeID uuid.UUID `db:"recipe_id"`
	Category string    `db:"category"`
}

// ListRecipes returns every recipe, with ingredients and categories, ordered by title.
func (s *PostgresStore) ListRecipes(ctx context.Context) ([]Recipe, error) {
	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, title, description, duration_seconds FROM recipes ORDER BY title, id"); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var ingredients []ingredientRow
	if err := s.db.SelectContext(ctx, &ingredients,
		"SELECT recipe_id, ingredient, amount, unit FROM recipe_ingredients ORDER BY recipe_id, position"); err != nil {
		return nil, fmt.Errorf("failed to list recipe ingredients: %w", err)
	}
	var categories []categoryRow
	if err := s.db.SelectContext(ctx, &categories,
		"SELECT recipe_id, category FROM recipe_categories ORDER BY recipe_id, category"); err != nil {
		return nil, fmt.Errorf("failed to list recipe categories: %w", err)
	}

	byID := make(map[uuid.UUID]*Recipe, len(rows))
	recipes := make([]Recipe, len(rows))
	for i, row := range rows {
		recipes[i] = Recipe{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Duration:    Duration(time.Duration(row.DurationSeconds) * time.Second),
			Ingredients: []RecipeIngredient{},
			Categories:  []string{},
		}
		byID[row.ID] = &recipes[i]
	}
	for _, ing := range ingredients {
		if r, ok := byID[ing.RecipeID]; ok {
			r.Ingredients = append(r.Ingredients, ing.RecipeIngredient)
		}
	}
	for _, c := range categories {
		if r, ok := byID[c.RecipeID]; ok {
			r.Categories = append(r.Categories, c.Category)
		}
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by id.
func (s *PostgresStore) GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	var row recipeRow
	err := s.db.GetContext(ctx, &row, "SELECT id, title, description, duration_seconds FROM recipes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	r := &Recipe{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Duration:    Duration(time.Duration(row.DurationSeconds) * time.Second),
		Ingredients: []RecipeIngredient{},
		Categories:  []string{},
	}
	if err := s.db.SelectContext(ctx, &r.Ingredients,
		"SELECT ingredient, amount, unit FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY position", id); err != nil {
		return nil, fmt.Errorf("failed to get recipe ingredients: %w", err)
	}
	if err := s.db.SelectContext(ctx, &r.Categories,
		"SELECT category FROM recipe_categories WHERE recipe_id = $1 ORDER BY category", id); err != nil {
		return nil, fmt.Errorf("failed to get recipe categories: %w", err)
	}
	return r, nil
}

// CreateRecipe stores a new recipe and assigns its id.
func (s *PostgresStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO recipes (id, title, description, duration_seconds) VALUES ($1, $2, $3, $4)",
			r.ID, r.Title, r.Description, durationSeconds(r.Duration))
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", translate(err))
		}
		return insertLines(ctx, tx, r)
	})
}

// UpdateRecipe replaces a stored recipe, ingredients and categories included.
func (s *PostgresStore) UpdateRecipe(ctx context.Context, r *Recipe) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE recipes SET title = $2, description = $3, duration_seconds = $4 WHERE id = $1",
			r.ID, r.Title, r.Description, durationSeconds(r.Duration))
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := expectOne(res, r.ID.String()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = $1", r.ID); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_categories WHERE recipe_id = $1", r.ID); err != nil {
			return fmt.Errorf("failed to clear recipe categories: %w", err)
		}
		return insertLines(ctx, tx, r)
	})
}

// DeleteRecipe removes a recipe.
func (s *PostgresStore) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectOne(res, id.String())
}

// Purge empties the catalog: recipes, categories and ingredients. It
// reports how many recipes were removed and fails with ErrInUse while the
// fridge still holds catalog ingredients.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	var n int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM recipes")
		if err != nil {
			return fmt.Errorf("failed to delete recipes: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to count deleted recipes: %w", err)
		}
		for _, table := range []string{"categories", "ingredients"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, translate(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func insertLines(ctx context.Context, tx *sqlx.Tx, r *Recipe) error {
	for i, ri := range r.Ingredients {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO recipe_ingredients (recipe_id, position, ingredient, amount, unit) VALUES ($1, $2, $3, $4, $5)",
			r.ID, i, ri.Ingredient, ri.Amount, ri.Unit)
		if err != nil {
			return fmt.Errorf("failed to insert recipe ingredient %q: %w", ri.Ingredient, translate(err))
		}
	}
	for _, c := range r.Categories {
		_, err := tx.ExecContext(ctx, "INSERT INTO recipe_categories (recipe_id, category) VALUES ($1, $2)", r.ID, c)
		if err != nil {
			return fmt.Errorf("failed to insert recipe category %q: %w", c, translate(err))
		}
	}
	return nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func expectOne(res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

func durationSeconds(d Duration) int64 {
	return int64(time.Duration(d) / time.Second)
}
