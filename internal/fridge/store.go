package fridge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

// Store defines the interface for fridge data operations.
type Store interface {
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*Ingredient, error)
	CreateIngredient(ctx context.Context, in *Ingredient, units unit.Catalog) error
	UpdateIngredient(ctx context.Context, in *Ingredient) error
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
	Consume(ctx context.Context, r recipe.Recipe, units unit.Catalog) (Plan, error)
	Purge(ctx context.Context) (int64, error)
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

// The ingredients and units tables must exist first.
const schema = `
CREATE TABLE IF NOT EXISTS fridge_ingredients (
	id UUID PRIMARY KEY,
	ingredient TEXT NOT NULL REFERENCES ingredients (name) ON DELETE RESTRICT,
	amount NUMERIC(10, 2) NOT NULL,
	unit TEXT NOT NULL REFERENCES units (abbreviation) ON DELETE RESTRICT,
	expiration_date DATE NOT NULL
);
CREATE INDEX IF NOT EXISTS fridge_ingredients_ingredient_idx ON fridge_ingredients (ingredient, expiration_date);
`

const selectIngredients = "SELECT id, ingredient, amount, unit, expiration_date FROM fridge_ingredients"

// NewPostgresStore creates the fridge table if needed and returns a store.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create fridge table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// ListIngredients returns the fridge content, earliest expiration first.
func (s *PostgresStore) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	ingredients := []Ingredient{}
	if err := s.db.SelectContext(ctx, &ingredients, selectIngredients+" ORDER BY expiration_date, ingredient, id"); err != nil {
		return nil, fmt.Errorf("failed to list fridge ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient retrieves a fridge entry by id.
func (s *PostgresStore) GetIngredient(ctx context.Context, id uuid.UUID) (*Ingredient, error) {
	var in Ingredient
	if err := s.db.GetContext(ctx, &in, selectIngredients+" WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get fridge ingredient: %w", err)
	}
	return &in, nil
}

// CreateIngredient stores a new fridge entry, or merges it into an existing
// entry with the same ingredient, expiration date and unit type. in is set to
// the stored row either way.
func (s *PostgresStore) CreateIngredient(ctx context.Context, in *Ingredient, units unit.Catalog) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var same []Ingredient
		err := tx.SelectContext(ctx, &same,
			selectIngredients+" WHERE ingredient = $1 AND expiration_date = $2 ORDER BY id FOR UPDATE",
			in.Ingredient, in.ExpirationDate)
		if err != nil {
			return fmt.Errorf("failed to look for mergeable fridge ingredient: %w", err)
		}

		i, err := Mergeable(same, *in, units)
		if err != nil {
			return err
		}
		if i < 0 {
			in.ID = uuid.New()
			_, err := tx.NamedExecContext(ctx,
				`INSERT INTO fridge_ingredients (id, ingredient, amount, unit, expiration_date)
				VALUES (:id, :ingredient, :amount, :unit, :expiration_date)`, in)
			if err != nil {
				return fmt.Errorf("failed to create fridge ingredient: %w", err)
			}
			return nil
		}

		merged, err := Merge(same[i], *in, units)
		if err != nil {
			return err
		}
		if err := update(ctx, tx, &merged); err != nil {
			return err
		}
		*in = merged
		return nil
	})
}

// UpdateIngredient replaces a fridge entry.
func (s *PostgresStore) UpdateIngredient(ctx context.Context, in *Ingredient) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return update(ctx, tx, in)
	})
}

// DeleteIngredient removes a fridge entry.
func (s *PostgresStore) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fridge_ingredients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete fridge ingredient: %w", err)
	}
	return expectOne(res, id)
}

// Consume removes the ingredients of r from the fridge. The rows involved are
// locked for the duration of the transaction.
func (s *PostgresStore) Consume(ctx context.Context, r recipe.Recipe, units unit.Catalog) (Plan, error) {
	var plan Plan
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		names := lo.Map(r.Ingredients, func(ri recipe.RecipeIngredient, _ int) string { return ri.Ingredient })
		var stock []Ingredient
		err := tx.SelectContext(ctx, &stock,
			selectIngredients+" WHERE ingredient = ANY($1) ORDER BY expiration_date, id FOR UPDATE",
			pq.Array(names))
		if err != nil {
			return fmt.Errorf("failed to lock fridge ingredients: %w", err)
		}

		plan, err = PlanConsumption(r, stock, units)
		if err != nil {
			return err
		}
		if len(plan.Delete) > 0 {
			ids := lo.Map(plan.Delete, func(id uuid.UUID, _ int) string { return id.String() })
			if _, err := tx.ExecContext(ctx, "DELETE FROM fridge_ingredients WHERE id = ANY($1)", pq.Array(ids)); err != nil {
				return fmt.Errorf("failed to delete consumed fridge ingredients: %w", err)
			}
		}
		for i := range plan.Update {
			if err := update(ctx, tx, &plan.Update[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Purge empties the fridge and returns the number of entries removed.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fridge_ingredients")
	if err != nil {
		return 0, fmt.Errorf("failed to purge fridge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func update(ctx context.Context, tx *sqlx.Tx, in *Ingredient) error {
	res, err := tx.NamedExecContext(ctx,
		`UPDATE fridge_ingredients SET ingredient = :ingredient, amount = :amount, unit = :unit,
		expiration_date = :expiration_date WHERE id = :id`, in)
	if err != nil {
		return fmt.Errorf("failed to update fridge ingredient: %w", err)
	}
	return expectOne(res, in.ID)
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

func expectOne(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
