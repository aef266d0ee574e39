package unit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for unit data operations.
type Store interface {
	ListUnits(ctx context.Context) ([]Unit, error)
	GetUnit(ctx context.Context, abbreviation string) (*Unit, error)
	SaveUnit(ctx context.Context, u *Unit) error
	ListTypes(ctx context.Context) ([]Type, error)
	SaveType(ctx context.Context, t *Type) error
	Purge(ctx context.Context) error
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS unit_types (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS units (
	abbreviation TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	ratio NUMERIC(20, 10) NOT NULL,
	type TEXT NOT NULL REFERENCES unit_types (name) ON DELETE CASCADE
);
`

// NewPostgresStore creates the unit tables if needed and returns a store.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create unit tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// ListUnits returns every unit ordered by abbreviation.
func (s *PostgresStore) ListUnits(ctx context.Context) ([]Unit, error) {
	units := []Unit{}
	if err := s.db.SelectContext(ctx, &units, "SELECT abbreviation, name, ratio, type FROM units ORDER BY abbreviation"); err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

// GetUnit retrieves a unit by abbreviation.
func (s *PostgresStore) GetUnit(ctx context.Context, abbreviation string) (*Unit, error) {
	var u Unit
	err := s.db.GetContext(ctx, &u, "SELECT abbreviation, name, ratio, type FROM units WHERE abbreviation = $1", abbreviation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, abbreviation)
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return &u, nil
}

// SaveUnit inserts or updates a unit.
func (s *PostgresStore) SaveUnit(ctx context.Context, u *Unit) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO units (abbreviation, name, ratio, type) VALUES (:abbreviation, :name, :ratio, :type)
		ON CONFLICT (abbreviation) DO UPDATE SET name = :name, ratio = :ratio, type = :type`,
		u,
	)
	if err != nil {
		return fmt.Errorf("failed to save unit: %w", err)
	}
	return nil
}

// ListTypes returns every unit type ordered by name.
func (s *PostgresStore) ListTypes(ctx context.Context) ([]Type, error) {
	types := []Type{}
	if err := s.db.SelectContext(ctx, &types, "SELECT name FROM unit_types ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list unit types: %w", err)
	}
	return types, nil
}

// SaveType inserts a unit type if it does not exist yet.
func (s *PostgresStore) SaveType(ctx context.Context, t *Type) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO unit_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", t.Name)
	if err != nil {
		return fmt.Errorf("failed to save unit type: %w", err)
	}
	return nil
}

// Purge deletes every unit and unit type. It fails while recipes or the
// fridge still use a unit.
func (s *PostgresStore) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM units; DELETE FROM unit_types"); err != nil {
		return fmt.Errorf("failed to purge units: %w", err)
	}
	return nil
}
