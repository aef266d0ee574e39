// Package unit holds the measurement units recipes and the fridge are
// expressed in, and the conversions between units of the same type.
package unit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknown is returned when an abbreviation is not in the catalog.
	ErrUnknown = errors.New("unknown unit")

	// ErrIncompatible is returned when converting between two unit types.
	ErrIncompatible = errors.New("incompatible unit types")

	// ErrNotFound is returned by the store when a row does not exist.
	ErrNotFound = errors.New("unit not found")
)

// Type is the nature of a unit: mass, volume, pieces...
type Type struct {
	Name string `json:"name" db:"name"`
}

// Unit is a measurement unit. Ratio converts an amount in this unit to the
// base unit of its type (the one with a ratio of 1).
type Unit struct {
	Name         string  `json:"name" db:"name"`
	Abbreviation string  `json:"abbreviation" db:"abbreviation"`
	Ratio        float64 `json:"ratio" db:"ratio"`
	Type         string  `json:"type" db:"type"`
}

// ToBase converts amount, expressed in u, to the base unit of u's type.
func (u Unit) ToBase(amount float64) float64 {
	return amount * u.Ratio
}

// FromBase converts amount, expressed in the base unit, to u.
func (u Unit) FromBase(amount float64) float64 {
	return amount / u.Ratio
}

// Catalog indexes units by abbreviation.
type Catalog map[string]Unit

// NewCatalog builds a catalog from a unit list.
func NewCatalog(units []Unit) Catalog {
	c := make(Catalog, len(units))
	for _, u := range units {
		c[u.Abbreviation] = u
	}
	return c
}

// Lookup returns the unit with the given abbreviation.
func (c Catalog) Lookup(abbreviation string) (Unit, error) {
	u, ok := c[abbreviation]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknown, abbreviation)
	}
	return u, nil
}

// Convert expresses amount, given in from, in to.
func (c Catalog) Convert(amount float64, from, to string) (float64, error) {
	src, err := c.Lookup(from)
	if err != nil {
		return 0, err
	}
	dst, err := c.Lookup(to)
	if err != nil {
		return 0, err
	}
	if src.Type != dst.Type {
		return 0, fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatible, src.Abbreviation, src.Type, dst.Abbreviation, dst.Type)
	}
	return dst.FromBase(src.ToBase(amount)), nil
}
