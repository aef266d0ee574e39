package fridge

import (
	"fmt"

	"github.com/google/uuid"

	"mynextrecipe/internal/unit"
)

// Mergeable returns the index of the stock entry that in should be merged
// into, or -1. Entries merge when they hold the same ingredient with the same
// expiration date in units of the same type.
func Mergeable(stock []Ingredient, in Ingredient, units unit.Catalog) (int, error) {
	u, err := units.Lookup(in.Unit)
	if err != nil {
		return -1, err
	}
	for i, s := range stock {
		if (in.ID != uuid.Nil && s.ID == in.ID) || s.Ingredient != in.Ingredient || !s.ExpirationDate.Equal(in.ExpirationDate.Time) {
			continue
		}
		su, err := units.Lookup(s.Unit)
		if err != nil {
			return -1, err
		}
		if su.Type == u.Type {
			return i, nil
		}
	}
	return -1, nil
}

// Merge adds in to into. The sum is expressed in the larger of the two
// units and rounded to two decimals. into keeps its id.
func Merge(into, in Ingredient, units unit.Catalog) (Ingredient, error) {
	a, err := units.Lookup(into.Unit)
	if err != nil {
		return Ingredient{}, err
	}
	b, err := units.Lookup(in.Unit)
	if err != nil {
		return Ingredient{}, err
	}

	merged := into
	kept, added := into, in
	if b.Ratio > a.Ratio {
		kept, added = in, into
		merged.Unit = in.Unit
	}
	amount, err := units.Convert(added.Amount, added.Unit, kept.Unit)
	if err != nil {
		return Ingredient{}, fmt.Errorf("cannot merge %s into %s: %w", in.Unit, into.Unit, err)
	}
	merged.Amount = round2(kept.Amount + amount)
	return merged, nil
}
