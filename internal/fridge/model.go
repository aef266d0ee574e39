// Package fridge tracks what is in the fridge and works out which catalog
// recipes can be cooked with it.
package fridge

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"mynextrecipe/internal/recipe"
)

const dateLayout = "2006-01-02"

// Date is a calendar day, stored at midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar day of now in its own location.
func Today(now time.Time) Date {
	return NewDate(now.Date())
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Date())
		return nil
	case string:
		parsed, err := ParseDate(v)
		*d = parsed
		return err
	case []byte:
		parsed, err := ParseDate(string(v))
		*d = parsed
		return err
	}
	return fmt.Errorf("cannot scan %T into a date", src)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Ingredient is an amount of a catalog ingredient stored in the fridge.
type Ingredient struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Ingredient     string    `json:"ingredient" db:"ingredient"`
	Amount         float64   `json:"amount" db:"amount"`
	Unit           string    `json:"unit" db:"unit"`
	ExpirationDate Date      `json:"expiration_date" db:"expiration_date"`
}

// Recipe is a catalog recipe that can be cooked with the fridge content.
// PriorityIngredients names the ingredient expiring first; UnsureIngredients
// the ingredients only present in a unit that cannot be compared with the
// recipe's.
type Recipe struct {
	recipe.Recipe
	PriorityIngredients []string `json:"priority_ingredients"`
	UnsureIngredients   []string `json:"unsure_ingredients"`
}

// UnmarshalJSON decodes the embedded recipe, then the availability fields the
// recipe's own decoder does not know about.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	if err := r.Recipe.UnmarshalJSON(data); err != nil {
		return err
	}
	var aux struct {
		PriorityIngredients []string `json:"priority_ingredients"`
		UnsureIngredients   []string `json:"unsure_ingredients"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.PriorityIngredients = aux.PriorityIngredients
	r.UnsureIngredients = aux.UnsureIngredients
	return nil
}

// IsUnsure reports whether the availability of the named ingredient could not be checked.
func (r Recipe) IsUnsure(ingredient string) bool {
	return slices.Contains(r.UnsureIngredients, ingredient)
}

// IsPriority reports whether the named ingredient is the one expiring first.
func (r Recipe) IsPriority(ingredient string) bool {
	return slices.Contains(r.PriorityIngredients, ingredient)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
