package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"mynextrecipe/internal/search"
)

// Ingredient is an entry of the ingredient catalog.
type Ingredient struct {
	Name string `json:"name" db:"name"`
}

// Category is a recipe category (Entrée, Plat, Dessert...).
type Category struct {
	Name string `json:"name" db:"name"`
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	Ingredient string  `json:"ingredient" db:"ingredient"`
	Amount     float64 `json:"amount" db:"amount"`
	Unit       string  `json:"unit" db:"unit"`
}

// Recipe represents a recipe of the catalog.
type Recipe struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Duration    Duration           `json:"duration"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	Categories  []string           `json:"categories"`
}

// SearchDocument implements search.Searchable.
func (r Recipe) SearchDocument() search.Document {
	return search.Document{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: lo.Map(r.Ingredients, func(ri RecipeIngredient, _ int) string { return ri.Ingredient }),
		Categories:  r.Categories,
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
// Surrounding spaces typed in the form are dropped and categories left
// unchecked (sent as empty strings) are ignored.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe
	aux := (*Alias)(r)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Categories = lo.Compact(lo.Map(r.Categories, func(c string, _ int) string { return strings.TrimSpace(c) }))
	for i := range r.Ingredients {
		r.Ingredients[i].Ingredient = strings.TrimSpace(r.Ingredients[i].Ingredient)
		r.Ingredients[i].Unit = strings.TrimSpace(r.Ingredients[i].Unit)
	}
	return nil
}

// Duration is the total time a recipe takes. It is written "HH:MM:SS" on
// the wire and accepts "HH:MM" as well.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String formats d as "HH:MM:SS".
func (d Duration) String() string {
	total := int64(time.Duration(d) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// ParseDuration parses "HH:MM" or "HH:MM:SS".
func ParseDuration(s string) (Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q: want HH:MM or HH:MM:SS", s)
	}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q: want HH:MM or HH:MM:SS", s)
		}
		if time.Duration(n) > (math.MaxInt64-total)/units[i] {
			return 0, fmt.Errorf("invalid duration %q: too long", s)
		}
		total += time.Duration(n) * units[i]
	}
	return Duration(total), nil
}
