package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"mynextrecipe/internal/config"
	"mynextrecipe/internal/fridge"
	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/unit"
)

var (
	seedTypes = []unit.Type{{Name: "masse"}, {Name: "volume"}, {Name: "pièce(s)"}}
	seedUnits = []unit.Unit{
		{Name: "gramme", Abbreviation: "g", Ratio: 1, Type: "masse"},
		{Name: "kilogramme", Abbreviation: "kg", Ratio: 1000, Type: "masse"},
		{Name: "milligramme", Abbreviation: "mg", Ratio: 0.001, Type: "masse"},
		{Name: "millilitre", Abbreviation: "ml", Ratio: 1, Type: "volume"},
		{Name: "centilitre", Abbreviation: "cl", Ratio: 10, Type: "volume"},
		{Name: "litre", Abbreviation: "l", Ratio: 1000, Type: "volume"},
		{Name: "pièce(s)", Abbreviation: "pièce(s)", Ratio: 1, Type: "pièce(s)"},
		{Name: "Cuillère à soupe", Abbreviation: "cas", Ratio: 1, Type: "pièce(s)"},
	}
	seedCategories  = []string{"Entrée", "Plat", "Dessert"}
	seedIngredients = []string{
		"saumon fumé",
		"citron vert",
		"vinaigre balsamique",
		"huile d'olive",
		"échalote",
		"herbes fraîches",
	}
)

func seedCommand(c *cli.Context) error {
	return withStores(c, func(ctx context.Context, _ *config.Config, s *stores) error {
		return seed(ctx, s.units, s.catalog)
	})
}

// seed creates the units, categories and ingredients needed to write recipes.
// Entries that already exist are kept.
func seed(ctx context.Context, units unit.Store, catalog recipe.Store) error {
	for _, t := range seedTypes {
		if err := units.SaveType(ctx, &t); err != nil {
			return err
		}
	}
	for _, u := range seedUnits {
		if err := units.SaveUnit(ctx, &u); err != nil {
			return err
		}
	}
	for _, name := range seedCategories {
		if err := catalog.CreateCategory(ctx, name); err != nil && !errors.Is(err, recipe.ErrAlreadyExists) {
			return err
		}
	}
	for _, name := range seedIngredients {
		if err := catalog.CreateIngredient(ctx, name); err != nil && !errors.Is(err, recipe.ErrAlreadyExists) {
			return err
		}
	}
	slog.Info("seeded", "types", len(seedTypes), "units", len(seedUnits),
		"categories", len(seedCategories), "ingredients", len(seedIngredients))
	return nil
}

func purgeCommand(c *cli.Context) error {
	return withStores(c, func(ctx context.Context, _ *config.Config, s *stores) error {
		return purge(ctx, s.units, s.catalog, s.fridge)
	})
}

// purge empties the fridge, then the catalog, then the units they referred to.
func purge(ctx context.Context, units unit.Store, catalog recipe.Store, fr fridge.Store) error {
	stocked, err := fr.Purge(ctx)
	if err != nil {
		return err
	}
	recipes, err := catalog.Purge(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge catalog: %w", err)
	}
	if err := units.Purge(ctx); err != nil {
		return err
	}
	slog.Info("purged", "fridge", stocked, "recipes", recipes)
	return nil
}
