package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"mynextrecipe/internal/fridge"
	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/search"
	"mynextrecipe/internal/unit"
)

// Highlight holds the highlight segments of the displayed recipe text.
type Highlight struct {
	Title       []search.Segment   `json:"title"`
	Description []search.Segment   `json:"description"`
	Ingredients [][]search.Segment `json:"ingredients"`
}

// SearchRecipe is a feasible recipe with its text highlighted.
type SearchRecipe struct {
	fridge.Recipe
	Highlight Highlight `json:"highlight"`
}

// UnmarshalJSON decodes the recipe, then its highlight.
func (r *SearchRecipe) UnmarshalJSON(data []byte) error {
	if err := r.Recipe.UnmarshalJSON(data); err != nil {
		return err
	}
	var aux struct {
		Highlight Highlight `json:"highlight"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Highlight = aux.Highlight
	return nil
}

// SearchResponse is the body of the fridge recipe search.
type SearchResponse struct {
	Recipes    []SearchRecipe `json:"recipes"`
	Tokens     []string       `json:"tokens"`
	Categories map[string]int `json:"categories"`
}

// ListFridgeIngredients lists the fridge content.
func (h *Handler) ListFridgeIngredients(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	ingredients, err := h.Fridge.ListIngredients(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// GetFridgeIngredient returns one fridge entry.
func (h *Handler) GetFridgeIngredient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	in, err := h.Fridge.GetIngredient(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// CreateFridgeIngredient validates and stores a fridge entry, merging it
// with an existing one when possible.
func (h *Handler) CreateFridgeIngredient(c *gin.Context) {
	var in fridge.Ingredient
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	units, err := h.validateFridgeIngredient(ctx, &in)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Fridge.CreateIngredient(ctx, &in, units); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, in)
}

// UpdateFridgeIngredient validates and replaces a fridge entry. A missing
// entry is reported before the new content is validated.
func (h *Handler) UpdateFridgeIngredient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in fridge.Ingredient
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	in.ID = id

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	if _, err := h.Fridge.GetIngredient(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.validateFridgeIngredient(ctx, &in); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Fridge.UpdateIngredient(ctx, &in); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// DeleteFridgeIngredient removes a fridge entry.
func (h *Handler) DeleteFridgeIngredient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.Fridge.DeleteIngredient(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFridgeRecipes lists the recipes that can be cooked with the fridge content.
func (h *Handler) ListFridgeRecipes(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	recipes, err := h.feasible(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// SearchFridgeRecipes filters the feasible recipes by ?category= (repeatable)
// and by the words of ?q=, and highlights the words found.
func (h *Handler) SearchFridgeRecipes(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	recipes, err := h.feasible(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	res := search.Filter(recipes, search.Query{Text: c.Query("q"), Categories: c.QueryArray("category")}, h.Tokenizer)
	c.JSON(http.StatusOK, SearchResponse{
		Recipes: lo.Map(res.Recipes, func(r fridge.Recipe, _ int) SearchRecipe {
			return SearchRecipe{Recipe: r, Highlight: highlight(r.Recipe, res.Tokens)}
		}),
		Tokens:     res.Tokens,
		Categories: res.Categories,
	})
}

// ConsumeRecipe removes the ingredients of a recipe from the fridge.
func (h *Handler) ConsumeRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	var (
		r     *recipe.Recipe
		units unit.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r, err = h.Catalog.GetRecipe(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		units, err = h.unitCatalog(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	plan, err := h.Fridge.Consume(ctx, *r, units)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// feasible loads the catalog, the fridge and the units concurrently and
// returns the feasible recipes.
func (h *Handler) feasible(ctx context.Context) ([]fridge.Recipe, error) {
	var (
		recipes []recipe.Recipe
		stock   []fridge.Ingredient
		units   unit.Catalog
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recipes, err = h.Catalog.ListRecipes(ctx)
		return err
	})
	g.Go(func() (err error) {
		stock, err = h.Fridge.ListIngredients(ctx)
		return err
	})
	g.Go(func() (err error) {
		units, err = h.unitCatalog(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fridge.Feasible(recipes, stock, units)
}

func (h *Handler) validateFridgeIngredient(ctx context.Context, in *fridge.Ingredient) (unit.Catalog, error) {
	var (
		ingredients []recipe.Ingredient
		units       unit.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ingredients, err = h.Catalog.ListIngredients(gctx)
		return err
	})
	g.Go(func() (err error) {
		units, err = h.unitCatalog(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	known := lo.Keyify(lo.Map(ingredients, func(i recipe.Ingredient, _ int) string { return i.Name }))
	return units, fridge.Validate(in, known, units, fridge.Today(h.Now()))
}

func highlight(r recipe.Recipe, tokens []string) Highlight {
	return Highlight{
		Title:       search.Highlight(r.Title, tokens),
		Description: search.Highlight(r.Description, tokens),
		Ingredients: lo.Map(r.Ingredients, func(ri recipe.RecipeIngredient, _ int) []search.Segment {
			return search.Highlight(ri.Ingredient, tokens)
		}),
	}
}
