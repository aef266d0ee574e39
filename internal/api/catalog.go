package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/search"
)

type nameRequest struct {
	Name string `json:"name"`
}

// ListIngredients lists the ingredient catalog. ?q= keeps the names
// starting like the query.
func (h *Handler) ListIngredients(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	ingredients, err := h.Catalog.ListIngredients(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, search.FilterPrefix(ingredients, c.Query("q"), func(i recipe.Ingredient) string { return i.Name }))
}

// CreateIngredient adds an ingredient to the catalog.
func (h *Handler) CreateIngredient(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	name, err := recipe.ValidateName(req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	if err := h.Catalog.CreateIngredient(ctx, name); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe.Ingredient{Name: name})
}

// DeleteIngredient removes an ingredient no recipe uses.
func (h *Handler) DeleteIngredient(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.Catalog.DeleteIngredient(ctx, c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories lists the category names.
func (h *Handler) ListCategories(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	categories, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	name, err := recipe.ValidateName(req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	if err := h.Catalog.CreateCategory(ctx, name); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe.Category{Name: name})
}

// ListRecipes lists the catalog recipes. ?q= keeps the titles starting
// like the query.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	recipes, err := h.Catalog.ListRecipes(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, search.FilterPrefix(recipes, c.Query("q"), func(r recipe.Recipe) string { return r.Title }))
}

// GetRecipe returns one catalog recipe.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	r, err := h.Catalog.GetRecipe(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateRecipe validates and stores a new recipe.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.validate(ctx, &r); err != nil {
		h.fail(c, err)
		return
	}
	r.ID = uuid.Nil
	if err := h.Catalog.CreateRecipe(ctx, &r); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateRecipe validates and replaces a recipe.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, err)
		return
	}
	r.ID = id

	ctx, cancel := h.withTimeout(c)
	defer cancel()
	if err := h.validate(ctx, &r); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Catalog.UpdateRecipe(ctx, &r); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRecipe removes a recipe.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.Catalog.DeleteRecipe(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) validate(ctx context.Context, r *recipe.Recipe) error {
	known, err := h.known(ctx)
	if err != nil {
		return err
	}
	return recipe.Validate(r, known)
}
