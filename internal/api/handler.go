// Package api exposes the catalog, fridge and unit stores over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"mynextrecipe/internal/fridge"
	"mynextrecipe/internal/recipe"
	"mynextrecipe/internal/search"
	"mynextrecipe/internal/unit"
)

// Handler handles HTTP requests.
type Handler struct {
	Catalog   recipe.Store
	Fridge    fridge.Store
	Units     unit.Store
	Tokenizer search.Tokenizer
	Timeout   time.Duration
	// Now is the clock expiration dates are checked against.
	Now func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(catalog recipe.Store, fr fridge.Store, units unit.Store, timeout time.Duration) *Handler {
	return &Handler{
		Catalog:   catalog,
		Fridge:    fr,
		Units:     units,
		Tokenizer: search.DefaultTokenizer(),
		Timeout:   timeout,
		Now:       time.Now,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ready", h.Ready)

	catalogs := r.Group("/api/catalogs")
	catalogs.GET("/ingredients/", h.ListIngredients)
	catalogs.POST("/ingredients/", h.CreateIngredient)
	catalogs.DELETE("/ingredients/:name/", h.DeleteIngredient)
	catalogs.GET("/categories/", h.ListCategories)
	catalogs.POST("/categories/", h.CreateCategory)
	catalogs.GET("/recipes/", h.ListRecipes)
	catalogs.POST("/recipes/", h.CreateRecipe)
	catalogs.GET("/recipes/:id/", h.GetRecipe)
	catalogs.PUT("/recipes/:id/", h.UpdateRecipe)
	catalogs.DELETE("/recipes/:id/", h.DeleteRecipe)

	fr := r.Group("/api/fridge")
	fr.GET("/ingredients/", h.ListFridgeIngredients)
	fr.POST("/ingredients/", h.CreateFridgeIngredient)
	fr.GET("/ingredients/:id/", h.GetFridgeIngredient)
	fr.PUT("/ingredients/:id/", h.UpdateFridgeIngredient)
	fr.DELETE("/ingredients/:id/", h.DeleteFridgeIngredient)
	fr.GET("/recipes/", h.ListFridgeRecipes)
	fr.GET("/recipes/search/", h.SearchFridgeRecipes)
	fr.POST("/recipes/:id/consume/", h.ConsumeRecipe)

	units := r.Group("/api/units")
	units.GET("/units/", h.ListUnits)
	units.GET("/units/:abbreviation/", h.GetUnit)
	units.GET("/types/", h.ListUnitTypes)
}

// Ready reports that the service accepts requests.
func (h *Handler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// withTimeout bounds a store call by the request deadline.
func (h *Handler) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.Timeout)
}

// fail writes err with the status code matching its kind.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
		err = fmt.Errorf("database query timed out after %s", h.Timeout)
	case errors.Is(err, recipe.ErrNotFound), errors.Is(err, fridge.ErrNotFound), errors.Is(err, unit.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, recipe.ErrInUse), errors.Is(err, recipe.ErrAlreadyExists), errors.Is(err, fridge.ErrMissingIngredient):
		status = http.StatusConflict
	case errors.Is(err, recipe.ErrInvalidRecipe), errors.Is(err, fridge.ErrInvalidIngredient), errors.Is(err, recipe.ErrEmptyName):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest writes a malformed request error.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// unitCatalog loads every unit.
func (h *Handler) unitCatalog(ctx context.Context) (unit.Catalog, error) {
	units, err := h.Units.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	return unit.NewCatalog(units), nil
}

// known loads the catalog entries a recipe may refer to, concurrently.
func (h *Handler) known(ctx context.Context) (recipe.Known, error) {
	var (
		ingredients []recipe.Ingredient
		categories  []recipe.Category
		units       []unit.Unit
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ingredients, err = h.Catalog.ListIngredients(ctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = h.Catalog.ListCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		units, err = h.Units.ListUnits(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return recipe.Known{}, err
	}

	return recipe.NewKnown(
		lo.Map(ingredients, func(i recipe.Ingredient, _ int) string { return i.Name }),
		lo.Map(categories, func(c recipe.Category, _ int) string { return c.Name }),
		lo.Map(units, func(u unit.Unit, _ int) string { return u.Abbreviation }),
	), nil
}
