package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUnits lists the measurement units.
func (h *Handler) ListUnits(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	units, err := h.Units.ListUnits(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetUnit returns one unit by abbreviation.
func (h *Handler) GetUnit(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	u, err := h.Units.GetUnit(ctx, c.Param("abbreviation"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUnitTypes lists the unit types.
func (h *Handler) ListUnitTypes(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	types, err := h.Units.ListTypes(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}
