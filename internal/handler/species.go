package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/repository"
)

// SpeciesHandler serves the read-only species catalog.
type SpeciesHandler struct {
	Species *repository.SpeciesRepo
}

func NewSpeciesHandler(s *repository.SpeciesRepo) *SpeciesHandler {
	return &SpeciesHandler{Species: s}
}

// List returns all species ordered by name.
func (h *SpeciesHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Species.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list species failed"})
	}

	out := make([]speciesPart, 0, len(items))
	for _, s := range items {
		out = append(out, speciesPart{ID: s.ID, Name: s.Name, Code: s.Code})
	}
	return c.JSON(http.StatusOK, echo.Map{"species": out})
}
