package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/utils"
)

// QRHandler serves the public animal lookup and the authenticated QR image.
type QRHandler struct {
	Cfg     config.Config
	Animals *repository.AnimalRepo
}

func NewQRHandler(cfg config.Config, a *repository.AnimalRepo) *QRHandler {
	return &QRHandler{Cfg: cfg, Animals: a}
}

// Scan is the unauthenticated endpoint behind a printed QR code.  It looks
// the animal up by public id and returns a sanitized profile: no internal
// ids, no ranch details, no audit history.
func (h *QRHandler) Scan(c echo.Context) error {
	publicID := c.Param("publicId")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "public id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Animals.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	a := d.Animal
	return c.JSON(http.StatusOK, echo.Map{
		"publicId":     a.PublicID,
		"tagNumber":    a.TagNumber,
		"sex":          a.Sex,
		"status":       a.Status,
		"healthStatus": d.HealthStatus,
		"species": speciesPart{
			ID:   a.SpeciesID,
			Name: d.SpeciesName,
			Code: d.SpeciesCode,
		},
	})
}

// PNG renders the animal's QR code as a 320px PNG for printing on ear tags
// and stable cards.
func (h *QRHandler) PNG(c echo.Context) error {
	animalID := paramUint(c, "animalId")
	if animalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Animals.GetByID(ctx, animalID, middleware.CurrentRanch(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	url := utils.BuildAnimalQRURL(h.Cfg.QRBaseURL, d.Animal.PublicID)
	png, err := qrcode.Encode(url, qrcode.Medium, 320)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "qr encode failed"})
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", png)
}
