package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/service"
)

// HealthEventHandler records and lists the append-only health log.
type HealthEventHandler struct {
	Animals *repository.AnimalRepo
	Events  *repository.HealthEventRepo
	Alerts  *service.AlertService
}

func NewHealthEventHandler(a *repository.AnimalRepo, e *repository.HealthEventRepo, al *service.AlertService) *HealthEventHandler {
	return &HealthEventHandler{Animals: a, Events: e, Alerts: al}
}

type addHealthReq struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// Add appends a health observation.  Any status may follow any other; a
// sick or quarantined observation raises a ranch alert.
func (h *HealthEventHandler) Add(c echo.Context) error {
	animalID := paramUint(c, "animalId")
	if animalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
	}

	var req addHealthReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.HealthStatus(req.Status)
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid health status"})
	}
	if req.Notes != nil {
		n := strings.TrimSpace(*req.Notes)
		if n == "" {
			req.Notes = nil
		} else {
			req.Notes = &n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	ranch := middleware.CurrentRanch(c)

	d, err := h.Animals.GetByID(ctx, animalID, ranch.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	event := model.HealthEvent{
		AnimalID:   d.Animal.ID,
		Status:     status,
		Notes:      req.Notes,
		RecordedBy: middleware.CurrentUser(c).ID,
	}
	if err := h.Events.Create(ctx, &event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record health event failed"})
	}

	if alertType, ok := model.AlertTypeForHealth(status); ok {
		h.Alerts.Raise(ctx, ranch, animalRef(d.Animal), alertType,
			fmt.Sprintf("Animal %s reported %s", animalLabel(d.Animal), status))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "health event recorded",
		"animal": echo.Map{
			"publicId":  d.Animal.PublicID,
			"tagNumber": d.Animal.TagNumber,
		},
		"healthEvent": echo.Map{
			"id":     event.ID,
			"status": event.Status,
			"notes":  event.Notes,
		},
		"healthStatus": event.Status,
	})
}

// List returns a page of an animal's health history, newest first.
func (h *HealthEventHandler) List(c echo.Context) error {
	animalID := paramUint(c, "animalId")
	if animalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
	}
	page, limit := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Animals.GetByID(ctx, animalID, middleware.CurrentRanch(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items, total, err := h.Events.ListByAnimal(ctx, d.Animal.ID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list health events failed"})
	}

	current, err := h.Events.Latest(ctx, d.Animal.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		out = append(out, echo.Map{
			"id":     it.Event.ID,
			"status": it.Event.Status,
			"notes":  it.Event.Notes,
			"recordedBy": userPart{
				ID:        it.Event.RecordedBy,
				Email:     it.ActorEmail,
				FirstName: it.ActorFirstName,
				LastName:  it.ActorLastName,
			},
			"createdAt": it.Event.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"animal": echo.Map{
			"publicId":  d.Animal.PublicID,
			"tagNumber": d.Animal.TagNumber,
		},
		"healthStatus": current,
		"events":       out,
		"pagination":   newPagination(page, limit, total),
	})
}
