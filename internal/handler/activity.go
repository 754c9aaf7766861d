package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/repository"
)

// ActivityHandler exposes the audit trail: the ranch-wide activity feed, the
// per-animal feed, lifecycle status history and the merged timeline.
type ActivityHandler struct {
	Animals  *repository.AnimalRepo
	Activity *repository.ActivityRepo
}

func NewActivityHandler(a *repository.AnimalRepo, ac *repository.ActivityRepo) *ActivityHandler {
	return &ActivityHandler{Animals: a, Activity: ac}
}

func activityJSON(it repository.ActivityWithContext) echo.Map {
	e := it.Event
	out := echo.Map{
		"id":        e.ID,
		"eventType": e.EventType,
		"field":     e.Field,
		"fromValue": e.FromValue,
		"toValue":   e.ToValue,
		"notes":     e.Notes,
		"actor": userPart{
			ID:        e.RecordedBy,
			Email:     it.ActorEmail,
			FirstName: it.ActorFirstName,
			LastName:  it.ActorLastName,
		},
		"createdAt": e.CreatedAt,
	}
	if it.AnimalPublicID != nil {
		out["animal"] = echo.Map{
			"id":        e.AnimalID,
			"publicId":  *it.AnimalPublicID,
			"tagNumber": it.AnimalTagNumber,
		}
	} else {
		out["animal"] = nil
	}
	return out
}

// ListRanch returns the ranch-wide activity feed with optional eventType,
// animalId, userId and from/to (RFC 3339) filters.
func (h *ActivityHandler) ListRanch(c echo.Context) error {
	page, limit := pageParams(c)
	f := repository.ActivityFilter{
		EventType: c.QueryParam("eventType"),
		AnimalID:  queryUint(c, "animalId"),
		UserID:    queryUint(c, "userId"),
		Page:      page,
		Limit:     limit,
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be RFC 3339"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be RFC 3339"})
		}
		f.To = &t
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Activity.ListByRanch(ctx, middleware.CurrentRanch(c).ID, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list activity failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		out = append(out, activityJSON(it))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"events":     out,
		"pagination": newPagination(page, limit, total),
	})
}

// resolveAnimal loads an animal within the current ranch or writes the
// error response, returning ok=false.
func (h *ActivityHandler) resolveAnimal(c echo.Context) (repository.AnimalDetail, bool, error) {
	animalID := paramUint(c, "animalId")
	if animalID == 0 {
		return repository.AnimalDetail{}, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Animals.GetByID(ctx, animalID, middleware.CurrentRanch(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.AnimalDetail{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return repository.AnimalDetail{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return d, true, nil
}

func animalHeader(d repository.AnimalDetail) echo.Map {
	return echo.Map{
		"id":        d.Animal.ID,
		"publicId":  d.Animal.PublicID,
		"tagNumber": d.Animal.TagNumber,
	}
}

// ListAnimal returns one animal's activity events.
func (h *ActivityHandler) ListAnimal(c echo.Context) error {
	d, ok, err := h.resolveAnimal(c)
	if !ok {
		return err
	}
	page, limit := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Activity.ListByAnimal(ctx, d.Animal.RanchID, d.Animal.ID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list activity failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		out = append(out, activityJSON(it))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"animal":     animalHeader(d),
		"events":     out,
		"pagination": newPagination(page, limit, total),
	})
}

// ListStatusEvents returns one animal's lifecycle transitions.
func (h *ActivityHandler) ListStatusEvents(c echo.Context) error {
	d, ok, err := h.resolveAnimal(c)
	if !ok {
		return err
	}
	page, limit := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Activity.ListStatusEvents(ctx, d.Animal.ID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list status events failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		out = append(out, echo.Map{
			"id":         it.Event.ID,
			"fromStatus": it.Event.FromStatus,
			"toStatus":   it.Event.ToStatus,
			"notes":      it.Event.Notes,
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
		"animal":     animalHeader(d),
		"events":     out,
		"pagination": newPagination(page, limit, total),
	})
}

// Timeline merges health and update history for one animal into a single
// chronological feed.
func (h *ActivityHandler) Timeline(c echo.Context) error {
	d, ok, err := h.resolveAnimal(c)
	if !ok {
		return err
	}
	page, limit := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, total, err := h.Activity.Timeline(ctx, d.Animal.ID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "timeline failed"})
	}

	out := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		item := echo.Map{
			"type":      e.Kind,
			"id":        e.ID,
			"notes":     e.Notes,
			"createdAt": e.CreatedAt,
			"recordedBy": userPart{
				ID:        e.RecordedBy,
				Email:     e.ActorEmail,
				FirstName: e.ActorFirstName,
				LastName:  e.ActorLastName,
			},
		}
		if e.Kind == "health" {
			item["status"] = e.Status
		} else {
			item["field"] = e.Field
			item["from"] = e.FromValue
			item["to"] = e.ToValue
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"animal":     animalHeader(d),
		"timeline":   out,
		"pagination": newPagination(page, limit, total),
	})
}
