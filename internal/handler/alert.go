package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
)

// AlertHandler lists and dismisses ranch alerts.
type AlertHandler struct {
	Alerts *repository.AlertRepo
}

func NewAlertHandler(a *repository.AlertRepo) *AlertHandler {
	return &AlertHandler{Alerts: a}
}

type bulkReadReq struct {
	AlertIDs []uint64 `json:"alertIds"`
}

// List returns a page of the ranch's alerts, newest first.  The type filter
// takes a comma-separated list; unread=true/false narrows by read state.
func (h *AlertHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	f := repository.AlertFilter{Page: page, Limit: limit}

	if v := c.QueryParam("type"); v != "" {
		for _, part := range strings.Split(v, ",") {
			t := model.AlertType(strings.TrimSpace(part))
			if !t.Valid() {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid alert type"})
			}
			f.Types = append(f.Types, t)
		}
	}
	switch c.QueryParam("unread") {
	case "":
	case "true":
		v := true
		f.Unread = &v
	case "false":
		v := false
		f.Unread = &v
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unread must be true or false"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Alerts.List(ctx, middleware.CurrentRanch(c).ID, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list alerts failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		a := it.Alert
		item := echo.Map{
			"id":        a.ID,
			"type":      a.AlertType,
			"message":   a.Message,
			"read":      a.IsRead,
			"createdAt": a.CreatedAt,
		}
		if a.AnimalID != nil {
			item["animal"] = echo.Map{
				"id":        *a.AnimalID,
				"publicId":  it.AnimalPublicID,
				"tagNumber": it.AnimalTagNumber,
			}
		} else {
			item["animal"] = nil
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"alerts":     out,
		"pagination": newPagination(page, limit, total),
	})
}

// UnreadCount returns how many alerts are still unread.
func (h *AlertHandler) UnreadCount(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Alerts.UnreadCount(ctx, middleware.CurrentRanch(c).ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

// MarkRead flips one alert to read.  Marking an already-read alert succeeds
// and says so.
func (h *AlertHandler) MarkRead(c echo.Context) error {
	alertID := paramUint(c, "alertId")
	if alertID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid alert id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	ranchID := middleware.CurrentRanch(c).ID

	changed, err := h.Alerts.MarkRead(ctx, alertID, ranchID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	if !changed {
		if _, err := h.Alerts.Get(ctx, alertID, ranchID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "alert not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": alertID, "alreadyRead": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": alertID, "alreadyRead": false})
}

// MarkReadBulk flips a set of alerts to read, ignoring unknown or foreign
// ids, and reports how many changed.
func (h *AlertHandler) MarkReadBulk(c echo.Context) error {
	var req bulkReadReq
	if err := c.Bind(&req); err != nil || len(req.AlertIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "alertIds required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Alerts.MarkReadBulk(ctx, middleware.CurrentRanch(c).ID, req.AlertIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}
