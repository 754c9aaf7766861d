package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/logs"
	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/utils"
)

// RanchHandler manages tenant workspaces and their listing.
type RanchHandler struct {
	Ranches *repository.RanchRepo
	Members *repository.MemberRepo
}

func NewRanchHandler(r *repository.RanchRepo, m *repository.MemberRepo) *RanchHandler {
	return &RanchHandler{Ranches: r, Members: m}
}

type createRanchReq struct {
	Name         string   `json:"name"`
	LocationName *string  `json:"locationName"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type ranchPart struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	LocationName *string  `json:"locationName"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func ranchJSON(r model.Ranch) ranchPart {
	return ranchPart{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		LocationName: r.LocationName,
		Address:      r.Address,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
	}
}

// Create registers a new ranch and makes the creator its active owner.  The
// slug is derived from the name, with a numeric suffix when taken.
func (h *RanchHandler) Create(c echo.Context) error {
	var req createRanchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := utils.UniqueSlug(req.Name, func(candidate string) (bool, error) {
		return h.Ranches.SlugExists(ctx, candidate)
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "slug generation failed"})
	}

	creator := middleware.CurrentUser(c)
	ranch := model.Ranch{
		Name:         req.Name,
		Slug:         s,
		CreatedBy:    creator.ID,
		LocationName: req.LocationName,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
	if err := h.Ranches.Create(ctx, &ranch); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ranch failed"})
	}

	member := model.RanchMember{
		RanchID: ranch.ID,
		UserID:  creator.ID,
		Role:    model.RanchRoleOwner,
		Status:  model.MemberStatusActive,
	}
	if err := h.Members.Create(ctx, &member); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create membership failed"})
	}

	logs.Logger.WithField("ranch_id", ranch.ID).Info("ranch created")
	return c.JSON(http.StatusCreated, echo.Map{
		"ranch":      ranchJSON(ranch),
		"membership": echo.Map{"role": member.Role, "status": member.Status},
	})
}

// ListMine returns every ranch the caller belongs to with their role and
// membership status.
func (h *RanchHandler) ListMine(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Ranches.ListForUser(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		out = append(out, echo.Map{
			"ranch":  ranchJSON(it.Ranch),
			"role":   it.Role,
			"status": it.Status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"ranches": out})
}

// Get returns the resolved ranch with the caller's membership.
func (h *RanchHandler) Get(c echo.Context) error {
	m := middleware.CurrentMembership(c)
	return c.JSON(http.StatusOK, echo.Map{
		"ranch":      ranchJSON(middleware.CurrentRanch(c)),
		"membership": echo.Map{"role": m.Role, "status": m.Status},
	})
}

// ListMembers returns all memberships of the ranch with member identities.
func (h *RanchHandler) ListMembers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Members.ListByRanch(ctx, middleware.CurrentRanch(c).ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(items))
	for _, it := range items {
		out = append(out, echo.Map{
			"user": userPart{
				ID:        it.Member.UserID,
				Email:     it.Email,
				FirstName: it.FirstName,
				LastName:  it.LastName,
			},
			"role":     it.Member.Role,
			"status":   it.Member.Status,
			"joinedAt": it.Member.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"members": out})
}
