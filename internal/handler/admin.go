package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/logs"
	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
)

// AdminHandler exposes platform administration endpoints.
type AdminHandler struct {
	Users *repository.UserRepo
}

func NewAdminHandler(u *repository.UserRepo) *AdminHandler {
	return &AdminHandler{Users: u}
}

type changeRoleReq struct {
	PlatformRole string `json:"platformRole"`
}

// ChangePlatformRole updates a user's platform role subject to the
// escalation rules: super_admin targets are immutable, only a super_admin
// may grant super_admin, and an admin cannot modify a fellow admin.
func (h *AdminHandler) ChangePlatformRole(c echo.Context) error {
	targetID := paramUint(c, "id")
	if targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req changeRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	newRole := model.PlatformRole(req.PlatformRole)
	if !newRole.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid platform role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	target, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	requester := middleware.CurrentUser(c)
	if err := model.CanChangePlatformRole(requester.PlatformRole, target.PlatformRole, newRole); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}

	if target.PlatformRole != newRole {
		if err := h.Users.UpdatePlatformRole(ctx, target.ID, newRole); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
		}
		logs.Logger.WithFields(map[string]interface{}{
			"user_id": target.ID,
			"role":    newRole,
			"by":      requester.ID,
		}).Info("platform role changed")
	}

	target.PlatformRole = newRole
	return c.JSON(http.StatusOK, echo.Map{"user": authUser(target)})
}
