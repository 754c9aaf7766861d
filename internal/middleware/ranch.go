package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
)

// RanchContext resolves the :slug route parameter into a ranch and the
// caller's membership in it, then publishes both to context.  The order of
// failures is deliberate: an unknown slug reads as not found, a known ranch
// without a membership row as access denied, and a pending or disabled
// membership as inactive.  Must run after Auth.
func RanchContext(ranches *repository.RanchRepo, members *repository.MemberRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			ranch, err := ranches.GetBySlug(ctx, c.Param("slug"))
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "ranch not found"})
				}
				return err
			}

			m, err := members.Get(ctx, ranch.ID, CurrentUser(c).ID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
				}
				return err
			}
			if m.Status != model.MemberStatusActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "membership not active"})
			}

			c.Set(ctxRanch, ranch)
			c.Set(ctxMembership, m)
			return next(c)
		}
	}
}

// RequireRanchRole aborts with 403 unless the caller's ranch role is in the
// allowed set.  Each route names its own allow-list; there is no blanket
// permission check.  Must run after RanchContext.
func RequireRanchRole(roles ...model.RanchRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentMembership(c).Role.In(roles...) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
