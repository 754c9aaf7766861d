package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/utils"
)

// Context keys published by the auth and ranch middleware.  Handlers read
// them through the typed helpers below instead of touching c.Get directly.
const (
	ctxUser       = "auth_user"
	ctxRanch      = "ranch"
	ctxMembership = "membership"
)

// CurrentUser returns the authenticated user placed in context by Auth.
func CurrentUser(c echo.Context) model.User {
	u, _ := c.Get(ctxUser).(model.User)
	return u
}

// CurrentRanch returns the ranch resolved by RanchContext.
func CurrentRanch(c echo.Context) model.Ranch {
	r, _ := c.Get(ctxRanch).(model.Ranch)
	return r
}

// CurrentMembership returns the caller's membership resolved by RanchContext.
func CurrentMembership(c echo.Context) model.RanchMember {
	m, _ := c.Get(ctxMembership).(model.RanchMember)
	return m
}

// Auth validates the Bearer access token and loads the caller's user row
// into context.  Tokens of deactivated or soft-deleted accounts are rejected
// even when the signature is still valid, so deactivation takes effect
// within one access-token lifetime.
func Auth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			u, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if !u.IsActive || u.DeletedAt != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
			}

			c.Set(ctxUser, u)
			return next(c)
		}
	}
}

// RequirePlatformRole aborts with 403 unless the caller's platform role is
// in the allowed set.  Must run after Auth.
func RequirePlatformRole(roles ...model.PlatformRole) echo.MiddlewareFunc {
	allowed := make(map[model.PlatformRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[CurrentUser(c).PlatformRole] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
