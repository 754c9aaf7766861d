// Package router wires HTTP routes to handlers and their guard middleware.
// Every ranch-scoped route passes Auth, then RanchContext, then a
// per-operation ranch-role allow-list.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/handler"
	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Cfg     config.Config
	Redis   *redis.Client
	Users   *repository.UserRepo
	Ranches *repository.RanchRepo
	Members *repository.MemberRepo

	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Ranch    *handler.RanchHandler
	Invite   *handler.InviteHandler
	Animal   *handler.AnimalHandler
	Health   *handler.HealthEventHandler
	Activity *handler.ActivityHandler
	Alert    *handler.AlertHandler
	QR       *handler.QRHandler
	Species  *handler.SpeciesHandler
}

// Register mounts all routes on the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))

	e.GET("/healthz", handler.Healthz)

	// Public QR lookup, cached since it is anonymous and read-only.
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	e.GET("/v1/qr/a/:publicId", d.QR.Scan, cached)

	// Session lifecycle.  The refresh cookie is path-scoped here.
	auth := e.Group("/v1/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	// Everything below requires a valid access token and a live account.
	authed := e.Group("/v1", middleware.Auth(d.Cfg.JWTAccessSecret, d.Users))
	authed.GET("/me", d.Auth.Me)
	// The species catalog is static and identical for every caller.
	authed.GET("/species", d.Species.List, cached)
	authed.POST("/invites/accept", d.Invite.Accept)
	authed.GET("/ranches", d.Ranch.ListMine)
	authed.POST("/ranches", d.Ranch.Create,
		middleware.RequirePlatformRole(model.PlatformRoleAdmin, model.PlatformRoleSuperAdmin))

	admin := authed.Group("/admin",
		middleware.RequirePlatformRole(model.PlatformRoleAdmin, model.PlatformRoleSuperAdmin))
	admin.PATCH("/users/:id/role", d.Admin.ChangePlatformRole)

	// Ranch-scoped routes.  Role allow-lists are explicit per operation.
	ranch := authed.Group("/ranches/:slug", middleware.RanchContext(d.Ranches, d.Members))

	ownerManager := middleware.RequireRanchRole(model.RanchRoleOwner, model.RanchRoleManager)
	herdRoles := middleware.RequireRanchRole(model.RanchRoleOwner, model.RanchRoleManager, model.RanchRoleVet)

	ranch.GET("", d.Ranch.Get)
	ranch.GET("/members", d.Ranch.ListMembers, ownerManager)

	ranch.POST("/invites", d.Invite.Create, ownerManager)
	ranch.GET("/invites", d.Invite.List, ownerManager)
	ranch.POST("/invites/:inviteId/revoke", d.Invite.Revoke, ownerManager)
	ranch.POST("/invites/:inviteId/resend", d.Invite.Resend, ownerManager)

	ranch.POST("/animals", d.Animal.Create, herdRoles)
	ranch.GET("/animals", d.Animal.List)
	ranch.GET("/animals/:animalId", d.Animal.Get)
	ranch.PATCH("/animals/:animalId", d.Animal.Update, herdRoles)
	ranch.GET("/animals/:animalId/qr.png", d.QR.PNG)

	ranch.POST("/animals/:animalId/health", d.Health.Add, herdRoles)
	ranch.GET("/animals/:animalId/health", d.Health.List, herdRoles)

	ranch.GET("/animals/:animalId/status-events", d.Activity.ListStatusEvents, herdRoles)
	ranch.GET("/animals/:animalId/activity", d.Activity.ListAnimal, herdRoles)
	ranch.GET("/animals/:animalId/timeline", d.Activity.Timeline, herdRoles)
	ranch.GET("/activity", d.Activity.ListRanch, herdRoles)

	ranch.GET("/alerts", d.Alert.List, herdRoles)
	ranch.GET("/alerts/unread-count", d.Alert.UnreadCount, herdRoles)
	ranch.POST("/alerts/:alertId/read", d.Alert.MarkRead, herdRoles)
	ranch.POST("/alerts/read", d.Alert.MarkReadBulk, herdRoles)
}
