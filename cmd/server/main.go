package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/database"
	"github.com/smartruga/livestock-api/internal/handler"
	"github.com/smartruga/livestock-api/internal/logs"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/queue"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/router"
	"github.com/smartruga/livestock-api/internal/service"
	"github.com/smartruga/livestock-api/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logs.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logs.Logger.WithError(err).Fatal("database open failed")
	}
	if err := database.Migrate(db); err != nil {
		logs.Logger.WithError(err).Fatal("database migration failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logs.Logger.Warn("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	ranches := repository.NewRanchRepo(db)
	members := repository.NewMemberRepo(db)
	invites := repository.NewInviteRepo(db)
	species := repository.NewSpeciesRepo(db)
	animals := repository.NewAnimalRepo(db)
	healthEvents := repository.NewHealthEventRepo(db)
	activity := repository.NewActivityRepo(db)
	alerts := repository.NewAlertRepo(db)

	if err := bootstrapSuperAdmin(cfg, users); err != nil {
		logs.Logger.WithError(err).Fatal("super admin bootstrap failed")
	}

	alertSvc := service.NewAlertService(alerts)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, router.Deps{
		Cfg:     cfg,
		Redis:   rdb,
		Users:   users,
		Ranches: ranches,
		Members: members,

		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Admin:    handler.NewAdminHandler(users),
		Ranch:    handler.NewRanchHandler(ranches, members),
		Invite:   handler.NewInviteHandler(cfg, invites, members, users),
		Animal:   handler.NewAnimalHandler(cfg, animals, species, alertSvc),
		Health:   handler.NewHealthEventHandler(animals, healthEvents, alertSvc),
		Activity: handler.NewActivityHandler(animals, activity),
		Alert:    handler.NewAlertHandler(alerts),
		QR:       handler.NewQRHandler(cfg, animals),
		Species:  handler.NewSpeciesHandler(species),
	})

	go queue.StartAlertConsumer()

	addr := ":" + cfg.Port
	logs.Logger.WithField("env", cfg.Env).Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		logs.Logger.WithError(err).Fatal("server stopped")
	}
}

// bootstrapSuperAdmin ensures one super admin account exists when the
// environment provides credentials and none is present yet.
func bootstrapSuperAdmin(cfg config.Config, users *repository.UserRepo) error {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := users.HasSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := utils.HashPassword(cfg.SuperAdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, cfg.SuperAdminEmail, hash, nil, nil, model.PlatformRoleSuperAdmin)
	if errors.Is(err, repository.ErrEmailExists) {
		return nil
	}
	if err == nil {
		logs.Logger.WithField("email", cfg.SuperAdminEmail).Info("super admin bootstrapped")
	}
	return err
}
