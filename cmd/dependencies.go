package cmd

import (
	"context"
	"fmt"
	"time"

	"trading-alerts/config"
	"trading-alerts/pkg/cache"
	"trading-alerts/pkg/keylock"
	"trading-alerts/pkg/logger"
	"trading-alerts/pkg/middleware"
	"trading-alerts/pkg/postgres"
	"trading-alerts/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	location  *time.Location
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	locks     *keylock.KeyLock
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	location, err := utils.LoadLocation(cfg.Ledger.TimeZone)
	if err != nil {
		log.Error("Invalid ledger time zone", zap.Error(err), zap.String("time_zone", cfg.Ledger.TimeZone))
		return nil, fmt.Errorf("invalid ledger time zone: %w", err)
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.NewRateLimiterMiddleware(cfg.API))

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		location:  location,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		locks:     keylock.New(),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer d.log.Sync()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
