package config

import (
	"context"
	"time"

	"github.com/swipefolio/landing-api/config/router"
	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/internal/models"
	"github.com/swipefolio/landing-api/pkg/mq"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	HTTP            *HTTPConfig
	Waitlist        *WaitlistConfig
	Publisher       *mq.Publisher
	TracingShutdown func(context.Context) error
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ClosePublisher(ac.Publisher, ac.Logger)

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	httpConfig, err := LoadHTTPConfig()
	if err != nil {
		return nil, err
	}

	waitlistConfig, err := LoadWaitlistConfig()
	if err != nil {
		return nil, err
	}

	tracingConfig, err := LoadTracingConfig()
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger, tracingConfig)
	if err != nil {
		return nil, err
	}

	dbConfig, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}
	db, err := NewDatabase(logger, dbConfig)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	cacheConfig, err := LoadCacheConfig()
	if err != nil {
		return nil, err
	}
	cache := cacheConfig.NewCacheOrNil(logger)
	publisher := NewEventPublisherOrNil(waitlistConfig, logger)

	routerService := router.CreateRouterService(logger, cache, httpConfig.RouterConfig(GetAppEnv(), tracingConfig.RouterServiceName()))

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		HTTP:            httpConfig,
		Waitlist:        waitlistConfig,
		Publisher:       publisher,
		TracingShutdown: tracingShutdown,
	}, nil
}
