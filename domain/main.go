package domain

import (
	"time"

	"github.com/swipefolio/landing-api/config"
	"github.com/swipefolio/landing-api/domain/monitoring"
	"github.com/swipefolio/landing-api/domain/privacy"
	"github.com/swipefolio/landing-api/domain/waitlist"
	"github.com/swipefolio/landing-api/pkg/auth"
	"github.com/swipefolio/landing-api/pkg/factory"
	"github.com/swipefolio/landing-api/pkg/lrucache"
)

const (
	defaultSignupRateLimit  = 30
	defaultSignupRateWindow = time.Minute
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	factories := factory.NewFactoryContainer(appConfig.Cache, appConfig.Logger)

	var queue monitoring.MessageQueue
	var publisher waitlist.EventPublisher = waitlist.NoopPublisher{}
	if appConfig.Publisher != nil {
		queue = appConfig.Publisher
		publisher = waitlist.NewBrokerPublisher(appConfig.Publisher)
	}

	var cache waitlist.Cache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	} else if appConfig.Waitlist != nil && appConfig.Waitlist.CacheTTL > 0 {
		local, err := lrucache.New(appConfig.Waitlist.LocalCacheSize)
		if err != nil {
			appConfig.Logger.Warn("Failed to create in-process waitlist cache", "error", err)
		} else {
			appConfig.Logger.Info("Redis not configured; caching subscribers in process", "size", appConfig.Waitlist.LocalCacheSize)
			cache = local
		}
	}

	waitlistFactoryConfig := waitlist.FactoryConfig{
		Cache:              cache,
		Publisher:          publisher,
		Metrics:            appConfig.RouterService.MetricsRegisterer(),
		TokenIssuer:        auth.NewTokenIssuer(""),
		RateLimiterFactory: factories.RateLimiterFactory,
		SignupRateLimit:    defaultSignupRateLimit,
		SignupRateWindow:   defaultSignupRateWindow,
	}
	if wc := appConfig.Waitlist; wc != nil {
		waitlistFactoryConfig.CacheTTL = wc.CacheTTL
		waitlistFactoryConfig.TokenIssuer = auth.NewTokenIssuer(wc.AdminJWTSecret)
		waitlistFactoryConfig.SignupRateLimit = wc.SignupRateLimit
		waitlistFactoryConfig.SignupRateWindow = wc.SignupRateWindow
	}

	if !waitlistFactoryConfig.TokenIssuer.Configured() {
		appConfig.Logger.Warn("ADMIN_JWT_SECRET not set; GET /api/waitlist will reject every request")
	}

	var monitoringCache monitoring.Cache
	if appConfig.Cache != nil {
		monitoringCache = appConfig.Cache
	}

	appConfig.RouterService.MountController(
		monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, monitoringCache, queue, factories.RateLimiterFactory).CreateController(),
	)
	appConfig.RouterService.MountController(
		waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, waitlistFactoryConfig).CreateController(),
	)
	appConfig.RouterService.MountController(privacy.NewPrivacyController())
}
