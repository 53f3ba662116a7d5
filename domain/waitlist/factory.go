package waitlist

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/swipefolio/landing-api/config/router"
	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/pkg/auth"
	"github.com/swipefolio/landing-api/pkg/factory"
	"github.com/swipefolio/landing-api/pkg/ratelimit"
	"gorm.io/gorm"
)

const signupRateLimitKeyPrefix = "waitlist:signup:"

// FactoryConfig carries the optional collaborators of the waitlist domain. Zero values disable them.
type FactoryConfig struct {
	Cache              Cache
	CacheTTL           time.Duration
	Publisher          EventPublisher
	Metrics            prometheus.Registerer
	TokenIssuer        *auth.TokenIssuer
	RateLimiterFactory factory.RateLimiterFactory
	SignupRateLimit    int
	SignupRateWindow   time.Duration
}

type WaitlistServiceFactory interface {
	CreateRepository() SubscriberRepository
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
	config FactoryConfig
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, config FactoryConfig) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:     db,
		logger: logger,
		config: config,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateRepository() SubscriberRepository {
	return NewCachedRepository(NewSubscriberRepository(f.db), f.config.Cache, f.config.CacheTTL, f.logger)
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	return NewWaitlistService(f.logger, f.CreateRepository(), f.config.Publisher, NewMetrics(f.config.Metrics))
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService(), f.config.TokenIssuer, f.signupLimiter())
}

func (f *DefaultWaitlistServiceFactory) signupLimiter() ratelimit.RateLimiter {
	if f.config.SignupRateLimit <= 0 || f.config.SignupRateWindow <= 0 {
		return nil
	}

	if f.config.RateLimiterFactory == nil {
		return ratelimit.NewInMemoryRateLimiter(f.config.SignupRateLimit, f.config.SignupRateWindow)
	}
	return f.config.RateLimiterFactory.CreateRateLimiter(signupRateLimitKeyPrefix, f.config.SignupRateLimit, f.config.SignupRateWindow)
}
