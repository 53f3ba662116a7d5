package monitoring

import (
	"github.com/swipefolio/landing-api/config/router"
	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/pkg/factory"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db             *gorm.DB
	logger         *log.Logger
	cache          Cache
	queue          MessageQueue
	limiterFactory factory.RateLimiterFactory
}

// NewMonitoringControllerFactory accepts nil cache and queue; both then report 0 in /health.
func NewMonitoringControllerFactory(
	db *gorm.DB,
	logger *log.Logger,
	cache Cache,
	queue MessageQueue,
	limiterFactory factory.RateLimiterFactory,
) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:             db,
		logger:         logger,
		cache:          cache,
		queue:          queue,
		limiterFactory: limiterFactory,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.queue, f.limiterFactory)
}
