package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/pkg/mq"
)

// WaitlistConfig holds the settings owned by the waitlist domain.
type WaitlistConfig struct {
	AdminJWTSecret   string        `envconfig:"ADMIN_JWT_SECRET"`
	CacheTTL         time.Duration `envconfig:"WAITLIST_CACHE_TTL" default:"10m"`
	LocalCacheSize   int           `envconfig:"WAITLIST_LOCAL_CACHE_SIZE" default:"4096"`
	SignupRateLimit  int           `envconfig:"WAITLIST_SIGNUP_RATE_LIMIT" default:"30"`
	SignupRateWindow time.Duration `envconfig:"WAITLIST_SIGNUP_RATE_WINDOW" default:"1m"`
	AMQPURL          string        `envconfig:"AMQP_URL"`
	AMQPExchange     string        `envconfig:"AMQP_EXCHANGE" default:"swipefolio.events"`
}

func LoadWaitlistConfig() (*WaitlistConfig, error) {
	var c WaitlistConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load waitlist config: %w", err)
	}

	if c.SignupRateLimit <= 0 {
		return nil, fmt.Errorf("WAITLIST_SIGNUP_RATE_LIMIT must be positive, got %d", c.SignupRateLimit)
	}
	if c.SignupRateWindow <= 0 {
		return nil, fmt.Errorf("WAITLIST_SIGNUP_RATE_WINDOW must be positive, got %s", c.SignupRateWindow)
	}
	if c.CacheTTL < 0 {
		return nil, fmt.Errorf("WAITLIST_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}

	if c.LocalCacheSize < 0 {
		return nil, fmt.Errorf("WAITLIST_LOCAL_CACHE_SIZE must not be negative, got %d", c.LocalCacheSize)
	}

	return &c, nil
}

// NewEventPublisherOrNil connects to the broker when AMQP_URL is set. Broker problems never block startup.
func NewEventPublisherOrNil(cfg *WaitlistConfig, logger *log.Logger) *mq.Publisher {
	if cfg == nil || cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set; waitlist events will not be published")
		return nil
	}

	publisher, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Error("Failed to connect to message broker; continuing without events", "error", err)
		return nil
	}

	logger.Info("Message broker connected", "exchange", cfg.AMQPExchange)
	return publisher
}

func ClosePublisher(publisher *mq.Publisher, logger *log.Logger) {
	if publisher == nil {
		return
	}

	if err := publisher.Close(); err != nil {
		logger.Error("Failed to close message broker connection", "error", err)
		return
	}

	logger.Info("Message broker connection closed")
}
