package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/swipefolio/landing-api/internal/log"
	pkgredis "github.com/swipefolio/landing-api/pkg/redis"
)

type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// CacheConfig points at the Redis instance shared by the subscriber cache and the rate limiters.
type CacheConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

func LoadCacheConfig() (*CacheConfig, error) {
	var c CacheConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load cache config: %w", err)
	}
	return &c, nil
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

func (cc *CacheConfig) NewCache() (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
	})
	if err != nil {
		return nil, err
	}
	return cache, nil
}

// NewCacheOrNil treats Redis as optional: without it the service runs on in-memory limiters and uncached reads.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("REDIS_HOST not set; running without Redis")
		return nil
	}

	cache, err := cc.NewCache()
	if err != nil {
		logger.Warn("Failed to connect to Redis; continuing without it", "error", err, "host", cc.Host)
		return nil
	}

	logger.Info("Redis connected", "host", cc.Host, "port", cc.Port)
	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
