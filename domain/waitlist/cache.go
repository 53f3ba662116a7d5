package waitlist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/internal/models"
)

const subscriberCacheKeyPrefix = "waitlist:subscriber:"

type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// cachedRepository serves FindByEmail hits from the cache. Subscribers are never
// updated, so an entry can only expire, never go stale. Misses are not cached.
type cachedRepository struct {
	next   SubscriberRepository
	cache  Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedRepository wraps next with a read-through cache. A nil cache returns next unchanged.
func NewCachedRepository(next SubscriberRepository, cache Cache, ttl time.Duration, logger *log.Logger) SubscriberRepository {
	if cache == nil || ttl <= 0 {
		return next
	}
	return &cachedRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func subscriberCacheKey(email string) string {
	return subscriberCacheKeyPrefix + email
}

func (r *cachedRepository) FindByEmail(ctx context.Context, email string) (*models.WaitlistSubscriber, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, r.logger)

	if cached := r.load(ctx, logger, email); cached != nil {
		return cached, nil
	}

	subscriber, err := r.next.FindByEmail(ctx, email)
	if err != nil || subscriber == nil {
		return subscriber, err
	}

	r.store(ctx, logger, subscriber)
	return subscriber, nil
}

func (r *cachedRepository) Create(ctx context.Context, subscriber *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
	if subscriber != nil {
		if cached := r.load(ctx, log.GetLoggerInstanceFromContext(ctx, r.logger), subscriber.Email); cached != nil {
			return cached, false, nil
		}
	}

	result, created, err := r.next.Create(ctx, subscriber)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, log.GetLoggerInstanceFromContext(ctx, r.logger), result)
	return result, created, nil
}

func (r *cachedRepository) List(ctx context.Context) ([]*models.WaitlistSubscriber, error) {
	return r.next.List(ctx)
}

func (r *cachedRepository) load(ctx context.Context, logger *log.Logger, email string) *models.WaitlistSubscriber {
	raw, err := r.cache.Get(ctx, subscriberCacheKey(email))
	if err != nil {
		logger.Warn("Waitlist cache read failed; falling back to database", "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	var subscriber models.WaitlistSubscriber
	if err := json.Unmarshal([]byte(raw), &subscriber); err != nil {
		logger.Warn("Discarding undecodable waitlist cache entry", "error", err)
		return nil
	}
	return &subscriber
}

func (r *cachedRepository) store(ctx context.Context, logger *log.Logger, subscriber *models.WaitlistSubscriber) {
	payload, err := json.Marshal(subscriber)
	if err != nil {
		logger.Warn("Failed to encode waitlist subscriber for cache", "error", err)
		return
	}

	if err := r.cache.Set(ctx, subscriberCacheKey(subscriber.Email), string(payload), r.ttl); err != nil {
		logger.Warn("Waitlist cache write failed", "error", err)
	}
}
