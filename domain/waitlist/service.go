package waitlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/internal/models"
	"github.com/swipefolio/landing-api/pkg/circuitbreaker"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
	"github.com/swipefolio/landing-api/pkg/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const publishTimeout = 3 * time.Second

type WaitlistService interface {
	// Subscribe validates req and adds it to the waitlist. The bool is false when the
	// email was already subscribed, in which case the existing record is returned.
	Subscribe(ctx context.Context, req *SignupRequest) (*SubscriberResponse, bool, error)

	// FindByEmail looks up a subscriber by normalized email.
	FindByEmail(ctx context.Context, email string) (*SubscriberResponse, error)

	// ListSubscribers returns all subscribers in signup order.
	ListSubscribers(ctx context.Context) ([]SubscriberResponse, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository SubscriberRepository
	publisher  EventPublisher
	metrics    *Metrics
	breaker    circuitbreaker.CircuitBreaker
	retrier    retry.RetryPolicy
	tracer     trace.Tracer
}

func NewWaitlistService(logger *log.Logger, repository SubscriberRepository, publisher EventPublisher, metrics *Metrics) WaitlistService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}

	s := &waitlistService{
		logger:     logger,
		repository: repository,
		publisher:  publisher,
		metrics:    metrics,
		retrier: retry.NewExponentialBackoff(&retry.Config{
			MaxAttempts: 3,
			BaseDelay:   50 * time.Millisecond,
			MaxDelay:    time.Second,
			Multiplier:  2.0,
			Retryable: func(err error) bool {
				return IsStorageError(err) && retry.IsTransient(err)
			},
		}),
		tracer: otel.Tracer("waitlist"),
	}
	s.breaker = circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 2,
		IsFailure:        IsStorageError,
		OnStateChange:    s.onCircuitChange,
	})
	return s
}

func (s *waitlistService) onCircuitChange(from, to circuitbreaker.CircuitState) {
	s.metrics.setCircuitState(to)

	if to == circuitbreaker.Open {
		s.logger.Warn("Subscriber store circuit opened; failing fast", "from", from.String())
		return
	}
	s.logger.Info("Subscriber store circuit state changed", "from", from.String(), "to", to.String())
}

func (s *waitlistService) Subscribe(ctx context.Context, req *SignupRequest) (*SubscriberResponse, bool, error) {
	ctx, span := s.tracer.Start(ctx, "waitlist.Subscribe")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Subscribe received nil request")
		s.metrics.observe(outcomeInvalid)
		return nil, false, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	signup, err := ValidateSignup(req)
	if err != nil {
		logger.Info("Rejected waitlist signup", "error", err)
		s.metrics.observe(outcomeInvalid)
		span.SetStatus(codes.Error, "validation failed")
		return nil, false, apperrors.NewInvalidRequestError(err.Error(), err)
	}

	span.SetAttributes(attribute.String("waitlist.email_domain", emailDomain(signup.Email)))

	var (
		subscriber   *models.WaitlistSubscriber
		created      bool
		failedBefore bool
	)
	started := time.Now()
	err = s.guard(ctx, func(ctx context.Context) error {
		var createErr error
		subscriber, created, createErr = s.repository.Create(ctx, ToSubscriberModel(signup))
		if createErr != nil {
			failedBefore = true
		}
		return createErr
	})
	if err != nil {
		logger.Error("Failed to create waitlist subscriber", "error", err)
		s.metrics.observe(outcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		return nil, false, err
	}

	if !created && failedBefore && committedDuring(subscriber, started) {
		// An attempt reported failure after its insert committed; the retry found our own row.
		logger.Warn("Signup committed by an attempt that reported failure", "id", subscriber.ID)
		created = true
	}

	span.SetAttributes(attribute.Bool("waitlist.created", created))

	if created {
		s.metrics.observe(outcomeCreated)
		logger.Info("Waitlist subscriber created", "id", subscriber.ID)
		s.publishCreated(ctx, logger, subscriber)
	} else {
		s.metrics.observe(outcomeExisting)
		logger.Info("Waitlist signup for existing subscriber", "id", subscriber.ID)
	}

	response := ToSubscriberResponse(subscriber)
	return &response, created, nil
}

func (s *waitlistService) FindByEmail(ctx context.Context, email string) (*SubscriberResponse, error) {
	ctx, span := s.tracer.Start(ctx, "waitlist.FindByEmail")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	normalized := NormalizeEmail(email)
	if normalized == "" {
		logger.Error("FindByEmail received empty email")
		return nil, apperrors.NewInvalidRequestError("email cannot be empty", nil)
	}

	var subscriber *models.WaitlistSubscriber
	err := s.guard(ctx, func(ctx context.Context) error {
		var findErr error
		subscriber, findErr = s.repository.FindByEmail(ctx, normalized)
		return findErr
	})
	if err != nil {
		logger.Error("Failed to find waitlist subscriber", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		return nil, err
	}

	if subscriber == nil {
		return nil, apperrors.NewNotFoundError("waitlist subscriber not found", nil)
	}

	response := ToSubscriberResponse(subscriber)
	return &response, nil
}

func (s *waitlistService) ListSubscribers(ctx context.Context) ([]SubscriberResponse, error) {
	ctx, span := s.tracer.Start(ctx, "waitlist.ListSubscribers")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	var subscribers []*models.WaitlistSubscriber
	err := s.guard(ctx, func(ctx context.Context) error {
		var listErr error
		subscribers, listErr = s.repository.List(ctx)
		return listErr
	})
	if err != nil {
		logger.Error("Failed to list waitlist subscribers", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		return nil, err
	}

	responses := make([]SubscriberResponse, 0, len(subscribers))
	for _, subscriber := range subscribers {
		responses = append(responses, ToSubscriberResponse(subscriber))
	}

	span.SetAttributes(attribute.Int("waitlist.count", len(responses)))
	return responses, nil
}

// guard runs a store call behind the circuit breaker, retrying transient storage failures.
func (s *waitlistService) guard(ctx context.Context, fn func(context.Context) error) error {
	err := s.retrier.Execute(ctx, func(ctx context.Context) error {
		return s.breaker.Call(func() error {
			return fn(ctx)
		})
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return NewStorageError("subscriber store is temporarily unavailable", err)
	}
	return err
}

// publishCreated never fails the signup; the row is already committed.
func (s *waitlistService) publishCreated(ctx context.Context, logger *log.Logger, subscriber *models.WaitlistSubscriber) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishSubscriberCreated(pubCtx, ToSubscriberCreatedEvent(subscriber)); err != nil {
		logger.Error("Failed to publish waitlist event", "id", subscriber.ID, "error", err)
	}
}

func committedDuring(subscriber *models.WaitlistSubscriber, started time.Time) bool {
	return subscriber != nil && !subscriber.CreatedAt.Before(started)
}

func emailDomain(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		return email[at+1:]
	}
	return ""
}
