package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/internal/models"
	"github.com/swipefolio/landing-api/pkg/circuitbreaker"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
	"github.com/swipefolio/landing-api/pkg/retry"
	"go.uber.org/mock/gomock"
)

type serviceFixture struct {
	repo      *MockSubscriberRepository
	publisher *MockEventPublisher
	metrics   *Metrics
	service   *waitlistService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := NewMockSubscriberRepository(ctrl)
	publisher := NewMockEventPublisher(ctrl)
	metrics := NewMetrics(prometheus.NewRegistry())
	logger := log.NewLoggerWithJSONOutput()

	svc := NewWaitlistService(logger, repo, publisher, metrics).(*waitlistService)
	svc.retrier = retry.NewExponentialBackoff(&retry.Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Multiplier:  1,
		Retryable: func(err error) bool {
			return IsStorageError(err) && retry.IsTransient(err)
		},
	})

	return &serviceFixture{repo: repo, publisher: publisher, metrics: metrics, service: svc}
}

func strPtr(s string) *string { return &s }

func counterValue(t *testing.T, m *Metrics, outcome string) float64 {
	t.Helper()

	var metric dto.Metric
	require.NoError(t, m.signups.WithLabelValues(outcome).Write(&metric))
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()

	var metric dto.Metric
	require.NoError(t, g.Write(&metric))
	return metric.GetGauge().GetValue()
}

func TestSubscribe_NewSubscriber(t *testing.T) {
	f := newServiceFixture(t)
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
			assert.Equal(t, "ada@example.com", s.Email)
			require.NotNil(t, s.FirstName)
			assert.Equal(t, "Ada", *s.FirstName)
			assert.Nil(t, s.LastName)

			s.ID = 1
			s.CreatedAt = createdAt
			return s, true, nil
		},
	)
	f.publisher.EXPECT().PublishSubscriberCreated(gomock.Any(), SubscriberCreatedEvent{
		ID:        1,
		Email:     "ada@example.com",
		CreatedAt: "2026-03-01T12:00:00Z",
	}).Return(nil)

	result, created, err := f.service.Subscribe(context.Background(), &SignupRequest{
		Email:     "  Ada@Example.COM ",
		FirstName: " Ada ",
		LastName:  "   ",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(1), result.ID)
	assert.Equal(t, "ada@example.com", result.Email)
	assert.Equal(t, "2026-03-01T12:00:00Z", result.CreatedAt)
	assert.Nil(t, result.LastName)
	assert.Equal(t, float64(1), counterValue(t, f.metrics, outcomeCreated))
}

func TestSubscribe_ExistingSubscriberDoesNotPublish(t *testing.T) {
	f := newServiceFixture(t)

	existing := &models.WaitlistSubscriber{
		ID:        7,
		Email:     "ada@example.com",
		FirstName: strPtr("Ada"),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(existing, false, nil)

	result, created, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "ada@example.com", FirstName: "Someone Else"})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(7), result.ID)
	assert.Equal(t, "Ada", *result.FirstName)
	assert.Equal(t, float64(1), counterValue(t, f.metrics, outcomeExisting))
}

func TestSubscribe_InvalidEmailNeverReachesStore(t *testing.T) {
	f := newServiceFixture(t)

	result, created, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "not-an-email"})

	assert.Nil(t, result)
	assert.False(t, created)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "email", validationErr.Fields[0].Field)
	assert.Equal(t, float64(1), counterValue(t, f.metrics, outcomeInvalid))
}

func TestSubscribe_NilRequest(t *testing.T) {
	f := newServiceFixture(t)

	_, _, err := f.service.Subscribe(context.Background(), nil)
	assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
}

func TestSubscribe_StorageErrorIsNotRetriedWhenPermanent(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, false, NewStorageError("unable to create waitlist subscriber", errors.New("syntax error"))).
		Times(1)

	result, _, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})

	assert.Nil(t, result)
	assert.True(t, IsStorageError(err))
	assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
	assert.Equal(t, apperrors.GenericErrorMessage, apperrors.PublicMessage(err))
	assert.Equal(t, float64(1), counterValue(t, f.metrics, outcomeError))
}

func TestSubscribe_TransientStorageErrorIsRetried(t *testing.T) {
	f := newServiceFixture(t)

	gomock.InOrder(
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, false, NewStorageError("unable to create waitlist subscriber", errors.New("dial tcp: connection refused"))),
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
				s.ID = 3
				s.CreatedAt = time.Now()
				return s, true, nil
			}),
	)
	f.publisher.EXPECT().PublishSubscriberCreated(gomock.Any(), gomock.Any()).Return(nil)

	result, created, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(3), result.ID)
}

func TestSubscribe_RetryFindingOwnCommittedRowCountsAsCreated(t *testing.T) {
	f := newServiceFixture(t)

	gomock.InOrder(
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, false, NewStorageError("unable to create waitlist subscriber", errors.New("read: connection reset by peer"))),
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
				s.ID = 4
				s.CreatedAt = time.Now()
				return s, false, nil
			}),
	)
	f.publisher.EXPECT().PublishSubscriberCreated(gomock.Any(), gomock.Any()).Return(nil)

	result, created, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(4), result.ID)
	assert.Equal(t, float64(1), counterValue(t, f.metrics, outcomeCreated))
}

func TestSubscribe_RetryFindingOlderRowStaysExisting(t *testing.T) {
	f := newServiceFixture(t)

	existing := &models.WaitlistSubscriber{ID: 5, Email: "a@b.com", CreatedAt: time.Now().Add(-time.Hour)}
	gomock.InOrder(
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, false, NewStorageError("unable to look up waitlist subscriber", errors.New("dial tcp: connection refused"))),
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(existing, false, nil),
	)

	_, created, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, float64(1), counterValue(t, f.metrics, outcomeExisting))
}

func TestSubscribe_PublishFailureDoesNotFailSignup(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
			s.ID = 9
			s.CreatedAt = time.Now()
			return s, true, nil
		},
	)
	f.publisher.EXPECT().PublishSubscriberCreated(gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))

	result, created, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(9), result.ID)
}

func TestSubscribe_OpenCircuitSurfacesAsStorageError(t *testing.T) {
	f := newServiceFixture(t)
	f.service.breaker = circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
		SuccessThreshold: 1,
		IsFailure:        IsStorageError,
		OnStateChange:    f.service.onCircuitChange,
	})

	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, false, NewStorageError("unable to create waitlist subscriber", errors.New("disk full"))).
		Times(1)

	_, _, err := f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})
	require.True(t, IsStorageError(err))
	assert.Equal(t, circuitbreaker.Open, f.service.breaker.State())
	assert.Equal(t, float64(circuitbreaker.Open), gaugeValue(t, f.metrics.circuitState))

	_, _, err = f.service.Subscribe(context.Background(), &SignupRequest{Email: "a@b.com"})
	require.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}

func TestFindByEmail_NormalizesAndMaps(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(&models.WaitlistSubscriber{
		ID:        4,
		Email:     "ada@example.com",
		CreatedAt: time.Now(),
	}, nil)

	result, err := f.service.FindByEmail(context.Background(), " ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(4), result.ID)
}

func TestFindByEmail_NotFound(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	result, err := f.service.FindByEmail(context.Background(), "ghost@example.com")
	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetErrorType(err))
}

func TestFindByEmail_Empty(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.FindByEmail(context.Background(), "   ")
	assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
}

func TestListSubscribers(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().List(gomock.Any()).Return([]*models.WaitlistSubscriber{
		{ID: 1, Email: "a@b.com", CreatedAt: time.Now()},
		{ID: 2, Email: "c@d.com", CreatedAt: time.Now()},
	}, nil)

	result, err := f.service.ListSubscribers(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "a@b.com", result[0].Email)
	assert.Equal(t, "c@d.com", result[1].Email)
}

func TestListSubscribers_EmptyIsNotNil(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().List(gomock.Any()).Return([]*models.WaitlistSubscriber{}, nil)

	result, err := f.service.ListSubscribers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestNewMetrics_ReusesRegisteredCounter(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewMetrics(reg)
	second := NewMetrics(reg)

	first.observe(outcomeCreated)
	second.observe(outcomeCreated)

	assert.Equal(t, float64(2), counterValue(t, first, outcomeCreated))
}
