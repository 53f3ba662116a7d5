package waitlist

import (
	"context"
	"errors"

	"github.com/swipefolio/landing-api/internal/models"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

type SubscriberRepository interface {
	// FindByEmail returns nil, nil when no subscriber has the normalized email.
	FindByEmail(ctx context.Context, email string) (*models.WaitlistSubscriber, error)
	// Create inserts subscriber unless its email already exists. The bool is true only for a fresh insert;
	// otherwise the existing row is returned unchanged.
	Create(ctx context.Context, subscriber *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error)
	// List returns every subscriber in insertion order.
	List(ctx context.Context) ([]*models.WaitlistSubscriber, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) FindByEmail(ctx context.Context, email string) (*models.WaitlistSubscriber, error) {
	var subscriber models.WaitlistSubscriber

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&subscriber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewStorageError("failed to fetch waitlist subscriber", err)
	}

	return &subscriber, nil
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
	if subscriber == nil {
		return nil, false, apperrors.NewInvalidRequestError("subscriber cannot be nil", nil)
	}

	existing, err := r.FindByEmail(ctx, subscriber.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	return r.insertOrFetch(ctx, subscriber)
}

// insertOrFetch relies on the unique index: a concurrent insert that wins the race
// makes ours fail, and the winner's row is returned instead.
func (r *subscriberRepository) insertOrFetch(ctx context.Context, subscriber *models.WaitlistSubscriber) (*models.WaitlistSubscriber, bool, error) {
	row := *subscriber
	row.ID = 0

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if !isDuplicateKey(err) {
			return nil, false, NewStorageError("unable to create waitlist subscriber", err)
		}

		existing, findErr := r.FindByEmail(ctx, subscriber.Email)
		if findErr != nil {
			return nil, false, findErr
		}
		if existing == nil {
			return nil, false, NewStorageError("waitlist subscriber vanished after duplicate insert", err)
		}
		return existing, false, nil
	}

	return &row, true, nil
}

func (r *subscriberRepository) List(ctx context.Context) ([]*models.WaitlistSubscriber, error) {
	subscribers := make([]*models.WaitlistSubscriber, 0)

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subscribers).Error; err != nil {
		return nil, NewStorageError("unable to fetch waitlist subscribers", err)
	}

	return subscribers, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
