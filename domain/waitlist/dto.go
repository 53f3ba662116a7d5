package waitlist

import (
	"time"

	"github.com/swipefolio/landing-api/internal/models"
)

// SignupRequest is the raw POST /api/waitlist body. Unknown fields are dropped by the decoder.
type SignupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ValidatedSignup is a signup that passed ValidateSignup. Email is normalized and names are nil when absent.
type ValidatedSignup struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
}

type SubscriberResponse struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	CreatedAt string  `json:"createdAt"`
}

// SubscriberCreatedEvent is published once per fresh signup.
type SubscriberCreatedEvent struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// ========================================
// Mappers
// ========================================

func ToSubscriberModel(signup *ValidatedSignup) *models.WaitlistSubscriber {
	if signup == nil {
		return nil
	}
	return &models.WaitlistSubscriber{
		Email:     signup.Email,
		FirstName: signup.FirstName,
		LastName:  signup.LastName,
	}
}

func ToSubscriberResponse(subscriber *models.WaitlistSubscriber) SubscriberResponse {
	if subscriber == nil {
		return SubscriberResponse{}
	}
	return SubscriberResponse{
		ID:        subscriber.ID,
		Email:     subscriber.Email,
		FirstName: subscriber.FirstName,
		LastName:  subscriber.LastName,
		CreatedAt: subscriber.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToSubscriberCreatedEvent(subscriber *models.WaitlistSubscriber) SubscriberCreatedEvent {
	return SubscriberCreatedEvent{
		ID:        subscriber.ID,
		Email:     subscriber.Email,
		CreatedAt: subscriber.CreatedAt.UTC().Format(time.RFC3339),
	}
}
