package waitlist

import (
	"context"
)

//go:generate mockgen -source=events.go -destination=mock_events.go -package=waitlist

const SubscriberCreatedRoutingKey = "waitlist.subscriber.created"

type EventPublisher interface {
	PublishSubscriberCreated(ctx context.Context, event SubscriberCreatedEvent) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSubscriberCreated(context.Context, SubscriberCreatedEvent) error {
	return nil
}

// JSONPublisher is satisfied by *mq.Publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type brokerPublisher struct {
	publisher JSONPublisher
}

func NewBrokerPublisher(publisher JSONPublisher) EventPublisher {
	return &brokerPublisher{publisher: publisher}
}

func (p *brokerPublisher) PublishSubscriberCreated(ctx context.Context, event SubscriberCreatedEvent) error {
	return p.publisher.PublishJSON(ctx, SubscriberCreatedRoutingKey, event)
}
