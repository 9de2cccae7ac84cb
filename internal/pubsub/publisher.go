package pubsub

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ariesone/dme-billing-engine/internal/events"
	"github.com/ariesone/dme-billing-engine/internal/logger"
)

// EventPublisher marshals a domain event and publishes it to the shared
// events.Topic, tagging the message with the event's name so
// subscribers can dispatch on it without decoding the body first.
type EventPublisher struct {
	bus    PubSub
	logger *logger.Logger
}

func NewEventPublisher(bus PubSub, log *logger.Logger) *EventPublisher {
	return &EventPublisher{bus: bus, logger: log}
}

// Publish marshals payload as JSON and publishes it under eventName.
func (p *EventPublisher) Publish(ctx context.Context, eventName string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("event_name", eventName)

	if err := p.bus.Publish(ctx, events.Topic, msg); err != nil {
		p.logger.WithContext(ctx).Errorw("failed to publish domain event", "event_name", eventName, "error", err)
		return err
	}
	return nil
}
