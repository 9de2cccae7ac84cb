// Package pubsub defines the in-process domain event bus
// (SPEC_FULL.md §4.I) every billing state transition publishes to and
// internal/webhook subscribes from.
package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher publishes messages onto a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Close() error
}

// Subscriber consumes messages from a topic.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// PubSub combines both directions; the memory package is the only
// implementation this engine ships (no durable broker is in scope).
type PubSub interface {
	Publisher
	Subscriber
}
