package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/events"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/ariesone/dme-billing-engine/internal/pubsub"
)

// application is the single svix application this engine dispatches
// to; there is exactly one external inventory/serial-asset subscriber,
// not a per-tenant routing table.
const application = "dme-billing-engine"

// Dispatcher subscribes to events.Topic and forwards every message to
// svix as a signed outbound webhook.
type Dispatcher struct {
	bus        pubsub.PubSub
	client     *Client
	maxRetries int
	logger     *logger.Logger
	cancel     context.CancelFunc
}

func NewDispatcher(bus pubsub.PubSub, client *Client, cfg *config.Configuration, log *logger.Logger) *Dispatcher {
	return &Dispatcher{bus: bus, client: client, maxRetries: cfg.Webhook.MaxRetries, logger: log}
}

// Start subscribes to the domain event topic and processes messages in
// a background goroutine until ctx is cancelled or Close is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	messages, err := d.bus.Subscribe(ctx, events.Topic)
	if err != nil {
		cancel()
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				d.dispatch(ctx, msg)
				msg.Ack()
			}
		}
	}()
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, msg *message.Message) {
	eventName := msg.Metadata.Get("event_name")

	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		d.logger.WithContext(ctx).Errorw("failed to unmarshal domain event", "event_name", eventName, "error", err)
		return
	}

	if err := d.sendWithRetry(ctx, eventName, payload); err != nil {
		d.logger.WithContext(ctx).Errorw("failed to dispatch webhook", "event_name", eventName, "error", err)
	}
}

// sendWithRetry retries a failed delivery with exponential backoff, up
// to maxRetries attempts, the same shape as
// internal/postgres.RetryOnVersionConflict but bounded by cfg.Webhook's
// own retry count rather than a fixed elapsed-time ceiling: a webhook
// send has no version conflict to distinguish from a permanent
// failure, so every error is worth retrying until the budget runs out.
func (d *Dispatcher) sendWithRetry(ctx context.Context, eventName string, payload map[string]interface{}) error {
	if d.maxRetries <= 0 {
		return d.client.Send(ctx, application, eventName, payload)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	policy := backoff.WithMaxRetries(bo, uint64(d.maxRetries))

	attempt := 0
	op := func() error {
		attempt++
		err := d.client.Send(ctx, application, eventName, payload)
		if err != nil {
			d.logger.WithContext(ctx).Debugw("retrying webhook delivery", "event_name", eventName, "attempt", attempt, "error", err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}

func (d *Dispatcher) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return nil
}
