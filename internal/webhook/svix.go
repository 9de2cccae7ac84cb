// Package webhook fans out the domain events published on
// internal/pubsub as signed outbound webhooks (svix) to the external
// inventory/serial-asset system (SPEC_FULL.md §4.I). Delivery is
// fire-and-forget: failures are logged and never block the billing
// transaction that originated the event.
package webhook

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ariesone/dme-billing-engine/internal/config"
	svix "github.com/svix/svix-webhooks/go"
	"github.com/svix/svix-webhooks/go/models"
)

// Client wraps the Svix SDK, disabled (no-op) when cfg.Webhook.Enabled
// is false so callers never need to branch on configuration.
type Client struct {
	client  *svix.Svix
	enabled bool
}

func NewClient(cfg *config.Configuration) (*Client, error) {
	if !cfg.Webhook.Enabled {
		return &Client{enabled: false}, nil
	}

	serverURL, err := url.Parse(cfg.Webhook.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook base url: %w", err)
	}

	c, err := svix.New(cfg.Webhook.AuthToken, &svix.SvixOptions{ServerUrl: serverURL})
	if err != nil {
		return nil, fmt.Errorf("create svix client: %w", err)
	}

	return &Client{client: c, enabled: true}, nil
}

// Send dispatches one signed message of eventType to applicationID.
func (c *Client) Send(ctx context.Context, applicationID, eventType string, payload map[string]interface{}) error {
	if !c.enabled {
		return nil
	}

	_, err := c.client.Message.Create(ctx, applicationID, models.MessageIn{
		EventType: eventType,
		Payload:   payload,
	}, &svix.MessageCreateOptions{})
	if err != nil {
		return fmt.Errorf("send svix message: %w", err)
	}
	return nil
}
