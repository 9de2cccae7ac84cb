package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/events"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/ariesone/dme-billing-engine/internal/pubsub"
	pubsubmemory "github.com/ariesone/dme-billing-engine/internal/pubsub/memory"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DisabledClient_ConsumesWithoutError(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Webhook.Enabled = false

	bus := pubsubmemory.NewPubSub()
	defer bus.Close()

	client, err := NewClient(cfg)
	require.NoError(t, err)

	log, err := logger.New()
	require.NoError(t, err)

	d := NewDispatcher(bus, client, cfg, log)
	require.NoError(t, d.Start(context.Background()))
	defer d.Close()

	pub := pubsub.NewEventPublisher(bus, log)
	require.NoError(t, pub.Publish(context.Background(), events.NameOrderLineAdvanced, events.OrderLineAdvanced{OrderLineID: "ol-1", BillingMonth: 2}))

	time.Sleep(50 * time.Millisecond)
}
