// Package memory implements pubsub.PubSub with watermill's in-process
// gochannel — the entire transport this engine needs, since the
// consuming webhook dispatcher runs in the same process (SPEC_FULL.md
// §4.I: "publish is synchronous and in-memory").
package memory

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/ariesone/dme-billing-engine/internal/pubsub"
)

// PubSub wraps a gochannel.GoChannel.
type PubSub struct {
	ch *gochannel.GoChannel
}

// NewPubSub builds an in-process event bus. Persistent keeps a
// late-subscribing webhook dispatcher from losing events published
// before it subscribed; BlockPublishUntilSubscriberAck is false so a
// slow/absent subscriber never stalls the billing transaction that
// published the event.
func NewPubSub() pubsub.PubSub {
	return &PubSub{
		ch: gochannel.NewGoChannel(
			gochannel.Config{
				Persistent:                     true,
				BlockPublishUntilSubscriberAck: false,
				OutputChannelBuffer:             100,
			},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (p *PubSub) Publish(_ context.Context, topic string, msg *message.Message) error {
	return p.ch.Publish(topic, msg)
}

func (p *PubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.ch.Subscribe(ctx, topic)
}

func (p *PubSub) Close() error {
	return p.ch.Close()
}
