package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSub_PublishThenSubscribe_DeliversMessage(t *testing.T) {
	bus := NewPubSub()
	defer bus.Close()

	ctx := context.Background()
	msgs, err := bus.Subscribe(ctx, "test-topic")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "test-topic", message.NewMessage("id-1", []byte("payload"))))

	select {
	case msg := <-msgs:
		assert.Equal(t, "payload", string(msg.Payload))
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}
