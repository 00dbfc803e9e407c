package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOne(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestBrokerDeliversToSubscriber(t *testing.T) {
	broker := NewBroker(watermill.NopLogger{})
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, broker.Publish([]byte(`{"session_id":"s1"}`)))

	msg := receiveOne(t, messages)
	assert.JSONEq(t, `{"session_id":"s1"}`, string(msg.Payload))
}

func TestBrokerFansOutToAllSubscribers(t *testing.T) {
	broker := NewBroker(watermill.NopLogger{})
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	second, err := broker.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, broker.Publish([]byte("snapshot")))

	assert.Equal(t, "snapshot", string(receiveOne(t, first).Payload))
	assert.Equal(t, "snapshot", string(receiveOne(t, second).Payload))
}
