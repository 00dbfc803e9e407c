// Package realtime is the in-process publish/subscribe layer behind the
// proposal snapshot stream. It is best-effort and non-durable: subscriptions
// live only as long as the process, and it is never a source of truth.
package realtime

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const snapshotTopic = "proposal.snapshots"

// Broker wraps a watermill gochannel bus scoped to proposal snapshots.
type Broker struct {
	pubSub *gochannel.GoChannel
}

func NewBroker(logger watermill.LoggerAdapter) *Broker {
	return &Broker{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

// Publish fans a snapshot payload out to all current subscribers.
func (b *Broker) Publish(payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubSub.Publish(snapshotTopic, msg)
}

// Subscribe returns a channel of snapshots. The subscription ends when ctx
// is cancelled.
func (b *Broker) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, snapshotTopic)
}

func (b *Broker) Close() error {
	return b.pubSub.Close()
}
