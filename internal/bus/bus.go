// Package bus provides the in-process, topic-keyed publish/subscribe
// transport connecting session agents. Delivery is synchronous and
// ordered; there is no persistence, replay, or backpressure.
package bus

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

// Handler consumes one delivered message. A returned error (or a
// panic) is logged by the bus and never aborts delivery to later
// subscribers.
type Handler func(game.Message) error

// Subscription identifies one registered handler for Unsubscribe.
type Subscription struct {
	topic game.Topic
	id    uint64
}

type entry struct {
	id      uint64
	handler Handler
}

// Bus is the session message transport. One instance per session.
type Bus struct {
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[game.Topic][]entry
	nextID uint64

	seq atomic.Uint64
}

func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger: logger.Named("bus"),
		subs:   make(map[game.Topic][]entry),
	}
}

// Subscribe registers a handler for a topic. Handlers are invoked in
// subscription order.
func (b *Bus) Subscribe(topic game.Topic, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[topic] = append(b.subs[topic], entry{id: b.nextID, handler: h})
	return Subscription{topic: topic, id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.subs[sub.topic]
	for i, e := range entries {
		if e.id == sub.id {
			b.subs[sub.topic] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Publish stamps the message with the next sequence number and
// delivers it to every current subscriber of the topic before
// returning. Handler failures are isolated: logged, then delivery
// continues.
func (b *Bus) Publish(topic game.Topic, msg game.Message) game.Message {
	msg.Topic = topic
	msg.Sequence = b.seq.Add(1)

	b.mu.Lock()
	entries := make([]entry, len(b.subs[topic]))
	copy(entries, b.subs[topic])
	b.mu.Unlock()

	for _, e := range entries {
		b.deliver(e, msg)
	}
	return msg
}

func (b *Bus) deliver(e entry, msg game.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("topic", string(msg.Topic)),
				zap.String("kind", string(msg.Kind)),
				zap.Uint64("seq", msg.Sequence),
				zap.Error(fmt.Errorf("panic: %v", r)))
		}
	}()
	if err := e.handler(msg); err != nil {
		b.logger.Warn("handler failed",
			zap.String("topic", string(msg.Topic)),
			zap.String("kind", string(msg.Kind)),
			zap.Uint64("seq", msg.Sequence),
			zap.Error(err))
	}
}
