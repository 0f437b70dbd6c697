package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func turnRequest(t *testing.T) game.Message {
	t.Helper()
	msg, err := game.NewMessage("orchestrator", game.TopicPhase, game.TurnRequestPayload{Round: 1, Phase: "DECLARATION"})
	require.NoError(t, err)
	return msg
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New(zap.NewNop())
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		b.Subscribe(game.TopicPhase, func(game.Message) error {
			order = append(order, name)
			return nil
		})
	}
	b.Publish(game.TopicPhase, turnRequest(t))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestHandlerErrorDoesNotAbortDelivery(t *testing.T) {
	b := New(zap.NewNop())
	var reached bool
	b.Subscribe(game.TopicPhase, func(game.Message) error {
		return errors.New("agent handler blew up")
	})
	b.Subscribe(game.TopicPhase, func(game.Message) error {
		reached = true
		return nil
	})
	b.Publish(game.TopicPhase, turnRequest(t))
	assert.True(t, reached, "second subscriber must still receive the message")
}

func TestHandlerPanicIsIsolated(t *testing.T) {
	b := New(zap.NewNop())
	var reached bool
	b.Subscribe(game.TopicPhase, func(game.Message) error {
		panic("boom")
	})
	b.Subscribe(game.TopicPhase, func(game.Message) error {
		reached = true
		return nil
	})
	require.NotPanics(t, func() {
		b.Publish(game.TopicPhase, turnRequest(t))
	})
	assert.True(t, reached)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(zap.NewNop())
	var count int
	sub := b.Subscribe(game.TopicPhase, func(game.Message) error {
		count++
		return nil
	})
	b.Publish(game.TopicPhase, turnRequest(t))
	b.Unsubscribe(sub)
	b.Publish(game.TopicPhase, turnRequest(t))
	assert.Equal(t, 1, count)
}

func TestSequenceNumbersAreMonotonic(t *testing.T) {
	b := New(zap.NewNop())
	var seqs []uint64
	b.Subscribe(game.TopicPhase, func(m game.Message) error {
		seqs = append(seqs, m.Sequence)
		return nil
	})
	for i := 0; i < 5; i++ {
		b.Publish(game.TopicPhase, turnRequest(t))
	}
	require.Len(t, seqs, 5)
	for i := 1; i < len(seqs); i++ {
		assert.Greater(t, seqs[i], seqs[i-1])
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New(zap.NewNop())
	var phase, decl int
	b.Subscribe(game.TopicPhase, func(game.Message) error { phase++; return nil })
	b.Subscribe(game.TopicDeclaration, func(game.Message) error { decl++; return nil })
	b.Publish(game.TopicPhase, turnRequest(t))
	assert.Equal(t, 1, phase)
	assert.Equal(t, 0, decl)
}

func TestSubscribeDuringDeliveryTakesEffectNextPublish(t *testing.T) {
	b := New(zap.NewNop())
	var late int
	b.Subscribe(game.TopicPhase, func(game.Message) error {
		if late == 0 {
			b.Subscribe(game.TopicPhase, func(game.Message) error {
				late++
				return nil
			})
		}
		return nil
	})
	b.Publish(game.TopicPhase, turnRequest(t))
	assert.Equal(t, 0, late, "late subscriber must not see the in-flight message")
	b.Publish(game.TopicPhase, turnRequest(t))
	assert.Equal(t, 1, late)
}
