package memory

import (
	"context"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

type EventSink struct {
	store *Store
}

func NewEventSink(store *Store) EventSink {
	return EventSink{store: store}
}

func (s EventSink) Append(_ context.Context, events []game.Event) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, e := range events {
		s.store.events[e.SessionID] = append(s.store.events[e.SessionID], e)
	}
	return nil
}

func (s EventSink) ListBySession(_ context.Context, sessionID string, limit int) ([]game.Event, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	events := s.store.events[sessionID]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	out := make([]game.Event, len(events))
	copy(out, events)
	return out, nil
}
