package memory

import (
	"context"
	"time"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
)

type SessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) SessionRepo {
	return SessionRepo{store: store}
}

func (r SessionRepo) Open(_ context.Context, record ports.SessionRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.sessions[record.SessionID]; exists {
		return ports.ErrConflict
	}
	r.store.sessions[record.SessionID] = record
	return nil
}

func (r SessionRepo) Close(_ context.Context, sessionID, outcome string, rounds int, endedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record, ok := r.store.sessions[sessionID]
	if !ok {
		return ports.ErrNotFound
	}
	record.Outcome = outcome
	record.Rounds = rounds
	record.EndedAt = &endedAt
	r.store.sessions[sessionID] = record
	return nil
}

func (r SessionRepo) Get(_ context.Context, sessionID string) (ports.SessionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.sessions[sessionID]
	if !ok {
		return ports.SessionRecord{}, ports.ErrNotFound
	}
	return record, nil
}
