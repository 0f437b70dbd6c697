package ports

import (
	"context"
	"time"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

// EventSink consumes the append-only transcript stream. Write-only
// from the engine's perspective; listing exists for the replay and
// transcript surfaces.
type EventSink interface {
	Append(ctx context.Context, events []game.Event) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]game.Event, error)
}

// SessionRecord is the stored lifecycle row for one session.
type SessionRecord struct {
	SessionID string
	Scenario  game.Scenario
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   string
	Rounds    int
}

// SessionRepository persists session open/close bookkeeping.
type SessionRepository interface {
	Open(ctx context.Context, record SessionRecord) error
	Close(ctx context.Context, sessionID, outcome string, rounds int, endedAt time.Time) error
	Get(ctx context.Context, sessionID string) (SessionRecord, error)
}
