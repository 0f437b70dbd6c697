// Package memory provides in-process implementations of the transcript
// sink and session repository, used by tests and by sessions run
// without a database.
package memory

import (
	"sync"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

type Store struct {
	mu       sync.RWMutex
	events   map[string][]game.Event
	sessions map[string]ports.SessionRecord
}

func NewStore() *Store {
	return &Store{
		events:   make(map[string][]game.Event),
		sessions: make(map[string]ports.SessionRecord),
	}
}
