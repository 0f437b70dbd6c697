// Package agent implements the session participants: the Director
// (sole adjudicator and owner of authoritative state), Player agents
// driven by goal/personality weights, tactical Enemy agents, and the
// EnemyGroup composite that fronts a squad as one agent.
package agent

import (
	"context"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

// Agent is the common capability set. Variants stay polymorphic over
// this interface; there is no deeper hierarchy.
type Agent interface {
	ID() string
	Name() string
	// DeclareAction produces at most one declaration for the round.
	// A nil declaration with nil error means the agent passes.
	DeclareAction(ctx context.Context, view *game.View) (*game.ActionDeclaration, error)
	// OnMessage receives every bus broadcast the agent subscribed to.
	OnMessage(msg game.Message) error
}
