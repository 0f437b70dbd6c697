package services

import (
	"errors"
	"fmt"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// ErrValidation tags malformed or duplicate declarations. The agent is
// asked to redeclare or is skipped for the round; nothing fatal.
var ErrValidation = errors.New("invalid action declaration")

// Validator checks declarations as they arrive during the DECLARATION
// phase. It keeps a per-round seen set so an actor cannot declare
// twice; the orchestrator resets it at round start.
type Validator struct {
	seen map[string]bool
}

func NewValidator() *Validator {
	return &Validator{seen: make(map[string]bool)}
}

// BeginRound clears the duplicate-tracking state.
func (v *Validator) BeginRound() {
	v.seen = make(map[string]bool)
}

// Check validates one declaration and records the actor as having
// declared. All failures wrap ErrValidation.
func (v *Validator) Check(decl game.ActionDeclaration) error {
	if decl.ActorID == "" {
		return fmt.Errorf("%w: missing actor id", ErrValidation)
	}
	if decl.Intent == "" {
		return fmt.Errorf("%w: empty intent", ErrValidation)
	}
	if decl.Attribute == "" || decl.Skill == "" {
		return fmt.Errorf("%w: declaration must name attribute and skill", ErrValidation)
	}
	if decl.Difficulty <= 0 {
		return fmt.Errorf("%w: difficulty must be positive", ErrValidation)
	}
	if decl.Kind != mech.CheckStandard && decl.Kind != mech.CheckRitual {
		return fmt.Errorf("%w: unknown check kind %q", ErrValidation, decl.Kind)
	}
	if v.seen[decl.ActorID] {
		return fmt.Errorf("%w: duplicate declaration from %s", ErrValidation, decl.ActorID)
	}
	v.seen[decl.ActorID] = true
	return nil
}
