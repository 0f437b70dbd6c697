// Package services provides the single shared access point through
// which agents reach the mechanics engine, the action validator, and
// the knowledge lookup. Exactly one instance exists per session and it
// is injected into every agent constructor; agents never hold private
// back-references to the engine.
package services

import (
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// Mechanics is the resolution surface exposed to the Director. It
// wraps the pure functions in mech with the session roller so every
// resolution draws from one deterministic dice stream.
type Mechanics struct {
	roller mech.Roller
}

func (m *Mechanics) Resolve(attribute, skill, difficulty int, kind mech.CheckKind) mech.Resolution {
	return mech.Resolve(attribute, skill, difficulty, kind, m.roller)
}

func (m *Mechanics) ResolveMorale(willpower, threshold int) mech.Resolution {
	return mech.ResolveMorale(willpower, threshold, m.roller)
}

// Knowledge is the lore/document lookup collaborator. The engine only
// needs the seam; retrieval itself is out of scope.
type Knowledge interface {
	Lookup(topic string) (string, bool)
}

// StaticKnowledge serves lookups from a fixed table.
type StaticKnowledge map[string]string

func (k StaticKnowledge) Lookup(topic string) (string, bool) {
	v, ok := k[topic]
	return v, ok
}

// Services is the per-session context object.
type Services struct {
	mechanics *Mechanics
	validator *Validator
	knowledge Knowledge
}

func New(roller mech.Roller, knowledge Knowledge) *Services {
	if knowledge == nil {
		knowledge = StaticKnowledge{}
	}
	return &Services{
		mechanics: &Mechanics{roller: roller},
		validator: NewValidator(),
		knowledge: knowledge,
	}
}

func (s *Services) Mechanics() *Mechanics { return s.mechanics }
func (s *Services) Validator() *Validator { return s.validator }
func (s *Services) Knowledge() Knowledge  { return s.knowledge }
