package game

import (
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// ActionDeclaration is one agent's stated intent for the round. It is
// produced during DECLARATION and consumed exactly once during
// ADJUDICATION.
type ActionDeclaration struct {
	ActorID    string         `json:"actor_id"`
	Intent     string         `json:"intent"`
	Attribute  string         `json:"attribute"`
	Skill      string         `json:"skill"`
	Difficulty int            `json:"difficulty"`
	TargetID   string         `json:"target_id,omitempty"`
	Kind       mech.CheckKind `json:"kind"`
	Maneuver   Maneuver       `json:"maneuver,omitempty"`
	// SocialPressure marks a de-escalation attempt: on success the
	// target faces a morale check instead of damage.
	SocialPressure bool `json:"social_pressure,omitempty"`
	// PredictedTier is auxiliary data from the declaring agent and
	// never affects resolution.
	PredictedTier *mech.Tier `json:"predicted_tier,omitempty"`
}

// Maneuver is the positioning component of a declaration.
type Maneuver string

const (
	ManeuverHold    Maneuver = "hold"
	ManeuverClose   Maneuver = "close"
	ManeuverRetreat Maneuver = "retreat"
)

// EffectKind tags one applied (or explicitly absent) mechanical effect.
type EffectKind string

const (
	EffectDamage       EffectKind = "damage"
	EffectClockAdvance EffectKind = "clock_advance"
	EffectClockRegress EffectKind = "clock_regress"
	EffectCorruption   EffectKind = "corruption"
	EffectReputation   EffectKind = "reputation"
	EffectNoEffect     EffectKind = "no_effect"
	EffectManeuver     EffectKind = "maneuver"
)

// Effect records one state mutation applied by a resolution. A soaked
// hit that changes nothing is recorded as EffectNoEffect rather than
// dropped.
type Effect struct {
	Kind     EffectKind `json:"kind"`
	TargetID string     `json:"target_id,omitempty"`
	Clock    string     `json:"clock,omitempty"`
	Amount   int        `json:"amount,omitempty"`
	Detail   string     `json:"detail,omitempty"`
}

// ActionResolution is the immutable result record for one declaration.
type ActionResolution struct {
	Declaration ActionDeclaration `json:"declaration"`
	Result      mech.Resolution   `json:"result"`
	Effects     []Effect          `json:"effects"`
	Narration   string            `json:"narration,omitempty"`
	// Skipped marks an all-or-nothing abort: the narration boundary
	// failed before any state mutation, so none was applied.
	Skipped bool `json:"skipped,omitempty"`
}
