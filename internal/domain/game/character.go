// Package game holds the shared session data model: characters, action
// declarations and resolutions, enemy groups, prisoners, scenario
// descriptors, bus messages, and transcript events. The structs here
// are owned by the Director; every other agent sees read-only copies
// broadcast over the bus.
package game

import (
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// RangeBand is the abstract positioning state substituting for spatial
// simulation.
type RangeBand string

const (
	RangeEngaged RangeBand = "engaged"
	RangeNear    RangeBand = "near"
	RangeFar     RangeBand = "far"
)

// Closer returns the next band toward engagement.
func (r RangeBand) Closer() RangeBand {
	switch r {
	case RangeFar:
		return RangeNear
	default:
		return RangeEngaged
	}
}

// Farther returns the next band away from engagement.
func (r RangeBand) Farther() RangeBand {
	switch r {
	case RangeEngaged:
		return RangeNear
	default:
		return RangeFar
	}
}

// CombatStatus is the combatant state machine tag.
type CombatStatus string

const (
	StatusActive      CombatStatus = "active"
	StatusRetreating  CombatStatus = "retreating"
	StatusSurrendered CombatStatus = "surrendered"
	StatusDefeated    CombatStatus = "defeated"
	StatusRemoved     CombatStatus = "removed"
)

// Faction separates player characters from opposition for targeting.
type Faction string

const (
	FactionPlayers Faction = "players"
	FactionEnemies Faction = "enemies"
	FactionNeutral Faction = "neutral"
)

// PersonalityTag drives the morale-failure transition for enemies.
type PersonalityTag string

const (
	PersonalityFightToDeath      PersonalityTag = "fight_to_death"
	PersonalityFleeWhenBroken    PersonalityTag = "flee_when_broken"
	PersonalitySurrenderCornered PersonalityTag = "surrender_if_cornered"
)

// Character is the authoritative sheet for one combatant. Single
// writer: only the Director mutates it, and only through the mechanics
// engine.
type Character struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Faction     Faction        `json:"faction"`
	Attributes  map[string]int `json:"attributes"`
	Skills      map[string]int `json:"skills"`
	Health      int            `json:"health"`
	MaxHealth   int            `json:"max_health"`
	Fatigue     int            `json:"fatigue"`
	Stun        int            `json:"stun"`
	Wounds      int            `json:"wounds"`
	Soak        int            `json:"soak"`
	Corruption  int            `json:"corruption"`
	Reputation  int            `json:"reputation"`
	Range       RangeBand      `json:"range"`
	Status      CombatStatus   `json:"status"`
	Personality PersonalityTag `json:"personality,omitempty"`
	Willpower   int            `json:"willpower"`
}

// Attribute returns a named attribute score, defaulting to 1 so a
// missing entry never zeroes out a whole check.
func (c *Character) Attribute(name string) int {
	if v, ok := c.Attributes[name]; ok {
		return v
	}
	return 1
}

// Skill returns a named skill score. Unskilled checks roll at 1.
func (c *Character) Skill(name string) int {
	if v, ok := c.Skills[name]; ok {
		return v
	}
	return 1
}

// Out reports whether the character no longer acts in rounds.
func (c *Character) Out() bool {
	switch c.Status {
	case StatusDefeated, StatusSurrendered, StatusRemoved:
		return true
	}
	return false
}

// WoundPenalty returns the standardized penalty band for the worse of
// the two damage tracks.
func (c *Character) WoundPenalty() mech.PenaltyLevel {
	stun := mech.PenaltyForCount(c.Stun)
	wound := mech.PenaltyForCount(c.Wounds)
	if wound > stun {
		return wound
	}
	return stun
}

// BreakMorale applies a failed morale check according to the
// personality tag. retreatBlocked matters only for cornered
// surrender. It returns the resulting status, which may be unchanged
// for fight_to_death.
func (c *Character) BreakMorale(retreatBlocked bool) CombatStatus {
	if c.Status != StatusActive {
		return c.Status
	}
	switch c.Personality {
	case PersonalityFightToDeath:
		// Holds no matter what.
	case PersonalitySurrenderCornered:
		if retreatBlocked {
			c.Status = StatusSurrendered
		} else {
			c.Status = StatusRetreating
		}
	default: // flee_when_broken and untagged
		c.Status = StatusRetreating
	}
	return c.Status
}
