package game

import "time"

// Scenario describes one session setup.
type Scenario struct {
	Name           string   `json:"name"`
	Theme          string   `json:"theme,omitempty"`
	Seed           int64    `json:"seed"`
	MaxRounds      int      `json:"max_rounds"`
	SpawnFrequency int      `json:"spawn_frequency,omitempty"`
	GroupEnemies   bool     `json:"group_enemies"`
	FreeTargeting  bool     `json:"free_targeting"`
	ClockNames     []string `json:"clock_names,omitempty"`
}

// InterrogationState tracks what has happened to a prisoner since
// capture.
type InterrogationState string

const (
	InterrogationNone       InterrogationState = "none"
	InterrogationQuestioned InterrogationState = "questioned"
	InterrogationBroken     InterrogationState = "broken"
)

// CaptureMethod records how a combatant ended up a prisoner.
type CaptureMethod string

const (
	CaptureSurrender    CaptureMethod = "surrender"
	CaptureDeescalation CaptureMethod = "social_deescalation"
	CaptureSubdued      CaptureMethod = "subdued"
)

// Prisoner wraps a captured combatant. Prisoners are never
// auto-destroyed; they persist for the rest of the session.
type Prisoner struct {
	CharacterID   string             `json:"character_id"`
	CapturedBy    string             `json:"captured_by,omitempty"`
	Method        CaptureMethod      `json:"method"`
	Interrogation InterrogationState `json:"interrogation"`
	CapturedAt    time.Time          `json:"captured_at"`
	Round         int                `json:"round"`
}
