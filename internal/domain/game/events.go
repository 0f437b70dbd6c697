package game

import "time"

// Event is one structured transcript record. The sink consumes an
// append-only stream of these; payloads stay JSON-friendly.
type Event struct {
	Type       string         `json:"type"`
	SessionID  string         `json:"session_id"`
	Round      int            `json:"round"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventSessionStarted     = "session_started"
	EventSessionEnded       = "session_ended"
	EventRoundStarted       = "round_started"
	EventRoundSynthesis     = "round_synthesis"
	EventActionDeclared     = "action_declared"
	EventActionResolved     = "action_resolved"
	EventActionSkipped      = "action_skipped"
	EventNoEffect           = "no_effect"
	EventMoraleCheck        = "morale_check"
	EventSocialDeescalation = "social_deescalation"
	EventClockFired         = "clock_fired"
	EventEnemySpawned       = "enemy_spawned"
	EventEnemyDefeated      = "enemy_defeated"
	EventPrisonerTaken      = "prisoner_taken"
	EventFormatError        = "format_error"
)

func NewEvent(eventType, sessionID string, round int, now time.Time, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		Type:       eventType,
		SessionID:  sessionID,
		Round:      round,
		OccurredAt: now,
		Payload:    payload,
	}
}
