package model

import "time"

// SessionEvent is one transcript row. ID is the append order within
// the table; replay relies on it, not on occurred_at, since multiple
// events can share a timestamp inside one adjudication step.
type SessionEvent struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	SessionID  string `gorm:"index"`
	Round      int
	Type       string
	OccurredAt time.Time
	Payload    []byte `gorm:"type:jsonb"`
}

type GameSession struct {
	SessionID string `gorm:"primaryKey"`
	Scenario  []byte `gorm:"type:jsonb"`
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   string
	Rounds    int
}
