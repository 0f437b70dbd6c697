package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// MessageKind enumerates the wire vocabulary of the session bus.
type MessageKind string

const (
	KindScenarioSetup      MessageKind = "SCENARIO_SETUP"
	KindTurnRequest        MessageKind = "TURN_REQUEST"
	KindActionDeclared     MessageKind = "ACTION_DECLARED"
	KindActionResolved     MessageKind = "ACTION_RESOLVED"
	KindRoundSynthesis     MessageKind = "ROUND_SYNTHESIS"
	KindCharacterUpdate    MessageKind = "CHARACTER_UPDATE"
	KindEnemySpawned       MessageKind = "ENEMY_SPAWNED"
	KindEnemyDefeated      MessageKind = "ENEMY_DEFEATED"
	KindMoraleCheck        MessageKind = "MORALE_CHECK"
	KindSocialDeescalation MessageKind = "SOCIAL_DEESCALATION"
)

// Topic keys bus subscriptions.
type Topic string

const (
	TopicPhase       Topic = "session.phase"
	TopicDeclaration Topic = "session.declarations"
	TopicResolution  Topic = "session.resolutions"
	TopicRoster      Topic = "session.roster"
)

var ErrUnknownMessageKind = errors.New("unknown message kind")

// Payload is the tagged-union contract: one variant per message kind,
// checked at construction so an untyped map never crosses the bus.
type Payload interface {
	Kind() MessageKind
}

type ScenarioSetupPayload struct {
	Scenario Scenario `json:"scenario"`
}

func (ScenarioSetupPayload) Kind() MessageKind { return KindScenarioSetup }

type TurnRequestPayload struct {
	Round int    `json:"round"`
	Phase string `json:"phase"`
	View  *View  `json:"view,omitempty"`
}

func (TurnRequestPayload) Kind() MessageKind { return KindTurnRequest }

type ActionDeclaredPayload struct {
	Round       int               `json:"round"`
	Declaration ActionDeclaration `json:"declaration"`
}

func (ActionDeclaredPayload) Kind() MessageKind { return KindActionDeclared }

type ActionResolvedPayload struct {
	Round      int              `json:"round"`
	Resolution ActionResolution `json:"resolution"`
}

func (ActionResolvedPayload) Kind() MessageKind { return KindActionResolved }

type RoundSynthesisPayload struct {
	Round       int      `json:"round"`
	Summary     string   `json:"summary"`
	FiredClocks []string `json:"fired_clocks,omitempty"`
}

func (RoundSynthesisPayload) Kind() MessageKind { return KindRoundSynthesis }

type CharacterUpdatePayload struct {
	Character Character `json:"character"`
}

func (CharacterUpdatePayload) Kind() MessageKind { return KindCharacterUpdate }

type EnemySpawnedPayload struct {
	Character Character `json:"character"`
	GroupID   string    `json:"group_id,omitempty"`
}

func (EnemySpawnedPayload) Kind() MessageKind { return KindEnemySpawned }

type EnemyDefeatedPayload struct {
	CharacterID string `json:"character_id"`
	Cause       string `json:"cause,omitempty"`
}

func (EnemyDefeatedPayload) Kind() MessageKind { return KindEnemyDefeated }

type MoraleCheckPayload struct {
	CharacterID string          `json:"character_id"`
	Trigger     string          `json:"trigger"`
	Result      mech.Resolution `json:"result"`
	NewStatus   CombatStatus    `json:"new_status"`
}

func (MoraleCheckPayload) Kind() MessageKind { return KindMoraleCheck }

type SocialDeescalationPayload struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Method   string `json:"method,omitempty"`
}

func (SocialDeescalationPayload) Kind() MessageKind { return KindSocialDeescalation }

// Message is the immutable bus envelope. Sequence is assigned by the
// bus at publish time and is strictly monotonic per session.
type Message struct {
	ID       string      `json:"id"`
	Kind     MessageKind `json:"kind"`
	SenderID string      `json:"sender_id"`
	Topic    Topic       `json:"topic"`
	Payload  Payload     `json:"payload"`
	Sequence uint64      `json:"sequence"`
}

// NewMessage builds a validated envelope. The payload variant fixes
// the kind; a nil payload or blank sender is rejected.
func NewMessage(senderID string, topic Topic, payload Payload) (Message, error) {
	if payload == nil {
		return Message{}, fmt.Errorf("%w: nil payload", ErrUnknownMessageKind)
	}
	if senderID == "" {
		return Message{}, errors.New("message requires a sender id")
	}
	if topic == "" {
		return Message{}, errors.New("message requires a topic")
	}
	return Message{
		ID:       uuid.NewString(),
		Kind:     payload.Kind(),
		SenderID: senderID,
		Topic:    topic,
		Payload:  payload,
	}, nil
}
