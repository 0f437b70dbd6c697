// Package replay rebuilds a session timeline from the transcript. The
// transcript is the source of truth; nothing here touches live engine
// state.
package replay

import (
	"context"
	"errors"
	"strings"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type Request struct {
	SessionID string
	Limit     int
	RoundFrom int
	RoundTo   int
}

// Summary is the aggregate state reconstructed from a transcript walk.
type Summary struct {
	SessionID       string         `json:"session_id"`
	Outcome         string         `json:"outcome,omitempty"`
	Rounds          int            `json:"rounds"`
	ActionsResolved int            `json:"actions_resolved"`
	ActionsSkipped  int            `json:"actions_skipped"`
	ByTier          map[string]int `json:"by_tier"`
	MoraleBroken    int            `json:"morale_broken"`
	ClocksFired     []string       `json:"clocks_fired"`
	EnemiesDefeated []string       `json:"enemies_defeated"`
	PrisonersTaken  []string       `json:"prisoners_taken"`
}

type Response struct {
	Events  []game.Event `json:"events"`
	Summary Summary      `json:"summary"`
}

type UseCase struct {
	Events ports.EventSink
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListBySession(ctx, req.SessionID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByRoundWindow(events, req.RoundFrom, req.RoundTo)
	if len(events) == 0 {
		return Response{}, ports.ErrNotFound
	}
	summary := reconstruct(events)
	summary.SessionID = req.SessionID
	return Response{Events: events, Summary: summary}, nil
}

func filterByRoundWindow(events []game.Event, from, to int) []game.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]game.Event, 0, len(events))
	for _, evt := range events {
		if from > 0 && evt.Round < from {
			continue
		}
		if to > 0 && evt.Round > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func reconstruct(events []game.Event) Summary {
	s := Summary{ByTier: map[string]int{}}
	for _, evt := range events {
		if evt.Round > s.Rounds {
			s.Rounds = evt.Round
		}
		switch evt.Type {
		case game.EventSessionEnded:
			if outcome, ok := evt.Payload["outcome"].(string); ok {
				s.Outcome = outcome
			}
		case game.EventActionResolved:
			s.ActionsResolved++
			if tier, ok := evt.Payload["tier"].(string); ok {
				s.ByTier[tier]++
			}
		case game.EventActionSkipped:
			s.ActionsSkipped++
		case game.EventMoraleCheck:
			if held, ok := evt.Payload["held"].(bool); ok && !held {
				s.MoraleBroken++
			}
		case game.EventClockFired:
			if name, ok := evt.Payload["clock"].(string); ok {
				s.ClocksFired = append(s.ClocksFired, name)
			}
		case game.EventEnemyDefeated:
			if id, ok := evt.Payload["character_id"].(string); ok {
				s.EnemiesDefeated = append(s.EnemiesDefeated, id)
			}
		case game.EventPrisonerTaken:
			if id, ok := evt.Payload["character_id"].(string); ok {
				s.PrisonersTaken = append(s.PrisonersTaken, id)
			}
		}
	}
	return s
}
