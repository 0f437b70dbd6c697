package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

// PlayerWeights are the static goal/personality knobs driving a player
// agent's declarations.
type PlayerWeights struct {
	Aggression float64 `json:"aggression"`
	Caution    float64 `json:"caution"`
	Mysticism  float64 `json:"mysticism"`
	Diplomacy  float64 `json:"diplomacy"`
}

// Player declares one action per round from its character sheet and
// weights. It holds no authoritative state; its view of the session is
// whatever the Director last broadcast.
type Player struct {
	id      string
	name    string
	sheet   game.Character
	weights PlayerWeights
	svcs    *services.Services
	goal    string

	mu       sync.Mutex
	lastSeen map[string]game.Character
}

func NewPlayer(sheet game.Character, weights PlayerWeights, goal string, svcs *services.Services) *Player {
	return &Player{
		id:       sheet.ID,
		name:     sheet.Name,
		sheet:    sheet,
		weights:  weights,
		svcs:     svcs,
		goal:     goal,
		lastSeen: make(map[string]game.Character),
	}
}

func (p *Player) ID() string   { return p.id }
func (p *Player) Name() string { return p.name }

// OnMessage refreshes the player's read-only picture of the session.
func (p *Player) OnMessage(msg game.Message) error {
	switch payload := msg.Payload.(type) {
	case game.CharacterUpdatePayload:
		p.mu.Lock()
		p.lastSeen[payload.Character.ID] = payload.Character
		if payload.Character.ID == p.id {
			p.sheet = payload.Character
		}
		p.mu.Unlock()
	case game.EnemySpawnedPayload:
		p.mu.Lock()
		p.lastSeen[payload.Character.ID] = payload.Character
		p.mu.Unlock()
	}
	return nil
}

// DeclareAction picks the weighted-best action for the round and
// attaches a self prediction. The prediction is auxiliary only and
// never reaches the resolver's arithmetic.
func (p *Player) DeclareAction(_ context.Context, view *game.View) (*game.ActionDeclaration, error) {
	if view == nil {
		return nil, fmt.Errorf("player %s: nil view", p.id)
	}
	if view.Self.Status != game.StatusActive {
		return nil, nil
	}

	hostiles := view.Hostiles(p.sheet.Faction)
	decl := p.chooseAction(view, hostiles)

	predicted := mech.PredictTier(
		p.sheet.Attribute(decl.Attribute),
		p.sheet.Skill(decl.Skill),
		decl.Difficulty,
		decl.Kind,
	)
	decl.PredictedTier = &predicted
	return decl, nil
}

func (p *Player) chooseAction(view *game.View, hostiles []game.CombatantView) *game.ActionDeclaration {
	// Ritual work wins when mysticism dominates and a clock is open.
	if p.weights.Mysticism > p.weights.Aggression {
		if clock := openClock(view.Clocks); clock != "" {
			return &game.ActionDeclaration{
				ActorID:    p.id,
				Intent:     fmt.Sprintf("channel the rite toward %s", clock),
				Attribute:  "willpower",
				Skill:      "astral arts",
				Difficulty: 22,
				Kind:       mech.CheckRitual,
				Maneuver:   game.ManeuverHold,
			}
		}
	}

	if len(hostiles) == 0 {
		return &game.ActionDeclaration{
			ActorID:    p.id,
			Intent:     "sweep the area and regroup",
			Attribute:  "perception",
			Skill:      "awareness",
			Difficulty: 15,
			Kind:       mech.CheckStandard,
			Maneuver:   game.ManeuverHold,
		}
	}

	target := weakest(hostiles)
	if p.weights.Diplomacy > p.weights.Aggression {
		return &game.ActionDeclaration{
			ActorID:        p.id,
			Intent:         fmt.Sprintf("talk %s into standing down", target.Name),
			Attribute:      "empathy",
			Skill:          "persuasion",
			Difficulty:     18,
			Kind:           mech.CheckStandard,
			TargetID:       target.ID,
			Maneuver:       game.ManeuverHold,
			SocialPressure: true,
		}
	}

	maneuver := game.ManeuverHold
	attribute, skill := "perception", "guns"
	if view.Self.Range == game.RangeEngaged {
		attribute, skill = "strength", "melee"
	} else if p.weights.Aggression >= p.weights.Caution {
		maneuver = game.ManeuverClose
	}
	return &game.ActionDeclaration{
		ActorID:    p.id,
		Intent:     fmt.Sprintf("attack %s", target.Name),
		Attribute:  attribute,
		Skill:      skill,
		Difficulty: difficultyForRange(view.Self.Range),
		Kind:       mech.CheckStandard,
		TargetID:   target.ID,
		Maneuver:   maneuver,
	}
}

func openClock(clocks []mech.Clock) string {
	for _, c := range clocks {
		if !c.Fired {
			return c.Name
		}
	}
	return ""
}

func weakest(hostiles []game.CombatantView) game.CombatantView {
	best := hostiles[0]
	for _, h := range hostiles[1:] {
		if h.Health < best.Health {
			best = h
		}
	}
	return best
}

func difficultyForRange(r game.RangeBand) int {
	switch r {
	case game.RangeEngaged:
		return 18
	case game.RangeNear:
		return 20
	default:
		return 24
	}
}
