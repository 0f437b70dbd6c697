package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

// Enemy is a tactical agent with a rule-based decision policy. It
// never calls the narration service; target, maneuver, and weapon come
// straight from its policy tables.
type Enemy struct {
	id    string
	name  string
	sheet game.Character
	svcs  *services.Services

	mu            sync.Mutex
	underPressure bool
}

func NewEnemy(sheet game.Character, svcs *services.Services) *Enemy {
	return &Enemy{id: sheet.ID, name: sheet.Name, sheet: sheet, svcs: svcs}
}

func (e *Enemy) ID() string   { return e.id }
func (e *Enemy) Name() string { return e.name }

func (e *Enemy) OnMessage(msg game.Message) error {
	switch payload := msg.Payload.(type) {
	case game.CharacterUpdatePayload:
		if payload.Character.ID == e.id {
			e.mu.Lock()
			e.sheet = payload.Character
			e.mu.Unlock()
		}
	case game.SocialDeescalationPayload:
		if payload.TargetID == e.id {
			e.mu.Lock()
			e.underPressure = true
			e.mu.Unlock()
		}
	}
	return nil
}

// DeclareAction runs the tactical policy: pick a target, pick a
// maneuver across range bands, pick a weapon for the band.
func (e *Enemy) DeclareAction(_ context.Context, view *game.View) (*game.ActionDeclaration, error) {
	if view == nil {
		return nil, fmt.Errorf("enemy %s: nil view", e.id)
	}
	self := view.Self
	if self.Status == game.StatusRetreating {
		return e.retreatDeclaration(), nil
	}
	if self.Status != game.StatusActive {
		return nil, nil
	}

	hostiles := view.Hostiles(e.sheet.Faction)
	if len(hostiles) == 0 {
		return &game.ActionDeclaration{
			ActorID:    e.id,
			Intent:     "hold position and watch the approaches",
			Attribute:  "perception",
			Skill:      "awareness",
			Difficulty: 15,
			Kind:       mech.CheckStandard,
			Maneuver:   game.ManeuverHold,
		}, nil
	}

	target := e.chooseTarget(hostiles)
	maneuver := e.chooseManeuver(self)
	attribute, skill := e.chooseWeapon(self.Range, maneuver)

	return &game.ActionDeclaration{
		ActorID:    e.id,
		Intent:     fmt.Sprintf("%s engages %s", e.name, target.Name),
		Attribute:  attribute,
		Skill:      skill,
		Difficulty: difficultyForRange(self.Range),
		Kind:       mech.CheckStandard,
		TargetID:   target.ID,
		Maneuver:   maneuver,
	}, nil
}

// chooseTarget prefers wounded opposition; ties go to the closer band.
func (e *Enemy) chooseTarget(hostiles []game.CombatantView) game.CombatantView {
	best := hostiles[0]
	for _, h := range hostiles[1:] {
		if h.Health < best.Health {
			best = h
			continue
		}
		if h.Health == best.Health && bandRank(h.Range) < bandRank(best.Range) {
			best = h
		}
	}
	return best
}

func (e *Enemy) chooseManeuver(self game.CombatantView) game.Maneuver {
	hurt := e.sheet.MaxHealth > 0 && self.Health*2 < e.sheet.MaxHealth
	if hurt && e.sheet.Personality != game.PersonalityFightToDeath {
		return game.ManeuverRetreat
	}
	if self.Range != game.RangeEngaged {
		return game.ManeuverClose
	}
	return game.ManeuverHold
}

func (e *Enemy) chooseWeapon(band game.RangeBand, maneuver game.Maneuver) (attribute, skill string) {
	if band == game.RangeEngaged || maneuver == game.ManeuverClose && band == game.RangeNear {
		return "strength", "melee"
	}
	return "perception", "guns"
}

func (e *Enemy) retreatDeclaration() *game.ActionDeclaration {
	return &game.ActionDeclaration{
		ActorID:    e.id,
		Intent:     fmt.Sprintf("%s breaks for cover", e.name),
		Attribute:  "agility",
		Skill:      "athletics",
		Difficulty: 15,
		Kind:       mech.CheckStandard,
		Maneuver:   game.ManeuverRetreat,
	}
}

// MoraleTriggered reports whether any morale trigger currently holds:
// HP below a quarter, last unit of the group alive, heavy stun, or
// direct social pressure.
func (e *Enemy) MoraleTriggered(lastUnitAlive bool) (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.sheet.MaxHealth > 0 && e.sheet.Health*4 < e.sheet.MaxHealth:
		return true, "hp_below_quarter"
	case lastUnitAlive:
		return true, "last_unit"
	case e.sheet.Stun >= 5:
		return true, "stun"
	case e.underPressure:
		return true, "social_pressure"
	}
	return false, ""
}

func bandRank(r game.RangeBand) int {
	switch r {
	case game.RangeEngaged:
		return 0
	case game.RangeNear:
		return 1
	default:
		return 2
	}
}
