package game

import (
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// CombatantView is the read-only slice of a character that other
// agents are allowed to see.
type CombatantView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Faction Faction      `json:"faction"`
	Health  int          `json:"health"`
	Stun    int          `json:"stun"`
	Wounds  int          `json:"wounds"`
	Range   RangeBand    `json:"range"`
	Status  CombatStatus `json:"status"`
}

// View is the situational snapshot handed to an agent with a turn
// request. In free-targeting mode faction labels are stripped so the
// agent has to do its own friend-or-foe evaluation.
type View struct {
	Round      int             `json:"round"`
	Self       CombatantView   `json:"self"`
	Combatants []CombatantView `json:"combatants"`
	Clocks     []mech.Clock    `json:"clocks"`
}

// BuildView assembles the snapshot for one actor. Out combatants stay
// visible (bodies and prisoners are part of the scene); callers decide
// whether they are valid targets.
func BuildView(round int, self *Character, others []*Character, clocks []*mech.Clock, freeTargeting bool) *View {
	v := &View{Round: round, Self: viewOf(self, false)}
	for _, c := range others {
		if c.ID == self.ID {
			continue
		}
		v.Combatants = append(v.Combatants, viewOf(c, freeTargeting))
	}
	for _, cl := range clocks {
		v.Clocks = append(v.Clocks, *cl)
	}
	return v
}

func viewOf(c *Character, stripFaction bool) CombatantView {
	cv := CombatantView{
		ID:      c.ID,
		Name:    c.Name,
		Faction: c.Faction,
		Health:  c.Health,
		Stun:    c.Stun,
		Wounds:  c.Wounds,
		Range:   c.Range,
		Status:  c.Status,
	}
	if stripFaction {
		cv.Faction = ""
	}
	return cv
}

// Hostiles filters combatants that look like valid opposition for the
// given faction. With stripped labels everything still standing is a
// candidate.
func (v *View) Hostiles(own Faction) []CombatantView {
	out := make([]CombatantView, 0, len(v.Combatants))
	for _, c := range v.Combatants {
		if c.Status != StatusActive && c.Status != StatusRetreating {
			continue
		}
		if c.Faction != "" && c.Faction == own {
			continue
		}
		out = append(out, c)
	}
	return out
}
