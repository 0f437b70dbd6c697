package game

import "fmt"

// GroupUnit is one identical combat unit inside an enemy group.
type GroupUnit struct {
	ID     string       `json:"id"`
	Health int          `json:"health"`
	Stun   int          `json:"stun"`
	Wounds int          `json:"wounds"`
	Status CombatStatus `json:"status"`
}

// EnemyGroup aggregates N identical units behind one logical
// combatant. Externally visible HP is the pool (sum of live units);
// the group is gone once every unit is defeated, fled, or
// surrendered.
type EnemyGroup struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Template Character   `json:"template"`
	Units    []GroupUnit `json:"units"`
	Pooled   bool        `json:"pooled"`
	PoolHP   int         `json:"pool_hp,omitempty"`
}

func NewEnemyGroup(id, name string, template Character, size int, pooled bool) *EnemyGroup {
	g := &EnemyGroup{ID: id, Name: name, Template: template, Pooled: pooled}
	for i := 0; i < size; i++ {
		g.Units = append(g.Units, GroupUnit{
			ID:     groupUnitID(id, i),
			Health: template.MaxHealth,
			Status: StatusActive,
		})
	}
	if pooled {
		g.PoolHP = template.MaxHealth * size
	}
	return g
}

func groupUnitID(groupID string, i int) string {
	return fmt.Sprintf("%s-u%d", groupID, i+1)
}

// VisibleHP is the group's externally reported health.
func (g *EnemyGroup) VisibleHP() int {
	if g.Pooled {
		return g.PoolHP
	}
	total := 0
	for _, u := range g.Units {
		if u.Status == StatusActive || u.Status == StatusRetreating {
			total += u.Health
		}
	}
	return total
}

// LiveUnits counts units still in the fight.
func (g *EnemyGroup) LiveUnits() int {
	n := 0
	for _, u := range g.Units {
		if u.Status == StatusActive || u.Status == StatusRetreating {
			n++
		}
	}
	return n
}

// Spent reports whether the group should be removed from the session.
func (g *EnemyGroup) Spent() bool {
	return g.LiveUnits() == 0
}

// AbsorbDamage routes dealt damage into the group. In pooled mode the
// pool shrinks and whole units drop as it crosses per-unit health
// boundaries; otherwise the first live unit takes the hit.
func (g *EnemyGroup) AbsorbDamage(dealt int) (unitsLost []string) {
	if dealt <= 0 {
		return nil
	}
	if g.Pooled {
		g.PoolHP -= dealt
		if g.PoolHP < 0 {
			g.PoolHP = 0
		}
		perUnit := g.Template.MaxHealth
		if perUnit < 1 {
			perUnit = 1
		}
		shouldLive := (g.PoolHP + perUnit - 1) / perUnit
		for i := range g.Units {
			if g.Units[i].Status != StatusActive && g.Units[i].Status != StatusRetreating {
				continue
			}
			if g.LiveUnits() <= shouldLive {
				break
			}
			g.Units[i].Status = StatusDefeated
			unitsLost = append(unitsLost, g.Units[i].ID)
		}
		return unitsLost
	}
	for i := range g.Units {
		u := &g.Units[i]
		if u.Status != StatusActive && u.Status != StatusRetreating {
			continue
		}
		u.Health -= dealt
		if u.Health <= 0 {
			u.Health = 0
			u.Status = StatusDefeated
			unitsLost = append(unitsLost, u.ID)
		}
		break
	}
	return unitsLost
}
