package agent

import (
	"context"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

// Group fronts an enemy squad as one logical agent. It exposes the
// same capability set as a single unit and forwards policy decisions
// to an inner Enemy built from the squad template.
type Group struct {
	group *game.EnemyGroup
	inner *Enemy
}

func NewGroup(g *game.EnemyGroup, svcs *services.Services) *Group {
	template := g.Template
	template.ID = g.ID
	template.Name = g.Name
	return &Group{group: g, inner: NewEnemy(template, svcs)}
}

func (g *Group) ID() string   { return g.group.ID }
func (g *Group) Name() string { return g.group.Name }

func (g *Group) OnMessage(msg game.Message) error {
	return g.inner.OnMessage(msg)
}

// DeclareAction delegates to the template policy while the squad has
// live units. A spent group passes.
func (g *Group) DeclareAction(ctx context.Context, view *game.View) (*game.ActionDeclaration, error) {
	if g.group.Spent() {
		return nil, nil
	}
	decl, err := g.inner.DeclareAction(ctx, view)
	if err != nil || decl == nil {
		return nil, err
	}
	decl.ActorID = g.group.ID
	return decl, nil
}

// LastUnitAlive reports whether the squad is down to one unit, which
// is a morale trigger.
func (g *Group) LastUnitAlive() bool {
	return g.group.LiveUnits() == 1
}
