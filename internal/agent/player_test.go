package agent

import (
	"context"
	"testing"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

func playerSheet() game.Character {
	return game.Character{
		ID: "pc-1", Name: "Kyra", Faction: game.FactionPlayers,
		Attributes: map[string]int{
			"strength": 4, "perception": 3, "willpower": 4, "empathy": 3,
		},
		Skills: map[string]int{
			"melee": 4, "guns": 2, "astral arts": 4, "persuasion": 3, "awareness": 2,
		},
		Health: 20, MaxHealth: 20,
		Range: game.RangeNear,
	}
}

func playerView(self game.CombatantView, others ...game.CombatantView) *game.View {
	return &game.View{Round: 1, Self: self, Combatants: others}
}

func TestPlayerPrefersRitualWhenMystic(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{Mysticism: 0.9, Aggression: 0.3}, "close the breach", svcs)

	view := playerView(
		game.CombatantView{ID: "pc-1", Status: game.StatusActive, Range: game.RangeNear},
		game.CombatantView{ID: "en-1", Faction: game.FactionEnemies, Health: 10, Status: game.StatusActive},
	)
	view.Clocks = []mech.Clock{*mech.NewClock("breach", 6)}

	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if decl.Kind != mech.CheckRitual {
		t.Fatalf("kind = %s, want ritual", decl.Kind)
	}
	if decl.Skill != "astral arts" {
		t.Fatalf("skill = %s, want astral arts", decl.Skill)
	}
	if decl.PredictedTier == nil {
		t.Fatal("expected a self prediction")
	}
}

func TestPlayerFallsBackToAttackWhenClocksClosed(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{Mysticism: 0.9, Aggression: 0.3}, "", svcs)

	fired := mech.NewClock("breach", 2)
	fired.Tick(2)
	view := playerView(
		game.CombatantView{ID: "pc-1", Status: game.StatusActive, Range: game.RangeNear},
		game.CombatantView{ID: "en-1", Faction: game.FactionEnemies, Health: 10, Status: game.StatusActive},
	)
	view.Clocks = []mech.Clock{*fired}

	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if decl.Kind != mech.CheckStandard || decl.TargetID != "en-1" {
		t.Fatalf("expected a standard attack on en-1, got %+v", decl)
	}
}

func TestPlayerDiplomatAppliesSocialPressure(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{Diplomacy: 0.8, Aggression: 0.2}, "", svcs)

	view := playerView(
		game.CombatantView{ID: "pc-1", Status: game.StatusActive, Range: game.RangeNear},
		game.CombatantView{ID: "en-1", Name: "Cultist", Faction: game.FactionEnemies, Health: 10, Status: game.StatusActive},
	)
	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if !decl.SocialPressure {
		t.Fatal("expected a social pressure declaration")
	}
	if decl.Attribute != "empathy" || decl.Skill != "persuasion" {
		t.Fatalf("check = %s/%s, want empathy/persuasion", decl.Attribute, decl.Skill)
	}
}

func TestPlayerAttacksWeakestHostile(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{Aggression: 0.9, Caution: 0.2}, "", svcs)

	view := playerView(
		game.CombatantView{ID: "pc-1", Status: game.StatusActive, Range: game.RangeNear},
		game.CombatantView{ID: "en-1", Faction: game.FactionEnemies, Health: 12, Status: game.StatusActive},
		game.CombatantView{ID: "en-2", Faction: game.FactionEnemies, Health: 3, Status: game.StatusActive},
		game.CombatantView{ID: "en-3", Faction: game.FactionEnemies, Health: 1, Status: game.StatusDefeated},
	)
	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if decl.TargetID != "en-2" {
		t.Fatalf("target = %s, want en-2", decl.TargetID)
	}
	// At near range an aggressive player closes and shoots.
	if decl.Maneuver != game.ManeuverClose {
		t.Fatalf("maneuver = %s, want close", decl.Maneuver)
	}
	if decl.Skill != "guns" {
		t.Fatalf("skill = %s, want guns", decl.Skill)
	}
	if decl.Difficulty != 20 {
		t.Fatalf("difficulty = %d, want 20 at near range", decl.Difficulty)
	}
}

func TestPlayerUsesMeleeWhenEngaged(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	sheet := playerSheet()
	sheet.Range = game.RangeEngaged
	p := NewPlayer(sheet, PlayerWeights{Aggression: 0.9}, "", svcs)

	view := playerView(
		game.CombatantView{ID: "pc-1", Status: game.StatusActive, Range: game.RangeEngaged},
		game.CombatantView{ID: "en-1", Faction: game.FactionEnemies, Health: 10, Status: game.StatusActive},
	)
	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if decl.Attribute != "strength" || decl.Skill != "melee" {
		t.Fatalf("check = %s/%s, want strength/melee", decl.Attribute, decl.Skill)
	}
	if decl.Difficulty != 18 {
		t.Fatalf("difficulty = %d, want 18 engaged", decl.Difficulty)
	}
}

func TestPlayerScansWhenNoHostiles(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{Aggression: 0.9}, "", svcs)

	view := playerView(game.CombatantView{ID: "pc-1", Status: game.StatusActive, Range: game.RangeNear})
	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if decl.TargetID != "" || decl.Skill != "awareness" {
		t.Fatalf("expected an untargeted scan, got %+v", decl)
	}
}

func TestPlayerPassesWhenOut(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{}, "", svcs)

	view := playerView(game.CombatantView{ID: "pc-1", Status: game.StatusDefeated})
	decl, err := p.DeclareAction(context.Background(), view)
	if err != nil {
		t.Fatalf("DeclareAction error: %v", err)
	}
	if decl != nil {
		t.Fatalf("downed player declared %+v", decl)
	}
}

func TestPlayerTracksRosterBroadcasts(t *testing.T) {
	svcs := services.New(&mech.ScriptedRoller{}, nil)
	p := NewPlayer(playerSheet(), PlayerWeights{}, "", svcs)

	updated := playerSheet()
	updated.Health = 5
	msg, err := game.NewMessage("director", game.TopicRoster, game.CharacterUpdatePayload{Character: updated})
	if err != nil {
		t.Fatalf("NewMessage error: %v", err)
	}
	if err := p.OnMessage(msg); err != nil {
		t.Fatalf("OnMessage error: %v", err)
	}
	if p.sheet.Health != 5 {
		t.Fatalf("sheet health = %d, want 5", p.sheet.Health)
	}
}
