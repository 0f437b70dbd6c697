package session

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/repo/memory"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/agent"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/bus"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

type scriptedAgent struct {
	id       string
	declared int
	decl     *game.ActionDeclaration
	err      error
}

func (a *scriptedAgent) ID() string   { return a.id }
func (a *scriptedAgent) Name() string { return a.id }

func (a *scriptedAgent) DeclareAction(_ context.Context, _ *game.View) (*game.ActionDeclaration, error) {
	a.declared++
	if a.err != nil {
		return nil, a.err
	}
	return a.decl, nil
}

func (a *scriptedAgent) OnMessage(game.Message) error { return nil }

func testRig(t *testing.T, scenario game.Scenario) (*Orchestrator, *agent.Director, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svcs := services.New(mech.NewSeededRoller(scenario.Seed), nil)
	b := bus.New(zap.NewNop())
	director := agent.NewDirector(agent.DirectorConfig{
		SessionID: "s-orch",
		Services:  svcs,
		Bus:       b,
		Sink:      memory.NewEventSink(store),
	})
	orc, err := New(Config{
		SessionID: "s-orch",
		Scenario:  scenario,
		Bus:       b,
		Director:  director,
		Services:  svcs,
		Sink:      memory.NewEventSink(store),
		Sessions:  memory.NewSessionRepo(store),
		Logger:    zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return orc, director, store
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Scenario: game.Scenario{MaxRounds: 5}})
	if !errors.Is(err, ErrFatalConfiguration) {
		t.Fatalf("expected ErrFatalConfiguration, got %v", err)
	}

	b := bus.New(zap.NewNop())
	director := agent.NewDirector(agent.DirectorConfig{Bus: b, Services: services.New(mech.NewSeededRoller(1), nil)})

	_, err = New(Config{Bus: b, Director: director, Scenario: game.Scenario{MaxRounds: 0}})
	if !errors.Is(err, ErrFatalConfiguration) {
		t.Fatalf("expected ErrFatalConfiguration for zero rounds, got %v", err)
	}

	_, err = New(Config{Bus: b, Director: director, Scenario: game.Scenario{MaxRounds: 5, SpawnFrequency: 2}})
	if !errors.Is(err, ErrFatalConfiguration) {
		t.Fatalf("expected ErrFatalConfiguration for template-less spawning, got %v", err)
	}
}

func TestRunRequiresAgents(t *testing.T) {
	orc, _, _ := testRig(t, game.Scenario{Name: "empty", MaxRounds: 3})
	if _, err := orc.Run(context.Background()); !errors.Is(err, ErrFatalConfiguration) {
		t.Fatalf("expected ErrFatalConfiguration, got %v", err)
	}
}

func TestAddAgentRejectsDuplicates(t *testing.T) {
	orc, _, _ := testRig(t, game.Scenario{Name: "dup", MaxRounds: 3})
	if err := orc.AddAgent(&scriptedAgent{id: "a1"}); err != nil {
		t.Fatalf("AddAgent error: %v", err)
	}
	if err := orc.AddAgent(&scriptedAgent{id: "a1"}); !errors.Is(err, ErrFatalConfiguration) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestOutAgentsAreAutoSkipped(t *testing.T) {
	orc, director, _ := testRig(t, game.Scenario{Name: "skip", MaxRounds: 1})

	active := &game.Character{ID: "a-live", Faction: game.FactionPlayers, Health: 10, MaxHealth: 10}
	down := &game.Character{ID: "a-down", Faction: game.FactionEnemies, Health: 0, MaxHealth: 10, Status: game.StatusDefeated}
	director.RegisterCharacter(active)
	director.RegisterCharacter(down)

	live := &scriptedAgent{id: "a-live"}
	skipped := &scriptedAgent{id: "a-down"}
	_ = orc.AddAgent(live)
	_ = orc.AddAgent(skipped)

	if _, err := orc.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if live.declared != 1 {
		t.Fatalf("live agent declared %d times, want 1", live.declared)
	}
	if skipped.declared != 0 {
		t.Fatalf("downed agent was asked to declare")
	}
}

func TestAgentFailureDoesNotAbortRun(t *testing.T) {
	orc, director, _ := testRig(t, game.Scenario{Name: "absorb", MaxRounds: 2})

	c := &game.Character{ID: "a-err", Faction: game.FactionPlayers, Health: 10, MaxHealth: 10}
	director.RegisterCharacter(c)
	failing := &scriptedAgent{id: "a-err", err: errors.New("model timeout")}
	_ = orc.AddAgent(failing)

	outcome, err := orc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if outcome != OutcomeMaxRounds {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomeMaxRounds)
	}
	if failing.declared != 2 {
		t.Fatalf("failing agent declared %d times, want 2", failing.declared)
	}
}

func TestAllEnemiesRemovedEndsSession(t *testing.T) {
	orc, director, store := testRig(t, game.Scenario{Name: "sweep", MaxRounds: 10})

	pc := &game.Character{ID: "pc-1", Faction: game.FactionPlayers, Health: 10, MaxHealth: 10}
	enemy := &game.Character{ID: "en-1", Faction: game.FactionEnemies, Health: 5, MaxHealth: 5, Status: game.StatusDefeated}
	director.RegisterCharacter(pc)
	director.RegisterCharacter(enemy)
	_ = orc.AddAgent(&scriptedAgent{id: "pc-1"})

	outcome, err := orc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if outcome != OutcomeEnemiesDefeated {
		t.Fatalf("outcome = %q, want %q", outcome, OutcomeEnemiesDefeated)
	}

	record, err := memory.NewSessionRepo(store).Get(context.Background(), "s-orch")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if record.Rounds != 1 {
		t.Fatalf("record rounds = %d, want 1", record.Rounds)
	}
}

func TestDeclarationsResolveInArrivalOrder(t *testing.T) {
	orc, director, store := testRig(t, game.Scenario{Name: "order", MaxRounds: 1})

	first := &game.Character{ID: "pc-first", Faction: game.FactionPlayers, Health: 10, MaxHealth: 10}
	second := &game.Character{ID: "pc-second", Faction: game.FactionPlayers, Health: 10, MaxHealth: 10}
	director.RegisterCharacter(first)
	director.RegisterCharacter(second)

	decl := func(id string) *game.ActionDeclaration {
		return &game.ActionDeclaration{
			ActorID:    id,
			Intent:     "hold position and watch",
			Attribute:  "perception",
			Skill:      "awareness",
			Difficulty: 15,
			Kind:       mech.CheckStandard,
			Maneuver:   game.ManeuverHold,
		}
	}
	_ = orc.AddAgent(&scriptedAgent{id: "pc-first", decl: decl("pc-first")})
	_ = orc.AddAgent(&scriptedAgent{id: "pc-second", decl: decl("pc-second")})

	if _, err := orc.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	events, _ := memory.NewEventSink(store).ListBySession(context.Background(), "s-orch", 0)
	var resolvedOrder []string
	for _, e := range events {
		if e.Type == game.EventActionResolved {
			resolvedOrder = append(resolvedOrder, e.Payload["actor_id"].(string))
		}
	}
	if len(resolvedOrder) != 2 || resolvedOrder[0] != "pc-first" || resolvedOrder[1] != "pc-second" {
		t.Fatalf("resolution order = %v", resolvedOrder)
	}
}

func TestSpawnFrequencyAddsReinforcements(t *testing.T) {
	tpl := game.Character{
		ID: "reinf", Name: "Reinforcement", Faction: game.FactionEnemies,
		Health: 8, MaxHealth: 8, Range: game.RangeFar,
	}
	store := memory.NewStore()
	svcs := services.New(mech.NewSeededRoller(3), nil)
	b := bus.New(zap.NewNop())
	director := agent.NewDirector(agent.DirectorConfig{
		SessionID: "s-spawn",
		Services:  svcs,
		Bus:       b,
		Sink:      memory.NewEventSink(store),
	})
	orc, err := New(Config{
		SessionID:     "s-spawn",
		Scenario:      game.Scenario{Name: "waves", MaxRounds: 4, SpawnFrequency: 2},
		SpawnTemplate: &tpl,
		Bus:           b,
		Director:      director,
		Services:      svcs,
		Sink:          memory.NewEventSink(store),
		Logger:        zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	pc := &game.Character{ID: "pc-1", Faction: game.FactionPlayers, Health: 10, MaxHealth: 10}
	en := &game.Character{ID: "en-1", Faction: game.FactionEnemies, Health: 10, MaxHealth: 10, Personality: game.PersonalityFightToDeath}
	director.RegisterCharacter(pc)
	director.RegisterCharacter(en)
	_ = orc.AddAgent(&scriptedAgent{id: "pc-1"})
	_ = orc.AddAgent(&scriptedAgent{id: "en-1"})

	if _, err := orc.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	events, _ := memory.NewEventSink(store).ListBySession(context.Background(), "s-spawn", 0)
	var spawned int
	for _, e := range events {
		if e.Type == game.EventEnemySpawned {
			spawned++
		}
	}
	if spawned != 1 {
		t.Fatalf("spawned = %d, want 1", spawned)
	}
}
