package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/agent"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/bus"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

const defaultEnemyCount = 3

// LauncherConfig carries the process-wide collaborators shared by
// every launched session. Per-session state (bus, services, director)
// is built fresh on each Launch.
type LauncherConfig struct {
	Sink             ports.EventSink
	Sessions         ports.SessionRepository
	Narrator         ports.Narrator
	Metrics          ports.SessionMetrics
	Logger           *zap.Logger
	DefaultMaxRounds int
	RetreatIncrement int
	NarrationTimeout time.Duration
}

// Launcher builds and starts sessions from scenario descriptions.
type Launcher struct {
	cfg    LauncherConfig
	logger *zap.Logger
}

func NewLauncher(cfg LauncherConfig) *Launcher {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DefaultMaxRounds < 1 {
		cfg.DefaultMaxRounds = 20
	}
	return &Launcher{cfg: cfg, logger: cfg.Logger.Named("launcher")}
}

// Launch validates the scenario, assembles the cast, and runs the
// session in the background. The returned id can be polled over the
// ops API while the run proceeds.
func (l *Launcher) Launch(_ context.Context, scenario game.Scenario) (string, error) {
	if scenario.Name == "" {
		return "", fmt.Errorf("%w: scenario name is required", ErrFatalConfiguration)
	}
	if scenario.MaxRounds < 1 {
		scenario.MaxRounds = l.cfg.DefaultMaxRounds
	}
	if scenario.Seed == 0 {
		scenario.Seed = time.Now().UnixNano()
	}

	sessionID := uuid.NewString()
	orc, err := l.assemble(sessionID, scenario)
	if err != nil {
		return "", err
	}

	go func() {
		outcome, err := orc.Run(context.Background())
		if err != nil {
			l.logger.Error("session run aborted",
				zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		l.logger.Info("session complete",
			zap.String("session_id", sessionID),
			zap.String("outcome", string(outcome)),
			zap.Int("rounds", orc.Round()))
	}()
	return sessionID, nil
}

func (l *Launcher) assemble(sessionID string, scenario game.Scenario) (*Orchestrator, error) {
	svcs := services.New(mech.NewSeededRoller(scenario.Seed), defaultKnowledge(scenario))
	b := bus.New(l.cfg.Logger)

	director := agent.NewDirector(agent.DirectorConfig{
		SessionID:        sessionID,
		Services:         svcs,
		Bus:              b,
		Sink:             l.cfg.Sink,
		Narrator:         l.cfg.Narrator,
		Metrics:          l.cfg.Metrics,
		Logger:           l.cfg.Logger,
		NarrationTimeout: l.cfg.NarrationTimeout,
	})

	spawnTemplate := enemyTemplate()
	orc, err := New(Config{
		SessionID:        sessionID,
		Scenario:         scenario,
		RetreatIncrement: l.cfg.RetreatIncrement,
		SpawnTemplate:    &spawnTemplate,
		Bus:              b,
		Director:         director,
		Services:         svcs,
		Sink:             l.cfg.Sink,
		Sessions:         l.cfg.Sessions,
		Logger:           l.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	for _, name := range scenario.ClockNames {
		director.AddClock(name, 6)
	}

	for _, p := range defaultParty() {
		sheet := p.sheet
		director.RegisterCharacter(&sheet)
		if err := orc.AddAgent(agent.NewPlayer(p.sheet, p.weights, p.goal, svcs)); err != nil {
			return nil, err
		}
	}

	if err := l.addOpposition(orc, director, svcs, scenario); err != nil {
		return nil, err
	}
	return orc, nil
}

func (l *Launcher) addOpposition(orc *Orchestrator, director *agent.Director, svcs *services.Services, scenario game.Scenario) error {
	tpl := enemyTemplate()
	if scenario.GroupEnemies {
		group := game.NewEnemyGroup("cultists", "Void Cult Pack", tpl, defaultEnemyCount, true)
		director.RegisterGroup(group)
		return orc.AddAgent(agent.NewGroup(group, svcs))
	}
	for i := 1; i <= defaultEnemyCount; i++ {
		sheet := tpl
		sheet.ID = fmt.Sprintf("cultist-%d", i)
		sheet.Name = fmt.Sprintf("Void Cultist %d", i)
		director.RegisterCharacter(&sheet)
		if err := orc.AddAgent(agent.NewEnemy(sheet, svcs)); err != nil {
			return err
		}
	}
	return nil
}

type partyMember struct {
	sheet   game.Character
	weights agent.PlayerWeights
	goal    string
}

func defaultParty() []partyMember {
	return []partyMember{
		{
			sheet: game.Character{
				ID:      "pc-kyra",
				Name:    "Kyra Voss",
				Faction: game.FactionPlayers,
				Attributes: map[string]int{
					"strength": 4, "dexterity": 4, "perception": 3,
					"willpower": 2, "empathy": 2,
				},
				Skills: map[string]int{
					"melee": 4, "guns": 3, "awareness": 2, "brawl": 3,
				},
				Health: 20, MaxHealth: 20, Soak: 4,
				Willpower: 2,
				Range:     game.RangeNear,
			},
			weights: agent.PlayerWeights{Aggression: 0.8, Caution: 0.2, Mysticism: 0.1, Diplomacy: 0.2},
			goal:    "break the ambush before the cult finishes its work",
		},
		{
			sheet: game.Character{
				ID:      "pc-maren",
				Name:    "Maren Okoye",
				Faction: game.FactionPlayers,
				Attributes: map[string]int{
					"strength": 2, "dexterity": 3, "perception": 4,
					"willpower": 4, "empathy": 4,
				},
				Skills: map[string]int{
					"astral arts": 4, "persuasion": 3, "awareness": 3, "guns": 2,
				},
				Health: 16, MaxHealth: 16, Soak: 2,
				Willpower: 4,
				Range:     game.RangeFar,
			},
			weights: agent.PlayerWeights{Aggression: 0.2, Caution: 0.5, Mysticism: 0.9, Diplomacy: 0.6},
			goal:    "close the breach before it spreads",
		},
	}
}

func enemyTemplate() game.Character {
	return game.Character{
		ID:      "cultist",
		Name:    "Void Cultist",
		Faction: game.FactionEnemies,
		Attributes: map[string]int{
			"strength": 3, "dexterity": 3, "perception": 2, "willpower": 2,
		},
		Skills: map[string]int{
			"melee": 3, "guns": 2, "awareness": 2,
		},
		Health: 12, MaxHealth: 12, Soak: 2,
		Willpower:   2,
		Range:       game.RangeNear,
		Personality: game.PersonalityFleeWhenBroken,
	}
}

func defaultKnowledge(scenario game.Scenario) services.StaticKnowledge {
	return services.StaticKnowledge{
		"theme":    scenario.Theme,
		"scenario": scenario.Name,
	}
}
