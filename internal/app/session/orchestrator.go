// Package session drives one autonomous game session: the strictly
// ordered phase machine DECLARATION -> ADJUDICATION -> SYNTHESIS ->
// CLEANUP, repeated per round until a terminal condition.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/agent"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/bus"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

// Phase is the round-phase tag. Transitions are strictly ordered; the
// orchestrator never skips ahead.
type Phase string

const (
	PhaseDeclaration  Phase = "DECLARATION"
	PhaseAdjudication Phase = "ADJUDICATION"
	PhaseSynthesis    Phase = "SYNTHESIS"
	PhaseCleanup      Phase = "CLEANUP"
)

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeMaxRounds       Outcome = "max_rounds"
	OutcomeEnemiesDefeated Outcome = "all_enemies_removed"
	OutcomePlayersDefeated Outcome = "all_players_defeated"
)

// ErrFatalConfiguration aborts session creation. This is the only
// error class that halts execution; everything below it is absorbed
// and logged.
var ErrFatalConfiguration = errors.New("fatal session configuration")

// Config assembles one session.
type Config struct {
	SessionID        string
	Scenario         game.Scenario
	RetreatIncrement int
	SpawnTemplate    *game.Character

	Bus      *bus.Bus
	Director *agent.Director
	Services *services.Services
	Sink     ports.EventSink
	Sessions ports.SessionRepository
	Logger   *zap.Logger
	Now      func() time.Time
}

// Orchestrator owns the phase state machine. It holds no character
// state of its own; the Director is the single writer.
type Orchestrator struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	agents []agent.Agent
	byID   map[string]agent.Agent

	round int
	phase Phase
}

func New(cfg Config) (*Orchestrator, error) {
	if cfg.Director == nil || cfg.Bus == nil {
		return nil, fmt.Errorf("%w: director and bus are required", ErrFatalConfiguration)
	}
	if cfg.Scenario.MaxRounds < 1 {
		return nil, fmt.Errorf("%w: max rounds must be at least 1", ErrFatalConfiguration)
	}
	if cfg.Scenario.SpawnFrequency > 0 && cfg.SpawnTemplate == nil {
		return nil, fmt.Errorf("%w: spawn frequency set without a spawn template", ErrFatalConfiguration)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RetreatIncrement <= 0 {
		cfg.RetreatIncrement = 1
	}
	o := &Orchestrator{
		cfg:    cfg,
		logger: cfg.Logger.Named("session"),
		now:    cfg.Now,
		byID:   make(map[string]agent.Agent),
	}
	// The Director listens for declarations like any other subscriber.
	cfg.Bus.Subscribe(game.TopicDeclaration, cfg.Director.OnMessage)
	return o, nil
}

// AddAgent registers a participant and wires its bus subscriptions.
func (o *Orchestrator) AddAgent(a agent.Agent) error {
	if _, dup := o.byID[a.ID()]; dup {
		return fmt.Errorf("%w: duplicate agent id %s", ErrFatalConfiguration, a.ID())
	}
	o.agents = append(o.agents, a)
	o.byID[a.ID()] = a
	for _, topic := range []game.Topic{game.TopicPhase, game.TopicRoster, game.TopicResolution} {
		o.cfg.Bus.Subscribe(topic, a.OnMessage)
	}
	return nil
}

// Run plays the session to its terminal condition and returns the
// outcome. Agent failures never abort the run; only context
// cancellation does.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	if len(o.agents) == 0 {
		return "", fmt.Errorf("%w: session has no agents", ErrFatalConfiguration)
	}

	o.openSession(ctx)

	outcome := OutcomeMaxRounds
	for o.round = 1; o.round <= o.cfg.Scenario.MaxRounds; o.round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		o.runDeclaration(ctx)
		o.runAdjudication(ctx)
		o.runSynthesis(ctx)
		if done, result := o.runCleanup(ctx); done {
			outcome = result
			break
		}
	}

	o.closeSession(ctx, outcome)
	return outcome, nil
}

func (o *Orchestrator) openSession(ctx context.Context) {
	if o.cfg.Sessions != nil {
		err := o.cfg.Sessions.Open(ctx, ports.SessionRecord{
			SessionID: o.cfg.SessionID,
			Scenario:  o.cfg.Scenario,
			StartedAt: o.now(),
		})
		if err != nil {
			o.logger.Warn("session record open failed", zap.Error(err))
		}
	}
	o.appendEvent(ctx, game.NewEvent(game.EventSessionStarted, o.cfg.SessionID, 0, o.now(), map[string]any{
		"scenario":   o.cfg.Scenario.Name,
		"max_rounds": o.cfg.Scenario.MaxRounds,
		"agents":     len(o.agents),
	}))
	o.publish(game.TopicPhase, game.ScenarioSetupPayload{Scenario: o.cfg.Scenario})
}

func (o *Orchestrator) closeSession(ctx context.Context, outcome Outcome) {
	rounds := o.round
	if rounds > o.cfg.Scenario.MaxRounds {
		rounds = o.cfg.Scenario.MaxRounds
	}
	o.appendEvent(ctx, game.NewEvent(game.EventSessionEnded, o.cfg.SessionID, rounds, o.now(), map[string]any{
		"outcome":   string(outcome),
		"prisoners": len(o.cfg.Director.Prisoners()),
	}))
	if o.cfg.Sessions != nil {
		if err := o.cfg.Sessions.Close(ctx, o.cfg.SessionID, string(outcome), rounds, o.now()); err != nil {
			o.logger.Warn("session record close failed", zap.Error(err))
		}
	}
}

// runDeclaration is the barrier phase: it does not end until every
// required agent has either published a declaration or been skipped.
// Out-of-play agents are auto-skipped.
func (o *Orchestrator) runDeclaration(ctx context.Context) {
	o.phase = PhaseDeclaration
	o.cfg.Director.BeginRound()
	o.appendEvent(ctx, game.NewEvent(game.EventRoundStarted, o.cfg.SessionID, o.round, o.now(), nil))
	o.publish(game.TopicPhase, game.TurnRequestPayload{Round: o.round, Phase: string(PhaseDeclaration)})

	for _, a := range o.agents {
		if ch, ok := o.cfg.Director.Character(a.ID()); ok && ch.Out() {
			continue // auto-skip: defeated, surrendered, or removed
		}
		view := o.cfg.Director.BuildViewFor(o.round, a.ID(), o.cfg.Scenario.FreeTargeting)
		decl, err := a.DeclareAction(ctx, view)
		if err != nil {
			// Agent-level failures are absorbed; the agent just sits
			// the round out.
			o.logger.Warn("agent declaration failed",
				zap.String("agent_id", a.ID()), zap.Error(err))
			continue
		}
		if decl == nil {
			continue
		}
		msg, err := game.NewMessage(a.ID(), game.TopicDeclaration, game.ActionDeclaredPayload{
			Round:       o.round,
			Declaration: *decl,
		})
		if err != nil {
			o.logger.Warn("dropping malformed declaration",
				zap.String("agent_id", a.ID()), zap.Error(err))
			continue
		}
		o.cfg.Bus.Publish(game.TopicDeclaration, msg)
	}
}

// runAdjudication hands the queued declarations to the Director,
// which resolves them sequentially in declaration order.
func (o *Orchestrator) runAdjudication(ctx context.Context) {
	o.phase = PhaseAdjudication
	o.cfg.Director.ResolveQueued(ctx, o.round)
}

// runSynthesis broadcasts the round summary.
func (o *Orchestrator) runSynthesis(ctx context.Context) {
	o.phase = PhaseSynthesis
	var fired []string
	for _, c := range o.cfg.Director.Clocks() {
		if c.Fired {
			fired = append(fired, c.Name)
		}
	}
	summary := fmt.Sprintf("round %d complete", o.round)
	o.publish(game.TopicPhase, game.RoundSynthesisPayload{
		Round:       o.round,
		Summary:     summary,
		FiredClocks: fired,
	})
	o.appendEvent(ctx, game.NewEvent(game.EventRoundSynthesis, o.cfg.SessionID, o.round, o.now(), map[string]any{
		"fired_clocks": fired,
	}))
}

// runCleanup handles escape bookkeeping, reinforcements, and the
// terminal conditions. End conditions are evaluated here, after any
// clock fires from the round are already on the transcript.
func (o *Orchestrator) runCleanup(ctx context.Context) (bool, Outcome) {
	o.phase = PhaseCleanup
	o.cfg.Director.RoundCleanup(ctx, o.round, o.cfg.RetreatIncrement)

	if o.cfg.Director.AllOut(game.FactionPlayers) {
		return true, OutcomePlayersDefeated
	}
	if o.cfg.Director.AllOut(game.FactionEnemies) {
		return true, OutcomeEnemiesDefeated
	}

	freq := o.cfg.Scenario.SpawnFrequency
	if freq > 0 && o.round%freq == 0 && o.round < o.cfg.Scenario.MaxRounds {
		o.spawnReinforcement(ctx)
	}
	return false, ""
}

func (o *Orchestrator) spawnReinforcement(ctx context.Context) {
	tpl := *o.cfg.SpawnTemplate
	tpl.ID = fmt.Sprintf("%s-r%d", tpl.ID, o.round)
	tpl.Name = fmt.Sprintf("%s (reinforcement)", tpl.Name)
	tpl.Health = tpl.MaxHealth
	tpl.Status = game.StatusActive
	o.cfg.Director.SpawnEnemy(ctx, o.round, &tpl)
	if o.cfg.Services != nil {
		if err := o.AddAgent(agent.NewEnemy(tpl, o.cfg.Services)); err != nil {
			o.logger.Warn("reinforcement agent not added", zap.Error(err))
		}
	}
}

// Phase exposes the current phase for inspection.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Round exposes the current round for inspection.
func (o *Orchestrator) Round() int { return o.round }

func (o *Orchestrator) publish(topic game.Topic, payload game.Payload) {
	msg, err := game.NewMessage("orchestrator", topic, payload)
	if err != nil {
		o.logger.Warn("dropping malformed broadcast", zap.Error(err))
		return
	}
	o.cfg.Bus.Publish(topic, msg)
}

func (o *Orchestrator) appendEvent(ctx context.Context, evt game.Event) {
	if o.cfg.Sink == nil {
		return
	}
	if err := o.cfg.Sink.Append(ctx, []game.Event{evt}); err != nil {
		o.logger.Warn("event sink append failed", zap.Error(err))
	}
}
