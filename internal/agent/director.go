package agent

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/bus"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/services"
)

const (
	defaultEscapeClockMax   = 4
	defaultNarrationTimeout = 20 * time.Second
	moraleThreshold         = 15
	deathSaveDifficulty     = 20
)

// Director is the adjudicator: the only agent permitted to invoke
// mechanics resolution, and the single writer of character, clock, and
// score state. Declarations queue in arrival order and resolve
// strictly sequentially, so resolution i+1 sees the post-effects of
// resolution i.
type Director struct {
	id        string
	sessionID string
	svcs      *services.Services
	bus       *bus.Bus
	sink      ports.EventSink
	narrator  ports.Narrator
	metrics   ports.SessionMetrics
	logger    *zap.Logger
	now       func() time.Time

	narrationTimeout time.Duration

	mu           sync.Mutex
	characters   map[string]*game.Character
	order        []string
	groups       map[string]*game.EnemyGroup
	clocks       []*mech.Clock
	escapeClocks map[string]*mech.Clock
	prisoners    []game.Prisoner
	queue        []game.ActionDeclaration
	pressured    map[string]string // target id -> source id, cleared each round
}

// DirectorConfig wires the Director's collaborators.
type DirectorConfig struct {
	SessionID        string
	Services         *services.Services
	Bus              *bus.Bus
	Sink             ports.EventSink
	Narrator         ports.Narrator
	Metrics          ports.SessionMetrics
	Logger           *zap.Logger
	Now              func() time.Time
	NarrationTimeout time.Duration
}

func NewDirector(cfg DirectorConfig) *Director {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NarrationTimeout <= 0 {
		cfg.NarrationTimeout = defaultNarrationTimeout
	}
	return &Director{
		id:               "director",
		sessionID:        cfg.SessionID,
		svcs:             cfg.Services,
		bus:              cfg.Bus,
		sink:             cfg.Sink,
		narrator:         cfg.Narrator,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger.Named("director"),
		now:              cfg.Now,
		narrationTimeout: cfg.NarrationTimeout,
		characters:       make(map[string]*game.Character),
		groups:           make(map[string]*game.EnemyGroup),
		escapeClocks:     make(map[string]*mech.Clock),
		pressured:        make(map[string]string),
	}
}

func (d *Director) ID() string   { return d.id }
func (d *Director) Name() string { return "Director" }

// DeclareAction: the Director adjudicates, it does not act.
func (d *Director) DeclareAction(context.Context, *game.View) (*game.ActionDeclaration, error) {
	return nil, nil
}

// OnMessage queues validated declarations in bus-delivery order.
// Validation rejects are recorded and the declaration is dropped; the
// actor is simply skipped for the round.
func (d *Director) OnMessage(msg game.Message) error {
	payload, ok := msg.Payload.(game.ActionDeclaredPayload)
	if !ok {
		return nil
	}
	if err := d.svcs.Validator().Check(payload.Declaration); err != nil {
		if d.metrics != nil {
			d.metrics.RecordValidationReject()
		}
		d.appendEvents(context.Background(), game.NewEvent(game.EventFormatError, d.sessionID, payload.Round, d.now(), map[string]any{
			"actor_id": payload.Declaration.ActorID,
			"reason":   err.Error(),
		}))
		return err
	}
	d.mu.Lock()
	d.queue = append(d.queue, payload.Declaration)
	d.mu.Unlock()
	d.appendEvents(context.Background(), game.NewEvent(game.EventActionDeclared, d.sessionID, payload.Round, d.now(), map[string]any{
		"actor_id": payload.Declaration.ActorID,
		"intent":   payload.Declaration.Intent,
	}))
	return nil
}

// RegisterCharacter adds a combatant to the authoritative roster.
func (d *Director) RegisterCharacter(c *game.Character) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.Status == "" {
		c.Status = game.StatusActive
	}
	if c.Range == "" {
		c.Range = game.RangeNear
	}
	d.characters[c.ID] = c
	d.order = append(d.order, c.ID)
}

// RegisterGroup adds a squad plus its aggregate roster entry. The
// aggregate's health is the group's externally visible HP.
func (d *Director) RegisterGroup(g *game.EnemyGroup) {
	agg := g.Template
	agg.ID = g.ID
	agg.Name = g.Name
	agg.Health = g.VisibleHP()
	agg.MaxHealth = g.VisibleHP()
	d.RegisterCharacter(&agg)
	d.mu.Lock()
	d.groups[g.ID] = g
	d.mu.Unlock()
}

// AddClock registers a scene clock.
func (d *Director) AddClock(name string, max int) *mech.Clock {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := mech.NewClock(name, max)
	d.clocks = append(d.clocks, c)
	return c
}

// Clocks returns the live scene clocks (escape clocks excluded).
func (d *Director) Clocks() []*mech.Clock {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*mech.Clock, len(d.clocks))
	copy(out, d.clocks)
	return out
}

// Character looks up one authoritative sheet.
func (d *Director) Character(id string) (*game.Character, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.characters[id]
	return c, ok
}

// Roster returns characters in registration order.
func (d *Director) Roster() []*game.Character {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*game.Character, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.characters[id])
	}
	return out
}

// Prisoners returns captures so far. Prisoners persist for the whole
// session.
func (d *Director) Prisoners() []game.Prisoner {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]game.Prisoner, len(d.prisoners))
	copy(out, d.prisoners)
	return out
}

// BuildViewFor assembles the situational snapshot for one actor.
func (d *Director) BuildViewFor(round int, actorID string, freeTargeting bool) *game.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	self, ok := d.characters[actorID]
	if !ok {
		return nil
	}
	others := make([]*game.Character, 0, len(d.order))
	for _, id := range d.order {
		others = append(others, d.characters[id])
	}
	return game.BuildView(round, self, others, d.clocks, freeTargeting)
}

// PendingDeclarations reports how many declarations are queued.
func (d *Director) PendingDeclarations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// BeginRound resets per-round validator and pressure state.
func (d *Director) BeginRound() {
	d.svcs.Validator().BeginRound()
	d.mu.Lock()
	d.pressured = make(map[string]string)
	d.mu.Unlock()
}

// AllOut reports whether every member of a faction is out of the
// fight; used for the scenario end conditions.
func (d *Director) AllOut(f game.Faction) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	any := false
	for _, id := range d.order {
		c := d.characters[id]
		if c.Faction != f {
			continue
		}
		any = true
		if !c.Out() {
			return false
		}
	}
	return any
}

func (d *Director) appendEvents(ctx context.Context, events ...game.Event) {
	if d.sink == nil {
		return
	}
	if err := d.sink.Append(ctx, events); err != nil {
		d.logger.Warn("event sink append failed", zap.Error(err))
	}
}

func (d *Director) broadcast(topic game.Topic, payload game.Payload) {
	if d.bus == nil {
		return
	}
	msg, err := game.NewMessage(d.id, topic, payload)
	if err != nil {
		d.logger.Warn("dropping malformed broadcast", zap.Error(err))
		return
	}
	d.bus.Publish(topic, msg)
}
