package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/mech"
)

// difficultyPerPenaltyLevel is the adjudication tax for carrying stun
// or wounds into a check.
const difficultyPerPenaltyLevel = 2

// ResolveQueued drains the declaration queue and resolves each entry
// strictly in declaration order. Resolution i+1 observes the applied
// effects of resolution i; this ordering is a hard invariant, not an
// optimization.
func (d *Director) ResolveQueued(ctx context.Context, round int) []game.ActionResolution {
	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	out := make([]game.ActionResolution, 0, len(queue))
	for _, decl := range queue {
		if res := d.resolveOne(ctx, round, decl); res != nil {
			out = append(out, *res)
		}
	}
	return out
}

type effectPlan struct {
	effects    []game.Effect
	move       game.RangeBand
	targetID   string
	dealt      int
	soakedHit  bool
	clockName  string
	clockStep  int
	corruption int
	social     bool
}

func (d *Director) resolveOne(ctx context.Context, round int, decl game.ActionDeclaration) *game.ActionResolution {
	d.mu.Lock()
	actor, ok := d.characters[decl.ActorID]
	d.mu.Unlock()
	if !ok || actor.Out() {
		d.appendEvents(ctx, game.NewEvent(game.EventActionSkipped, d.sessionID, round, d.now(), map[string]any{
			"actor_id": decl.ActorID,
			"reason":   "actor out of play",
		}))
		return nil
	}

	difficulty := decl.Difficulty + int(actor.WoundPenalty())*difficultyPerPenaltyLevel
	result := d.svcs.Mechanics().Resolve(
		actor.Attribute(decl.Attribute),
		actor.Skill(decl.Skill),
		difficulty,
		decl.Kind,
	)
	if d.metrics != nil {
		d.metrics.RecordResolution(result.Tier)
	}

	plan := d.planEffects(actor, decl, result)
	resolution := &game.ActionResolution{Declaration: decl, Result: result, Effects: plan.effects}

	// Narration is the all-or-nothing boundary: a failed call skips
	// this action's mutations entirely and the round moves on.
	narration, narrErr := d.narrate(ctx, round, actor, resolution)
	if narrErr != nil {
		resolution.Skipped = true
		if d.metrics != nil {
			d.metrics.RecordNarrationFailure()
		}
		d.logger.Warn("narration failed, skipping action effects",
			zap.String("actor_id", decl.ActorID), zap.Error(narrErr))
		d.appendEvents(ctx, game.NewEvent(game.EventActionSkipped, d.sessionID, round, d.now(), map[string]any{
			"actor_id": decl.ActorID,
			"reason":   "narration failure",
		}))
		d.broadcast(game.TopicResolution, game.ActionResolvedPayload{Round: round, Resolution: *resolution})
		return resolution
	}
	resolution.Narration = narration

	d.applyPlan(ctx, round, actor, decl, result, plan)

	d.appendEvents(ctx, game.NewEvent(game.EventActionResolved, d.sessionID, round, d.now(), map[string]any{
		"actor_id":  decl.ActorID,
		"target_id": decl.TargetID,
		"roll":      result.Roll,
		"total":     result.Total,
		"margin":    result.Margin,
		"tier":      result.Tier.String(),
		"effects":   len(plan.effects),
	}))
	d.broadcast(game.TopicResolution, game.ActionResolvedPayload{Round: round, Resolution: *resolution})
	return resolution
}

// planEffects computes every mutation the resolution would apply,
// without touching state. Application happens only after the
// narration boundary clears.
func (d *Director) planEffects(actor *game.Character, decl game.ActionDeclaration, result mech.Resolution) effectPlan {
	plan := effectPlan{targetID: decl.TargetID}

	switch decl.Maneuver {
	case game.ManeuverClose:
		plan.move = actor.Range.Closer()
	case game.ManeuverRetreat:
		plan.move = actor.Range.Farther()
	}
	if plan.move != "" && plan.move != actor.Range {
		plan.effects = append(plan.effects, game.Effect{
			Kind:     game.EffectManeuver,
			TargetID: actor.ID,
			Detail:   string(plan.move),
		})
	}

	succeeded := result.Tier >= mech.TierModerate

	if decl.Kind == mech.CheckRitual {
		plan.clockName = decl.Intent
		if name := d.firstOpenClock(); name != "" {
			plan.clockName = name
		}
		switch {
		case result.Tier == mech.TierCriticalFailure:
			plan.corruption = 2
			plan.clockStep = -1
		case !succeeded:
			plan.corruption = 1
		default:
			plan.clockStep = mech.ClockStep(result.Tier)
		}
		if plan.corruption != 0 {
			plan.effects = append(plan.effects, game.Effect{
				Kind:     game.EffectCorruption,
				TargetID: actor.ID,
				Amount:   plan.corruption,
			})
		}
		if plan.clockStep > 0 {
			plan.effects = append(plan.effects, game.Effect{
				Kind:   game.EffectClockAdvance,
				Clock:  plan.clockName,
				Amount: plan.clockStep,
			})
		} else if plan.clockStep < 0 {
			plan.effects = append(plan.effects, game.Effect{
				Kind:   game.EffectClockRegress,
				Clock:  plan.clockName,
				Amount: -plan.clockStep,
			})
		}
		return plan
	}

	if decl.SocialPressure && decl.TargetID != "" {
		plan.social = succeeded
		if succeeded {
			plan.effects = append(plan.effects, game.Effect{
				Kind:     game.EffectReputation,
				TargetID: actor.ID,
				Amount:   1,
				Detail:   "de-escalation",
			})
		}
		return plan
	}

	if decl.TargetID != "" && succeeded {
		target := d.lookup(decl.TargetID)
		soak := 0
		if target != nil {
			soak = target.Soak
		}
		raw := mech.TierDamage(result.Tier)
		dealt := raw - soak
		if dealt < 0 {
			dealt = 0
		}
		plan.dealt = dealt
		if dealt == 0 {
			plan.soakedHit = true
			plan.effects = append(plan.effects, game.Effect{
				Kind:     game.EffectNoEffect,
				TargetID: decl.TargetID,
				Detail:   "fully soaked",
			})
		} else {
			plan.effects = append(plan.effects, game.Effect{
				Kind:     game.EffectDamage,
				TargetID: decl.TargetID,
				Amount:   dealt,
			})
		}
		return plan
	}

	if decl.TargetID != "" && result.Tier == mech.TierCriticalFailure {
		// The botch rebounds as stun on the attacker.
		plan.effects = append(plan.effects, game.Effect{
			Kind:     game.EffectDamage,
			TargetID: actor.ID,
			Amount:   2,
			Detail:   "botched attack",
		})
	}
	return plan
}

func (d *Director) applyPlan(ctx context.Context, round int, actor *game.Character, decl game.ActionDeclaration, result mech.Resolution, plan effectPlan) {
	if plan.move != "" {
		actor.Range = plan.move
	}
	if plan.corruption != 0 {
		actor.Corruption = mech.ApplyCorruption(actor.Corruption, plan.corruption)
	}

	if plan.clockStep != 0 && plan.clockName != "" {
		d.applyClockDelta(ctx, round, plan.clockName, plan.clockStep)
	}

	if plan.social {
		d.applySocialPressure(ctx, round, actor, decl)
	}

	if plan.soakedHit {
		d.appendEvents(ctx, game.NewEvent(game.EventNoEffect, d.sessionID, round, d.now(), map[string]any{
			"actor_id":  actor.ID,
			"target_id": plan.targetID,
			"reason":    "soak absorbed the hit",
		}))
	}

	if plan.dealt > 0 && plan.targetID != "" {
		d.applyDamage(ctx, round, actor, plan.targetID, plan.dealt)
	}

	if result.Tier == mech.TierCriticalFailure && decl.TargetID != "" && decl.Kind == mech.CheckStandard && !decl.SocialPressure {
		actor.Stun = mech.ApplyStun(actor.Stun, 2)
	}

	d.broadcast(game.TopicRoster, game.CharacterUpdatePayload{Character: *actor})
}

func (d *Director) applyClockDelta(ctx context.Context, round int, name string, step int) {
	var clock *mech.Clock
	d.mu.Lock()
	for _, c := range d.clocks {
		if c.Name == name {
			clock = c
			break
		}
	}
	d.mu.Unlock()
	if clock == nil {
		return
	}
	if step > 0 {
		if fired := clock.Tick(step); fired {
			d.appendEvents(ctx, game.NewEvent(game.EventClockFired, d.sessionID, round, d.now(), map[string]any{
				"clock":   clock.Name,
				"max":     clock.Max,
				"meaning": clock.Advance,
			}))
		}
	} else {
		clock.Untick(-step)
	}
}

func (d *Director) applySocialPressure(ctx context.Context, round int, actor *game.Character, decl game.ActionDeclaration) {
	target := d.lookup(decl.TargetID)
	if target == nil || target.Out() {
		return
	}
	actor.Reputation = mech.ApplyReputation(actor.Reputation, 1)

	d.mu.Lock()
	d.pressured[target.ID] = actor.ID
	d.mu.Unlock()

	d.broadcast(game.TopicResolution, game.SocialDeescalationPayload{
		SourceID: actor.ID,
		TargetID: target.ID,
		Method:   decl.Skill,
	})
	d.appendEvents(ctx, game.NewEvent(game.EventSocialDeescalation, d.sessionID, round, d.now(), map[string]any{
		"source_id": actor.ID,
		"target_id": target.ID,
		"method":    decl.Skill,
	}))
	d.runMoraleCheck(ctx, round, target, "social_pressure", actor)
}

// applyDamage routes dealt damage to a single combatant or a group
// aggregate, updates the damage tracks, and runs the follow-up saves
// and morale checks.
func (d *Director) applyDamage(ctx context.Context, round int, attacker *game.Character, targetID string, dealt int) {
	target := d.lookup(targetID)
	if target == nil || target.Out() {
		return
	}

	d.mu.Lock()
	group := d.groups[targetID]
	d.mu.Unlock()

	if group != nil {
		lost := group.AbsorbDamage(dealt)
		target.Health = group.VisibleHP()
		for _, unitID := range lost {
			d.broadcast(game.TopicRoster, game.EnemyDefeatedPayload{CharacterID: unitID, Cause: "damage"})
			d.appendEvents(ctx, game.NewEvent(game.EventEnemyDefeated, d.sessionID, round, d.now(), map[string]any{
				"character_id": unitID,
				"group_id":     group.ID,
			}))
		}
		if group.Spent() {
			d.markDefeated(ctx, round, target, "group destroyed")
			return
		}
		if group.LiveUnits() == 1 {
			d.runMoraleCheck(ctx, round, target, "last_unit", attacker)
		}
		d.broadcast(game.TopicRoster, game.CharacterUpdatePayload{Character: *target})
		return
	}

	target.Health -= dealt
	target.Stun, target.Wounds = mech.ApplyMixed(target.Stun, target.Wounds, dealt, 0)

	if target.Health <= 0 {
		target.Health = 0
		d.markDefeated(ctx, round, target, "lethal damage")
		return
	}
	if mech.MustRollToStayAlive(target.Wounds) {
		save := d.svcs.Mechanics().Resolve(target.Attribute("toughness"), 1, deathSaveDifficulty, mech.CheckStandard)
		if save.Margin < 0 {
			d.markDefeated(ctx, round, target, "failed death save")
			return
		}
	}
	if mech.MustRollToStayConscious(target.Stun) {
		save := d.svcs.Mechanics().Resolve(target.Attribute("toughness"), 1, deathSaveDifficulty, mech.CheckStandard)
		if save.Margin < 0 {
			d.markDefeated(ctx, round, target, "knocked out")
			return
		}
	}

	if target.Faction == game.FactionEnemies {
		if trigger := d.moraleTrigger(target); trigger != "" {
			d.runMoraleCheck(ctx, round, target, trigger, attacker)
		}
	}
	d.broadcast(game.TopicRoster, game.CharacterUpdatePayload{Character: *target})
}

// moraleTrigger checks the standing trigger conditions: HP below a
// quarter, stun at five or more, or social pressure earlier in the
// round. The last-unit trigger is handled on the group path.
func (d *Director) moraleTrigger(c *game.Character) string {
	switch {
	case c.MaxHealth > 0 && c.Health*4 < c.MaxHealth:
		return "hp_below_quarter"
	case c.Stun >= 5:
		return "stun"
	}
	d.mu.Lock()
	_, pressured := d.pressured[c.ID]
	d.mu.Unlock()
	if pressured {
		return "social_pressure"
	}
	return ""
}

func (d *Director) runMoraleCheck(ctx context.Context, round int, target *game.Character, trigger string, attacker *game.Character) {
	if target.Status != game.StatusActive {
		return
	}
	willpower := target.Willpower
	if willpower == 0 {
		willpower = target.Attribute("willpower")
	}
	result := d.svcs.Mechanics().ResolveMorale(willpower, moraleThreshold)
	held := result.Margin >= 0
	if d.metrics != nil {
		d.metrics.RecordMoraleCheck(held)
	}

	newStatus := target.Status
	if !held {
		retreatBlocked := attacker != nil && attacker.Range == game.RangeEngaged && !attacker.Out()
		newStatus = target.BreakMorale(retreatBlocked)
		switch newStatus {
		case game.StatusRetreating:
			d.armEscapeClock(target.ID)
		case game.StatusSurrendered:
			d.takePrisoner(ctx, round, target, attacker, game.CaptureSurrender)
			d.armEscapeClock(target.ID)
		}
	}

	d.broadcast(game.TopicResolution, game.MoraleCheckPayload{
		CharacterID: target.ID,
		Trigger:     trigger,
		Result:      result,
		NewStatus:   newStatus,
	})
	d.appendEvents(ctx, game.NewEvent(game.EventMoraleCheck, d.sessionID, round, d.now(), map[string]any{
		"character_id": target.ID,
		"trigger":      trigger,
		"roll":         result.Roll,
		"total":        result.Total,
		"held":         held,
		"new_status":   string(newStatus),
	}))
	if !held {
		d.broadcast(game.TopicRoster, game.CharacterUpdatePayload{Character: *target})
	}
}

func (d *Director) armEscapeClock(characterID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.escapeClocks[characterID]; !ok {
		d.escapeClocks[characterID] = mech.NewClock("escape:"+characterID, defaultEscapeClockMax)
	}
}

func (d *Director) takePrisoner(ctx context.Context, round int, target *game.Character, captor *game.Character, method game.CaptureMethod) {
	p := game.Prisoner{
		CharacterID:   target.ID,
		Method:        method,
		Interrogation: game.InterrogationNone,
		CapturedAt:    d.now(),
		Round:         round,
	}
	if captor != nil {
		p.CapturedBy = captor.ID
	}
	d.mu.Lock()
	d.prisoners = append(d.prisoners, p)
	d.mu.Unlock()
	d.appendEvents(ctx, game.NewEvent(game.EventPrisonerTaken, d.sessionID, round, d.now(), map[string]any{
		"character_id": target.ID,
		"captured_by":  p.CapturedBy,
		"method":       string(method),
	}))
}

func (d *Director) markDefeated(ctx context.Context, round int, target *game.Character, cause string) {
	target.Status = game.StatusDefeated
	d.broadcast(game.TopicRoster, game.EnemyDefeatedPayload{CharacterID: target.ID, Cause: cause})
	d.broadcast(game.TopicRoster, game.CharacterUpdatePayload{Character: *target})
	d.appendEvents(ctx, game.NewEvent(game.EventEnemyDefeated, d.sessionID, round, d.now(), map[string]any{
		"character_id": target.ID,
		"cause":        cause,
	}))
}

// RoundCleanup advances escape clocks for everyone retreating or
// surrendered and removes those whose clock fires. Returns the ids
// removed this round.
func (d *Director) RoundCleanup(ctx context.Context, round, retreatIncrement int) []string {
	if retreatIncrement <= 0 {
		retreatIncrement = 1
	}
	var removed []string
	for _, c := range d.Roster() {
		if c.Status != game.StatusRetreating && c.Status != game.StatusSurrendered {
			continue
		}
		d.mu.Lock()
		clock := d.escapeClocks[c.ID]
		d.mu.Unlock()
		if clock == nil {
			d.armEscapeClock(c.ID)
			d.mu.Lock()
			clock = d.escapeClocks[c.ID]
			d.mu.Unlock()
		}
		if fired := clock.Tick(retreatIncrement); fired {
			c.Status = game.StatusRemoved
			removed = append(removed, c.ID)
			d.appendEvents(ctx, game.NewEvent(game.EventClockFired, d.sessionID, round, d.now(), map[string]any{
				"clock":        clock.Name,
				"character_id": c.ID,
			}))
			d.broadcast(game.TopicRoster, game.CharacterUpdatePayload{Character: *c})
		}
	}
	return removed
}

// SpawnEnemy registers a reinforcement mid-session and announces it.
func (d *Director) SpawnEnemy(ctx context.Context, round int, c *game.Character) {
	d.RegisterCharacter(c)
	d.broadcast(game.TopicRoster, game.EnemySpawnedPayload{Character: *c})
	d.appendEvents(ctx, game.NewEvent(game.EventEnemySpawned, d.sessionID, round, d.now(), map[string]any{
		"character_id": c.ID,
		"name":         c.Name,
	}))
}

func (d *Director) lookup(id string) *game.Character {
	if id == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.characters[id]
}

func (d *Director) firstOpenClock() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.clocks {
		if !c.Fired {
			return c.Name
		}
	}
	return ""
}

// narrate calls the external narration service with a bounded
// timeout. A transport failure is returned to the caller (hard skip);
// an incomplete or mismatched result is degraded to numeric-only and
// logged as a format error.
func (d *Director) narrate(ctx context.Context, round int, actor *game.Character, resolution *game.ActionResolution) (string, error) {
	if d.narrator == nil {
		return "", nil
	}
	nctx, cancel := context.WithTimeout(ctx, d.narrationTimeout)
	defer cancel()

	result, err := d.narrator.Narrate(nctx, ports.NarrationContext{
		SessionID:  d.sessionID,
		Round:      round,
		Actor:      game.CombatantView{ID: actor.ID, Name: actor.Name, Faction: actor.Faction, Health: actor.Health, Range: actor.Range, Status: actor.Status},
		Resolution: *resolution,
	})
	if err != nil {
		return "", err
	}
	if result.Text == "" || (result.Tier != "" && result.Tier != resolution.Result.Tier.String()) {
		d.appendEvents(ctx, game.NewEvent(game.EventFormatError, d.sessionID, round, d.now(), map[string]any{
			"actor_id": actor.ID,
			"reason":   "narration missing or mismatched tier data",
			"got_tier": result.Tier,
		}))
		return "", nil
	}
	return result.Text, nil
}
