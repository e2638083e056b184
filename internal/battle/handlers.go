package battle

// applyDamage writes resolved damage onto target, runs racial
// death/revival hooks, and records the acc_ctx last-damage summary every
// damage-producing opcode must update (open question 2 depends on this
// being unconditional, not opcode-specific).
func applyDamage(ctx *Context, actor, target *Creature, dmg int) {
	hpBefore := target.HP
	hpAfter := hpBefore - dmg
	if hpAfter < 0 {
		hpAfter = 0
	}
	target.HP = hpAfter
	ctx.Racial.OnDamageDealt(actor, target, dmg, hpBefore, hpAfter)

	if hpAfter <= 0 {
		target.Alive = false
		if ctx.Racial.OnPetDeath(target) {
			target.Alive = true
		}
	}

	ctx.ActCtx.LastDamageDealt = dmg
	ctx.ActCtx.LastDamageTargetID = target.ID

	ctx.Log("DAMAGE_APPLIED", map[string]interface{}{
		"actor_id": actor.ID, "target_id": target.ID,
		"target_hp_before": hpBefore, "target_hp_after": hpAfter, "actual_damage": dmg,
	})
}

// handleDirectDamage is opcode 24: a hit-checked, fully-piped damage hit.
func handleDirectDamage(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	accuracy := float64(p["accuracy"])
	hit := HitCheck(ctx.RNG, ctx.Stats, ctx.Weather, ctx.ActCtx, actor, target, accuracy, ctx.ActCtx.DontMiss)
	if !hit.Hit {
		return failed(WarnMiss, "")
	}
	resolved := ctx.Damage.Resolve(DamageEvent{Actor: actor, Target: target, Points: p["points"]})
	applyDamage(ctx, actor, target, resolved.FinalDamage)
	return ok()
}

// handleGuaranteedDamage is opcode 25: skips the hit roll's failure path
// but still consumes the rand_hit draw via HitCheck's dont_miss branch.
func handleGuaranteedDamage(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	HitCheck(ctx.RNG, ctx.Stats, ctx.Weather, ctx.ActCtx, actor, target, 100, true)
	resolved := ctx.Damage.Resolve(DamageEvent{Actor: actor, Target: target, Points: p["points"]})
	applyDamage(ctx, actor, target, resolved.FinalDamage)
	return ok()
}

// handleHeal is opcode 40.
func handleHeal(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	accuracy := float64(p["accuracy"])
	hit := HitCheck(ctx.RNG, ctx.Stats, ctx.Weather, ctx.ActCtx, actor, target, accuracy, ctx.ActCtx.DontMiss)
	if !hit.Hit {
		return failed(WarnMiss, "")
	}
	resolved := ctx.Heal.Resolve(HealEvent{Actor: actor, Target: target, Points: p["points"]})
	target.HP += resolved.FinalHeal
	if target.HP > target.MaxHP {
		target.HP = target.MaxHP
	}
	return ok()
}

// handleSetState is opcode 50. Writing state 141=1 is the documented
// mass-dispel sentinel: the state itself carries no other meaning.
func handleSetState(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	stateID, value := p["state_id"], p["value"]
	ctx.States.Set(target.ID, stateID, value)
	if stateID == StateDispelAllSentinel && value == 1 {
		removed := ctx.Auras.RemoveAll(target.ID)
		ctx.Log("aura_dispel_all", map[string]interface{}{"target_id": target.ID, "removed": removed})
	}
	return ok()
}

// handleAddState is opcode 51.
func handleAddState(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	ctx.States.Add(target.ID, p["state_id"], p["delta"])
	return ok()
}

// handleRampCounter is opcode 27 (open question 1): increments a
// synthetic per-actor state and never resets it on miss or swap-out —
// there is deliberately no reset path anywhere in this file.
func handleRampCounter(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	ctx.States.Add(actor.ID, p["state_id"], p["amount"])
	return ok()
}

// handleLifesteal is opcode 32 (open question 2): heals actor off
// acc_ctx.last_damage_dealt unconditionally, regardless of which target
// that damage actually landed on.
func handleLifesteal(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	heal := ctx.ActCtx.LastDamageDealt * p["pct"] / 100
	actor.HP += heal
	if actor.HP > actor.MaxHP {
		actor.HP = actor.MaxHP
	}
	return ok()
}

// handleApplyAura is opcode 60.
func handleApplyAura(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	res := ctx.Auras.Apply(target.ID, actor.ID, target.Family, p["aura_id"], p["duration"], p["duration"] == -1, p["tickdown_first_round"] != 0, row.EffectID, AuraMeta{})
	if res.Reason == AuraExpiredImmediate {
		return failed(WarnExpiredImmediately, "")
	}
	return ok()
}

// handleApplyAuraStacking is opcode 61.
func handleApplyAuraStacking(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	res := ctx.Auras.ApplyWithStackLimit(target.ID, actor.ID, target.Family, p["aura_id"], p["duration"], p["duration"] == -1, p["tickdown_first_round"] != 0, row.EffectID, AuraMeta{}, p["max_stacks"])
	if res.Reason == AuraExpiredImmediate {
		return failed(WarnExpiredImmediately, "")
	}
	return ok()
}

// handleApplyWeatherAura is opcode 65: identical mechanism to
// handleApplyAura, distinguished only by baking a Weather_* state bind
// into the aura's meta so the Weather Manager's onApplied hook picks it
// up — weather has no storage of its own (spec §4.16).
func handleApplyWeatherAura(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	meta := AuraMeta{StateBinds: []StateBind{{StateID: p["weather_state_id"], Value: 1}}}
	ctx.Auras.Apply(target.ID, actor.ID, target.Family, p["aura_id"], p["duration"], p["duration"] == -1, false, row.EffectID, meta)
	return ok()
}

// handleRemoveAura is opcode 150.
func handleRemoveAura(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	if !ctx.Auras.Remove(target.ID, p["aura_id"]) {
		return failed(WarnAuraIDMissing, "")
	}
	return ok()
}

// handleStopTurn is opcode 90.
func handleStopTurn(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	return okStop(FlowStopTurn)
}

// handleGateStopAbility is opcode 91.
func handleGateStopAbility(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	gate := GateCheck(ctx.RNG, float64(p["chance_pct"]))
	if !gate.Passed {
		return failedStop(WarnRequiredStateFail, "gate_failed", FlowStopAbility)
	}
	return ok()
}

// handleSetTargetOverride is opcode 100: redirects subsequent rows in
// this turn to the actor (a self-target override), consumed after the
// next row if consume=1.
func handleSetTargetOverride(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	ctx.ActCtx.TargetOverrideID = actor.ID
	ctx.ActCtx.ConsumeTargetOverride = p["consume"] != 0
	return ok()
}

// handleForcedSwap is opcode 110: ejects target's active pet.
func handleForcedSwap(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	teamID := ctx.Teams.TeamOfPet(target.ID)
	res := ctx.Teams.ForceSwapRandom(teamID)
	if res.Reason != SwapOK {
		return failed(WarnRequiredStateFail, string(res.Reason))
	}
	return ok()
}

// handleResurrect is opcode 120.
func handleResurrect(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	if target.Alive {
		return failed(WarnRequiredStateFail, "target_not_dead")
	}
	hp := target.MaxHP * p["pct_of_max_hp"] / 100
	if hp < 1 {
		hp = 1
	}
	target.HP = hp
	target.Alive = true
	return ok()
}

// handleChargeRelease is opcode 76 (open question 3): if the referenced
// aura already exists on the actor, consume it and deal damage now;
// otherwise apply a 1-round self aura marking the charge-up.
func handleChargeRelease(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	auraID := p["aura_id"]
	if ctx.Auras.Get(actor.ID, auraID) != nil {
		ctx.Auras.Remove(actor.ID, auraID)
		accuracy := float64(p["accuracy"])
		hit := HitCheck(ctx.RNG, ctx.Stats, ctx.Weather, ctx.ActCtx, actor, target, accuracy, ctx.ActCtx.DontMiss)
		if !hit.Hit {
			return failed(WarnMiss, "")
		}
		resolved := ctx.Damage.Resolve(DamageEvent{Actor: actor, Target: target, Points: p["points"]})
		applyDamage(ctx, actor, target, resolved.FinalDamage)
		return ok()
	}
	ctx.Auras.Apply(actor.ID, actor.ID, actor.Family, auraID, 1, false, false, row.EffectID, AuraMeta{})
	return okStop(FlowStopAbility)
}

// handlePriorityMarker is opcode 116: marks the actor as this round's
// one-shot highest-priority actor, read by the battle loop's ordering
// rule (a).
func handlePriorityMarker(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	ctx.Round.PriorityActorID = actor.ID
	return ok()
}

// handleSlotLock is opcode 117.
func handleSlotLock(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	ctx.Teams.SetSlotLock(target.ID, p["slot"], p["duration"])
	return ok()
}

// handlePendingAbilityLock is opcode 129.
func handlePendingAbilityLock(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	ctx.Teams.SetPendingNextAbilityLock(target.ID, p["duration"])
	return ok()
}

// handleDontMiss is opcode 140: arms the per-ability dont_miss flag for
// the remainder of this ability use (not just this row).
func handleDontMiss(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	ctx.ActCtx.DontMiss = true
	return ok()
}

// handleAccuracyOverride is opcode 142.
func handleAccuracyOverride(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	v := p["accuracy_pct"]
	ctx.ActCtx.AccuracyOverride = &v
	return ok()
}

// handleVarianceOverride is opcode 143. variance_x100 is a percentage of
// 1.0 (e.g. 100 => 1.0) so effect rows can express it as an integer.
func handleVarianceOverride(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	v := float64(p["variance_x100"]) / 100
	ctx.ActCtx.VarianceOverride = &v
	return ok()
}

// handleReduceCooldown is opcode 160: reduces the actor's own cooldown
// on a named ability.
func handleReduceCooldown(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	cur := ctx.Cooldowns.Get(actor.ID, p["ability_id"])
	next := cur - p["turns"]
	if next < 0 {
		next = 0
	}
	ctx.Cooldowns.Set(actor.ID, p["ability_id"], next)
	return ok()
}

// handleRequireState is opcode 170.
func handleRequireState(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	if ctx.States.Get(actor.ID, p["state_id"], 0) < p["min_value"] {
		return failedStop(WarnRequiredStateFail, "", FlowStopAbility)
	}
	return ok()
}

// handleExecuteReverse is opcode 135 (open question 4): if target is
// Undead-immortal and reverse is enabled, retarget the execute attempt
// to the caster — but never ricochet back to the original target if the
// caster also turns out to be immune.
func handleExecuteReverse(ctx *Context, actor, target *Creature, row EffectRow, p map[string]int) EffectResult {
	target = resolveTarget(ctx, target)
	enableReverse := p["enable_reverse"] != 0
	if ctx.Racial.ShouldIgnoreDamage(target) {
		if !enableReverse {
			return failed(WarnImmune, "")
		}
		if ctx.Racial.ShouldIgnoreDamage(actor) {
			return failed(WarnImmune, "")
		}
		target = actor
	}
	threshold := float64(p["threshold_pct"]) / 100
	if float64(target.HP) <= threshold*float64(target.MaxHP) {
		applyDamage(ctx, actor, target, target.HP)
	}
	return ok()
}

// resolveTarget applies the one-shot target override, if any, resolving
// it against ctx.Pets; falls back to the declared target when the
// override id is unset or unknown.
func resolveTarget(ctx *Context, declared *Creature) *Creature {
	overridden := ctx.ActCtx.EffectiveTarget(declared.ID)
	if p, ok := ctx.Pets[overridden]; ok {
		return p
	}
	return declared
}

// DefaultHandlerRegistry returns the opcode -> Handler map for this
// engine's representative opcode subset.
func DefaultHandlerRegistry() map[int]Handler {
	return map[int]Handler{
		OpcodeDirectDamage:       handleDirectDamage,
		OpcodeGuaranteedDamage:   handleGuaranteedDamage,
		OpcodeRampCounter:        handleRampCounter,
		OpcodeLifesteal:          handleLifesteal,
		OpcodeHeal:               handleHeal,
		OpcodeSetState:           handleSetState,
		OpcodeAddState:           handleAddState,
		OpcodeApplyAura:          handleApplyAura,
		OpcodeApplyAuraStacking:  handleApplyAuraStacking,
		OpcodeApplyWeatherAura:   handleApplyWeatherAura,
		OpcodeRemoveAura:         handleRemoveAura,
		OpcodeStopTurn:           handleStopTurn,
		OpcodeGateStopAbility:    handleGateStopAbility,
		OpcodeSetTargetOverride:  handleSetTargetOverride,
		OpcodeForcedSwap:         handleForcedSwap,
		OpcodeResurrect:          handleResurrect,
		OpcodeChargeRelease:      handleChargeRelease,
		OpcodePriorityMarker:     handlePriorityMarker,
		OpcodeSlotLock:           handleSlotLock,
		OpcodePendingAbilityLock: handlePendingAbilityLock,
		OpcodeDontMiss:           handleDontMiss,
		OpcodeAccuracyOverride:   handleAccuracyOverride,
		OpcodeVarianceOverride:   handleVarianceOverride,
		OpcodeReduceCooldown:     handleReduceCooldown,
		OpcodeRequireState:       handleRequireState,
		OpcodeExecuteReverse:     handleExecuteReverse,
	}
}

// DefaultHandlerMeta returns the semantic-registry entries (expected
// schema labels) for every opcode in DefaultHandlerRegistry.
func DefaultHandlerMeta() map[int]HandlerMeta {
	entries := []HandlerMeta{
		{OpcodeDirectDamage, "direct_damage", "points,accuracy"},
		{OpcodeGuaranteedDamage, "guaranteed_damage", "points"},
		{OpcodeRampCounter, "ramp_counter", "state_id,amount"},
		{OpcodeLifesteal, "lifesteal", "pct"},
		{OpcodeHeal, "heal", "points,accuracy"},
		{OpcodeSetState, "set_state", "state_id,value"},
		{OpcodeAddState, "add_state", "state_id,delta"},
		{OpcodeApplyAura, "apply_aura", "aura_id,duration,tickdown_first_round"},
		{OpcodeApplyAuraStacking, "apply_aura_stacking", "aura_id,duration,tickdown_first_round,max_stacks"},
		{OpcodeApplyWeatherAura, "apply_weather_aura", "aura_id,duration,weather_state_id"},
		{OpcodeRemoveAura, "remove_aura", "aura_id"},
		{OpcodeStopTurn, "stop_turn", ""},
		{OpcodeGateStopAbility, "gate_stop_ability", "chance_pct"},
		{OpcodeSetTargetOverride, "set_target_override", "consume"},
		{OpcodeForcedSwap, "forced_swap", ""},
		{OpcodeResurrect, "resurrect", "pct_of_max_hp"},
		{OpcodeChargeRelease, "charge_release", "aura_id,points,accuracy"},
		{OpcodePriorityMarker, "priority_marker", ""},
		{OpcodeSlotLock, "slot_lock", "slot,duration"},
		{OpcodePendingAbilityLock, "pending_ability_lock", "duration"},
		{OpcodeDontMiss, "dont_miss", ""},
		{OpcodeAccuracyOverride, "accuracy_override", "accuracy_pct"},
		{OpcodeVarianceOverride, "variance_override", "variance_x100"},
		{OpcodeReduceCooldown, "reduce_cooldown", "ability_id,turns"},
		{OpcodeRequireState, "require_state", "state_id,min_value"},
		{OpcodeExecuteReverse, "execute_reverse", "threshold_pct,enable_reverse"},
	}
	out := make(map[int]HandlerMeta, len(entries))
	for _, e := range entries {
		out[e.OpcodeID] = e
	}
	return out
}
