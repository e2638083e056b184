package battle

// TurnOutcome is what executing one cast turn (a sorted list of effect
// rows) produced.
type TurnOutcome struct {
	StopAbility bool
	Warnings    []Warning
}

// ExecuteTurn runs a sorted list of effect rows as a single ability
// turn (spec §4.13). Rows are sorted ascending by OrderIndex, tiebreak
// EffectID before execution; the caller's slice is not mutated.
func ExecuteTurn(ctx *Context, actor, declaredTarget *Creature, rows []EffectRow) TurnOutcome {
	sorted := make([]EffectRow, len(rows))
	copy(sorted, rows)
	SortRows(sorted)

	ctx.ActCtx.ResetTurn()
	var warnings []Warning
	for _, row := range sorted {
		overrideActive := ctx.ActCtx.TargetOverrideID != ""
		target := resolveTarget(ctx, declaredTarget)
		result := ctx.Dispatcher.Dispatch(ctx, actor, target, row)
		if result.Warning != nil {
			warnings = append(warnings, *result.Warning)
		}
		// A one-shot override is consumed after the row it applied to,
		// not after the row that set it.
		pending := !overrideActive && ctx.ActCtx.ConsumeTargetOverride
		if pending {
			ctx.ActCtx.ConsumeTargetOverride = false
		}
		ctx.ActCtx.AfterRow(result.Executed, result.Flow, row.EffectID)
		if pending {
			ctx.ActCtx.ConsumeTargetOverride = true
		}
		if result.Flow == FlowStopTurn {
			return TurnOutcome{Warnings: warnings}
		}
		if result.Flow == FlowStopAbility {
			return TurnOutcome{StopAbility: true, Warnings: warnings}
		}
	}
	return TurnOutcome{Warnings: warnings}
}

// UseAbilityReason explains why use_ability(_id) did or didn't execute.
type UseAbilityReason string

const (
	UseAbilityOK       UseAbilityReason = "OK"
	UseAbilityCannotAct UseAbilityReason = "CANNOT_ACT"
	UseAbilityCooldown UseAbilityReason = "COOLDOWN"
	UseAbilityNoScript UseAbilityReason = "NO_SCRIPT"
)

// UseAbilityResult is the outcome of use_ability / use_ability_id.
type UseAbilityResult struct {
	Reason      UseAbilityReason
	StopAbility bool
	Warnings    []Warning
}

// cooldownSlotModifier reads the per-(creature, slot) cooldown modifier
// the spec names as "opcode 246" (§4.14): this engine models it as a
// per-slot state id (245+slot) rather than a dispatched effect row,
// since no ability ever needs to invoke it directly — see DESIGN.md.
func cooldownSlotModifier(ctx *Context, creatureID string, slot int) int {
	if slot <= 0 {
		return 0
	}
	return ctx.States.Get(creatureID, 245+slot, 0)
}

// UseAbility executes a hand-built row list directly (the non-data-driven
// variant of spec §4.14), gating on turn-lock and applying the pending
// next-ability lock before running the rows as a single turn.
func UseAbility(ctx *Context, actor, target *Creature, rows []EffectRow, cooldown int, slot int) UseAbilityResult {
	if !ctx.Teams.CanAct(actor.ID) {
		return UseAbilityResult{Reason: UseAbilityCannotAct}
	}
	abilityID := 0
	if len(rows) > 0 {
		abilityID = rows[0].AbilityID
	}
	ctx.Teams.OnPetUseAbility(actor.ID, abilityID, slot)

	outcome := ExecuteTurn(ctx, actor, target, rows)
	if cooldown > 0 {
		modified := cooldown + cooldownSlotModifier(ctx, actor.ID, slot)
		if modified < 0 {
			modified = 0
		}
		ctx.Cooldowns.Set(actor.ID, abilityID, modified)
	}
	return UseAbilityResult{Reason: UseAbilityOK, StopAbility: outcome.StopAbility, Warnings: outcome.Warnings}
}

// UseAbilityID executes the data-driven variant: fetches cast turns
// from the wired ScriptSource, gates on turn-lock and remaining
// cooldown, then runs each cast turn in ascending order until a row
// signals STOP_ABILITY or the turns run out.
func UseAbilityID(ctx *Context, actor, target *Creature, abilityID int, slot int) UseAbilityResult {
	if !ctx.Teams.CanAct(actor.ID) {
		return UseAbilityResult{Reason: UseAbilityCannotAct}
	}
	if ctx.Cooldowns.Get(actor.ID, abilityID) > 0 {
		return UseAbilityResult{Reason: UseAbilityCooldown}
	}
	if ctx.Scripts == nil {
		return UseAbilityResult{Reason: UseAbilityNoScript}
	}
	turns, ok := ctx.Scripts.GetAbilityCastTurns(abilityID)
	if !ok {
		return UseAbilityResult{Reason: UseAbilityNoScript}
	}

	ctx.Teams.OnPetUseAbility(actor.ID, abilityID, slot)
	ctx.ActCtx.ResetAbility()

	var warnings []Warning
	for _, rows := range turns {
		outcome := ExecuteTurn(ctx, actor, target, rows)
		warnings = append(warnings, outcome.Warnings...)
		if outcome.StopAbility {
			break
		}
	}

	cooldown := ctx.Scripts.GetAbilityCooldown(abilityID)
	if cooldown > 0 {
		modified := cooldown + cooldownSlotModifier(ctx, actor.ID, slot)
		if modified < 0 {
			modified = 0
		}
		ctx.Cooldowns.Set(actor.ID, abilityID, modified)
	}
	return UseAbilityResult{Reason: UseAbilityOK, Warnings: warnings}
}

// runPeriodicTicks is the Tick Engine (spec §4.15): for every creature
// in ctx.Pets (alive or not), for every one of their auras, execute the payload bound to
// this event as an ability turn, resolving the caster from ctx.Pets.
func runPeriodicTicks(ctx *Context, event string) {
	for _, creature := range sortedPets(ctx) {
		for _, aura := range ctx.Auras.ListOwner(creature.ID) {
			rows, ok := aura.Meta.PeriodicPayloads[event]
			if !ok || len(rows) == 0 {
				continue
			}
			caster := ctx.Pets[aura.Caster]
			if caster == nil {
				caster = creature
			}
			ExecuteTurn(ctx, caster, creature, rows)
		}
	}
}

// OnTurnStart runs spec §4.14's on_turn_start lifecycle.
func OnTurnStart(ctx *Context) {
	ctx.Round.Number++
	ctx.Cooldowns.TickDown()
	ctx.Teams.TickDown()

	for _, packet := range ctx.Scheduler.Tick() {
		actor := ctx.Pets[packet.ActorID]
		target := ctx.Pets[packet.TargetID]
		if actor == nil || target == nil {
			continue
		}
		ExecuteTurn(ctx, actor, target, packet.EffectRows)
	}

	runPeriodicTicks(ctx, "TURN_START")
	ctx.Stats.SyncAll(ctx.Pets)
}

// OnTurnEnd runs spec §4.14's on_turn_end lifecycle.
func OnTurnEnd(ctx *Context) {
	runPeriodicTicks(ctx, "TURN_END")

	for _, creature := range sortedPets(ctx) {
		for _, auraID := range ctx.Auras.Tick(creature.ID) {
			ctx.Log("aura_expire", map[string]interface{}{"owner": creature.ID, "aura_id": auraID})
		}
	}

	ctx.Stats.SyncAll(ctx.Pets)
	ctx.Weather.clearIfGone()
}
