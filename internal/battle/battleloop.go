package battle

// RoundOutcome is what RunRound returns.
type RoundOutcome struct {
	WinnerTeamID string // "" if undecided (round continues) or a draw
	Draw         bool
	RoundNumber  int
}

// BattleLoop runs the two-team round lifecycle over a shared Context.
type BattleLoop struct {
	ctx      *Context
	TeamAID  string
	TeamBID  string
}

// NewBattleLoop builds a loop over two already-registered teams.
func NewBattleLoop(ctx *Context, teamAID, teamBID string) *BattleLoop {
	return &BattleLoop{ctx: ctx, TeamAID: teamAID, TeamBID: teamBID}
}

// LegalActions enumerates everything a team may legally do this round.
// If the active pet is dead, only forced-swap-eligible candidates
// (modeled here as a single synthetic PASS, since the battle loop itself
// performs the automatic replacement in step 2 of RunRound) are legal.
func (b *BattleLoop) LegalActions(teamID string) []Action {
	ctx := b.ctx
	team := ctx.Teams.Team(teamID)
	if team == nil {
		return []Action{{Kind: ActionPass}}
	}
	activeID := team.ActivePetID()
	active := ctx.Pets[activeID]
	if active == nil || !active.Alive {
		return []Action{{Kind: ActionPass}}
	}

	var legal []Action
	if ctx.Teams.CanAct(activeID) {
		for slot, abilityID := range active.AbilityIDs {
			if abilityID == 0 {
				continue
			}
			slotNum := slot + 1
			if ctx.Cooldowns.Get(activeID, abilityID) > 0 {
				continue
			}
			if ctx.Teams.SlotLocked(activeID, slotNum) || ctx.Teams.AbilityLocked(activeID, abilityID) {
				continue
			}
			legal = append(legal, Action{Kind: ActionUseAbility, ActorID: activeID, AbilityID: abilityID, Slot: slotNum})
		}
	}
	if ctx.Teams.CanSwapOut(activeID) {
		for i, id := range team.CreatureIDs {
			if i == team.ActiveIndex {
				continue
			}
			if p := ctx.Pets[id]; p != nil && p.Alive && ctx.Teams.CanSwapIn(id) {
				legal = append(legal, Action{Kind: ActionSwap, ActorID: activeID, SwapIndex: i})
			}
		}
	}
	if len(legal) == 0 {
		return []Action{{Kind: ActionPass}}
	}
	return legal
}

// legalize replaces a stale action (one no longer in LegalActions) with
// the first currently-legal one.
func (b *BattleLoop) legalize(teamID string, action Action) Action {
	legal := b.LegalActions(teamID)
	for _, la := range legal {
		if la.Kind == action.Kind && la.AbilityID == action.AbilityID && la.SwapIndex == action.SwapIndex {
			return action
		}
	}
	return legal[0]
}

// autoReplaceIfDead performs step 2's automatic replacement and reports
// whether the team's chosen action must be skipped this round.
func (b *BattleLoop) autoReplaceIfDead(teamID string) (skipped bool) {
	ctx := b.ctx
	team := ctx.Teams.Team(teamID)
	if team == nil {
		return true
	}
	active := ctx.Pets[team.ActivePetID()]
	if active != nil && active.Alive {
		return false
	}
	res := ctx.Teams.ForceSwapRandom(teamID)
	if res.Reason != SwapOK {
		return true
	}
	return true
}

// order computes which team acts first under spec §4.18 step 3.
func (b *BattleLoop) order(actionA, actionB Action) (firstTeam, secondTeam string, firstAction, secondAction Action) {
	ctx := b.ctx
	aActor := ctx.Pets[actionA.ActorID]
	bActor := ctx.Pets[actionB.ActorID]

	if ctx.Round.PriorityActorID != "" {
		if aActor != nil && aActor.ID == ctx.Round.PriorityActorID {
			return b.TeamAID, b.TeamBID, actionA, actionB
		}
		if bActor != nil && bActor.ID == ctx.Round.PriorityActorID {
			return b.TeamBID, b.TeamAID, actionB, actionA
		}
	}

	if actionA.Kind.Priority() != actionB.Kind.Priority() {
		if actionA.Kind.Priority() < actionB.Kind.Priority() {
			return b.TeamAID, b.TeamBID, actionA, actionB
		}
		return b.TeamBID, b.TeamAID, actionB, actionA
	}

	speedA, speedB := 0, 0
	if aActor != nil {
		speedA = aActor.Speed
	}
	if bActor != nil {
		speedB = bActor.Speed
	}
	if speedA != speedB {
		if speedA > speedB {
			return b.TeamAID, b.TeamBID, actionA, actionB
		}
		return b.TeamBID, b.TeamAID, actionB, actionA
	}

	if ctx.RNG.Gate.Float64() < 0.5 {
		return b.TeamAID, b.TeamBID, actionA, actionB
	}
	return b.TeamBID, b.TeamAID, actionB, actionA
}

// execute runs one team's action (SWAP via Team Manager, USE_ABILITY via
// UseAbilityID against the opposing active pet, PASS as a no-op).
func (b *BattleLoop) execute(teamID string, action Action, opposingTeamID string) {
	ctx := b.ctx
	switch action.Kind {
	case ActionSwap:
		ctx.Teams.Swap(teamID, action.SwapIndex)
	case ActionUseAbility:
		actor := ctx.Pets[action.ActorID]
		opposing := ctx.Pets[ctx.Teams.ActivePetID(opposingTeamID)]
		if actor == nil || opposing == nil {
			return
		}
		UseAbilityID(ctx, actor, opposing, action.AbilityID, action.Slot)
	case ActionPass:
	}
}

// RunRound executes spec §4.18's seven-step round lifecycle given the
// two teams' chosen actions (stale actions are re-legalized internally).
func (b *BattleLoop) RunRound(actionA, actionB Action) RoundOutcome {
	ctx := b.ctx

	OnTurnStart(ctx)
	ctx.Racial.OnRoundStart(allPets(ctx))

	skipA := b.autoReplaceIfDead(b.TeamAID)
	skipB := b.autoReplaceIfDead(b.TeamBID)

	actionA = b.legalize(b.TeamAID, actionA)
	actionB = b.legalize(b.TeamBID, actionB)

	firstTeam, secondTeam, firstAction, secondAction := b.order(actionA, actionB)
	firstSkip, secondSkip := skipA, skipB
	if firstTeam == b.TeamBID {
		firstSkip, secondSkip = skipB, skipA
	}

	ctx.Round.FirstTeamID = firstTeam
	ctx.Round.SecondTeamID = secondTeam
	ctx.Round.FirstActorID = firstAction.ActorID
	ctx.Round.SecondActorID = secondAction.ActorID
	ctx.Round.Phase = PhaseFirstAction

	if !firstSkip {
		b.execute(firstTeam, firstAction, secondTeam)
	}
	if !ctx.TeamHasSurvivors(secondTeam) {
		secondSkip = true
	}

	ctx.Round.Phase = PhaseSecondAction
	if !secondSkip {
		b.execute(secondTeam, secondAction, firstTeam)
	}

	ctx.Round.Phase = PhaseNone
	OnTurnEnd(ctx)
	ctx.Racial.OnRoundEnd(allPets(ctx))

	outcome := RoundOutcome{RoundNumber: ctx.Round.Number}
	aAlive := ctx.TeamHasSurvivors(b.TeamAID)
	bAlive := ctx.TeamHasSurvivors(b.TeamBID)
	switch {
	case aAlive && !bAlive:
		outcome.WinnerTeamID = b.TeamAID
	case bAlive && !aAlive:
		outcome.WinnerTeamID = b.TeamBID
	case !aAlive && !bAlive:
		outcome.Draw = true
	}
	if ctx.Round.Number >= ctx.MaxRounds && outcome.WinnerTeamID == "" && !outcome.Draw {
		outcome.Draw = true
	}
	return outcome
}

// allPets returns every creature in the battle sorted by id, so that
// hooks iterating over "all pets" are as deterministic as every other
// observable iteration in this package.
func allPets(ctx *Context) []*Creature {
	return sortedPets(ctx)
}
