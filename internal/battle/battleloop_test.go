package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScripts is a minimal ScriptSource backed by a fixed map, enough to
// drive UseAbilityID in tests without a real script-table loader.
type stubScripts struct {
	castTurns map[int][][]EffectRow
	cooldowns map[int]int
}

func (s *stubScripts) GetAbilityCastTurns(abilityID int) ([][]EffectRow, bool) {
	t, ok := s.castTurns[abilityID]
	return t, ok
}
func (s *stubScripts) GetAbilityCooldown(abilityID int) int { return s.cooldowns[abilityID] }
func (s *stubScripts) GetAbilityInfo(abilityID int) (AbilityInfo, bool) {
	return AbilityInfo{}, false
}
func (s *stubScripts) GetAuraPeriodic(auraID int) map[string][]EffectRow { return nil }
func (s *stubScripts) GetAuraMeta(auraID int) (AuraMeta, bool)           { return AuraMeta{}, false }

func newTestBattle() (*Context, *BattleLoop, *Creature, *Creature) {
	a := NewCreature("a1", 1, FamilyBeast, 1, 1, 10, 300, 50, 20)
	b := NewCreature("b1", 2, FamilyHumanoid, 1, 1, 10, 300, 50, 10)
	a.AbilityIDs[0] = 900
	pets := map[string]*Creature{"a1": a, "b1": b}

	ctx := NewContextWithRNG(NewSequenceRNGStreams(
		NewSequenceRNG(0, 0, 0, 0, 0, 0, 0, 0),
		NewSequenceRNG(0, 0, 0, 0, 0, 0, 0, 0),
		NewVarianceSequenceRNG(1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0),
		NewSequenceRNG(1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0),
	), pets, 20)

	ctx.Teams.RegisterTeam(&Team{ID: "A", CreatureIDs: []string{"a1"}})
	ctx.Teams.RegisterTeam(&Team{ID: "B", CreatureIDs: []string{"b1"}})

	ctx.Scripts = &stubScripts{
		castTurns: map[int][][]EffectRow{
			900: {{
				{AbilityID: 900, OpcodeID: OpcodeDirectDamage, ParamSchema: "points,accuracy", Params: [6]int{30, 100}},
			}},
		},
		cooldowns: map[int]int{900: 2},
	}

	loop := NewBattleLoop(ctx, "A", "B")
	return ctx, loop, a, b
}

func TestBattleLoop_LegalActionsIncludesAbilityAndSwap(t *testing.T) {
	_, loop, _, _ := newTestBattle()
	actions := loop.LegalActions("A")
	require.NotEmpty(t, actions)

	var hasAbility bool
	for _, a := range actions {
		if a.Kind == ActionUseAbility && a.AbilityID == 900 {
			hasAbility = true
		}
	}
	assert.True(t, hasAbility)
}

func TestBattleLoop_RunRoundAppliesDamageAndCooldown(t *testing.T) {
	ctx, loop, a, b := newTestBattle()

	outcome := loop.RunRound(
		Action{Kind: ActionUseAbility, ActorID: "a1", AbilityID: 900, Slot: 1},
		Action{Kind: ActionPass, ActorID: "b1"},
	)

	assert.Equal(t, 1, outcome.RoundNumber)
	assert.Less(t, b.HP, b.MaxHP)
	assert.Equal(t, 2, ctx.Cooldowns.Get(a.ID, 900))
	assert.Equal(t, "", outcome.WinnerTeamID)
	assert.False(t, outcome.Draw)
}

func TestBattleLoop_FasterActorGoesFirstWhenNoPriority(t *testing.T) {
	ctx, loop, a, b := newTestBattle()
	_ = ctx
	assert.Greater(t, a.Speed, b.Speed)

	_, secondTeam, firstAction, _ := loop.order(
		Action{Kind: ActionUseAbility, ActorID: "a1"},
		Action{Kind: ActionUseAbility, ActorID: "b1"},
	)
	assert.Equal(t, "a1", firstAction.ActorID)
	assert.Equal(t, "B", secondTeam)
}

func TestBattleLoop_DrawOnMaxRoundsExceeded(t *testing.T) {
	ctx, loop, _, _ := newTestBattle()
	ctx.MaxRounds = 1
	ctx.Round.Number = 1

	outcome := loop.RunRound(Action{Kind: ActionPass, ActorID: "a1"}, Action{Kind: ActionPass, ActorID: "b1"})
	assert.True(t, outcome.Draw)
}

func TestBattleLoop_WinnerWhenOneTeamWiped(t *testing.T) {
	ctx, loop, _, b := newTestBattle()
	b.HP = 1
	b.MaxHP = 300

	outcome := loop.RunRound(
		Action{Kind: ActionUseAbility, ActorID: "a1", AbilityID: 900, Slot: 1},
		Action{Kind: ActionPass, ActorID: "b1"},
	)
	assert.Equal(t, "A", outcome.WinnerTeamID)
	assert.False(t, ctx.TeamHasSurvivors("B"))
}
