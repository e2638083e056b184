package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStatsResolver() (*StatsResolver, *StateManager, *AuraManager) {
	states := NewStateManager()
	auras := NewAuraManager()
	return NewStatsResolver(states, auras), states, auras
}

func TestStatsResolver_SumStateAggregatesStateAndAuraBinds(t *testing.T) {
	stats, states, auras := newTestStatsResolver()
	states.Set("p1", StatePowerFlat, 5)
	auras.ApplyWithStackLimit("p1", "caster", FamilyBeast, 900, 3, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StatePowerFlat, Value: 2}}}, 3)
	auras.ApplyWithStackLimit("p1", "caster", FamilyBeast, 900, 3, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StatePowerFlat, Value: 2}}}, 3)

	assert.Equal(t, 5+2*2, stats.SumState("p1", StatePowerFlat))
}

func TestStatsResolver_EffectiveMaxHPAndPowerAndSpeed(t *testing.T) {
	stats, states, _ := newTestStatsResolver()
	c := NewCreature("p1", 1, FamilyBeast, 1, 1, 10, 200, 50, 20)

	assert.Equal(t, 200, stats.EffectiveMaxHP(c))
	assert.Equal(t, 50, stats.EffectivePower(c))
	assert.Equal(t, 20, stats.EffectiveSpeed(c))

	states.Set("p1", StateMaxHealthPct, 50)
	assert.Equal(t, 300, stats.EffectiveMaxHP(c))

	states.Set("p1", StateSpeedFlat, -100)
	assert.Equal(t, 1, stats.EffectiveSpeed(c))
}

func TestStatsResolver_FlyingSpeedBonusAboveHalfHP(t *testing.T) {
	stats, _, _ := newTestStatsResolver()
	c := NewCreature("p1", 1, FamilyFlying, 1, 1, 10, 200, 50, 20)
	c.HP = 101

	assert.Equal(t, 30, stats.EffectiveSpeed(c))

	c.HP = 100
	assert.Equal(t, 20, stats.EffectiveSpeed(c))
}

func TestStatsResolver_DamageThresholds(t *testing.T) {
	stats, states, _ := newTestStatsResolver()
	target := NewCreature("t1", 1, FamilyBeast, 1, 1, 1, 100, 10, 10)

	states.Set("t1", StateDamageIgnoreBelow, 50)
	assert.Equal(t, 0, stats.ApplyDamageThresholds(target, 49))
	assert.Equal(t, 50, stats.ApplyDamageThresholds(target, 50))

	states.Set("t1", StateDamageClampAbove, 200)
	assert.Equal(t, 200, stats.ApplyDamageThresholds(target, 500))
}

func TestStatsResolver_Sync(t *testing.T) {
	stats, states, _ := newTestStatsResolver()
	c := NewCreature("p1", 1, FamilyBeast, 1, 1, 10, 200, 50, 20)
	c.HP = 200

	states.Set("p1", StateMaxHealthFlat, -150)
	stats.Sync(c)

	assert.Equal(t, 50, c.MaxHP)
	assert.Equal(t, 50, c.HP)
	assert.Equal(t, 50, c.Tags["synced_max_hp"])
}
