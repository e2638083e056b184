package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S4 — Undead dies once "for free": the first lethal hit revives it at
// 1 hp and marks it immune for the rest of that round; a second death
// report in the same round does not revive it again, and at round end
// the pending death resolves into a real one.
func TestRacialPassiveManager_UndeadImmortalOnce(t *testing.T) {
	states := NewStateManager()
	m := NewRacialPassiveManager(states)

	pet := NewCreature("u1", 1, FamilyUndead, 1, 1, 1, 100, 10, 10)
	pet.HP = 0
	pet.Alive = false

	revived := m.OnPetDeath(pet)
	assert.True(t, revived)
	assert.Equal(t, 1, pet.HP)
	assert.True(t, pet.Alive)
	assert.True(t, m.ShouldIgnoreDamage(pet))

	revived = m.OnPetDeath(pet)
	assert.False(t, revived)

	m.OnRoundEnd([]*Creature{pet})
	assert.Equal(t, 0, pet.HP)
	assert.False(t, pet.Alive)
	assert.False(t, m.ShouldIgnoreDamage(pet))
}

func TestRacialPassiveManager_MechanicalReviveOnce(t *testing.T) {
	states := NewStateManager()
	m := NewRacialPassiveManager(states)

	pet := NewCreature("m1", 1, FamilyMechanical, 1, 1, 1, 1000, 10, 10)
	pet.HP = 0
	pet.Alive = false

	revived := m.OnPetDeath(pet)
	assert.True(t, revived)
	assert.Equal(t, 200, pet.HP)
	assert.True(t, pet.Alive)

	pet.HP = 0
	pet.Alive = false
	revived = m.OnPetDeath(pet)
	assert.False(t, revived)
}

func TestRacialPassiveManager_DragonkinBuffOnLowHPCross(t *testing.T) {
	states := NewStateManager()
	m := NewRacialPassiveManager(states)

	actor := NewCreature("d1", 1, FamilyDragonkin, 1, 1, 1, 100, 10, 10)
	target := NewCreature("t1", 2, FamilyHumanoid, 1, 1, 1, 100, 10, 10)

	assert.Equal(t, 1.0, m.GetDamageMultiplier(actor))

	m.OnDamageDealt(actor, target, 30, 30, 10)
	assert.Equal(t, 1.5, m.GetDamageMultiplier(actor))

	m.OnRoundStart([]*Creature{actor})
	assert.Equal(t, 1.0, m.GetDamageMultiplier(actor))
}

func TestRacialPassiveManager_HumanoidSelfHeal(t *testing.T) {
	states := NewStateManager()
	m := NewRacialPassiveManager(states)

	actor := NewCreature("h1", 1, FamilyHumanoid, 1, 1, 1, 1000, 10, 10)
	actor.HP = 500
	target := NewCreature("t1", 2, FamilyBeast, 1, 1, 1, 100, 10, 10)

	m.OnDamageDealt(actor, target, 10, 20, 10)
	m.OnRoundEnd([]*Creature{actor})
	assert.Equal(t, 540, actor.HP)
}

func TestRacialPassiveManager_CritterCCReductionOnlyForCritter(t *testing.T) {
	states := NewStateManager()
	m := NewRacialPassiveManager(states)

	assert.Equal(t, 2, m.ApplyCCDurationReduction(FamilyCritter, 3))
	assert.Equal(t, 0, m.ApplyCCDurationReduction(FamilyCritter, 0))
	assert.Equal(t, 3, m.ApplyCCDurationReduction(FamilyBeast, 3))
}
