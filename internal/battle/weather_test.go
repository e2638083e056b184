package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeatherManager_NoActiveWeatherIsNeutral(t *testing.T) {
	auras := NewAuraManager()
	w := NewWeatherManager(auras)

	assert.Equal(t, 0, w.Current())
	assert.Equal(t, 1.0, w.DamageMultiplier(FamilyMagic))
	assert.Equal(t, 1.0, w.HealTakenMultiplier())
	assert.Equal(t, 0, w.HitChanceAdd())
}

func TestWeatherManager_LightningStormBoostsMechanical(t *testing.T) {
	auras := NewAuraManager()
	w := NewWeatherManager(auras)
	auras.SetOnApplied(w.OnAuraApplied)

	auras.Apply("caster", "caster", FamilyMechanical, 900, 3, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StateWeatherLightningStorm, Value: 1}}})

	assert.Equal(t, StateWeatherLightningStorm, w.Current())
	assert.Equal(t, 1.25, w.DamageMultiplier(FamilyMechanical))
	assert.Equal(t, 1.0, w.DamageMultiplier(FamilyAquatic))
	assert.Equal(t, 139, w.ApplyFlatDamageTaken(100))
}

func TestWeatherManager_ClearsWhenAnchorAuraExpires(t *testing.T) {
	auras := NewAuraManager()
	w := NewWeatherManager(auras)
	auras.SetOnApplied(w.OnAuraApplied)

	auras.Apply("caster", "caster", FamilyMechanical, 900, 1, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StateWeatherLightningStorm, Value: 1}}})
	assert.Equal(t, StateWeatherLightningStorm, w.Current())

	auras.Tick("caster")
	auras.Tick("caster")
	assert.Equal(t, 0, w.Current())
}

func TestWeatherManager_SandstormFloorsFlatDamage(t *testing.T) {
	auras := NewAuraManager()
	w := NewWeatherManager(auras)
	auras.SetOnApplied(w.OnAuraApplied)

	auras.Apply("caster", "caster", FamilyBeast, 901, 3, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StateWeatherSandstorm, Value: 1}}})

	assert.Equal(t, 0, w.ApplyFlatDamageTaken(50))
	assert.Equal(t, -10, w.HitChanceAdd())
}

func TestWeatherManager_DetectsLongestRemainingWhenMultipleAnchorsExist(t *testing.T) {
	auras := NewAuraManager()
	w := NewWeatherManager(auras)

	auras.Apply("c1", "c1", FamilyBeast, 900, 2, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StateWeatherRain, Value: 1}}})
	auras.Apply("c2", "c2", FamilyBeast, 901, 5, false, false, 0,
		AuraMeta{StateBinds: []StateBind{{StateID: StateWeatherSandstorm, Value: 1}}})

	assert.Equal(t, StateWeatherSandstorm, w.Current())
}
