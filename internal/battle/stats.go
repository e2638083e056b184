package battle

// StatsResolver derives effective {max_hp, hp_clamped, power, speed} by
// aggregating base stats, the plain state map, and aura state bindings
// (value * stacks) on top.
type StatsResolver struct {
	states *StateManager
	auras  *AuraManager
}

// NewStatsResolver builds a resolver over the shared state and aura
// managers.
func NewStatsResolver(states *StateManager, auras *AuraManager) *StatsResolver {
	return &StatsResolver{states: states, auras: auras}
}

// SumState aggregates StateManager's stored value plus, over every aura
// on owner, bind.Value*aura.Stacks for binds matching stateID.
func (r *StatsResolver) SumState(owner string, stateID int) int {
	total := r.states.Get(owner, stateID, 0)
	for _, a := range r.auras.ListOwner(owner) {
		for _, b := range a.Meta.StateBinds {
			if b.StateID == stateID {
				total += b.Value * a.Stacks
			}
		}
	}
	return total
}

// pct implements pct(x) = max(0, (100+x)/100).
func pct(x int) float64 {
	v := (100.0 + float64(x)) / 100.0
	if v < 0 {
		return 0
	}
	return v
}

// EffectiveMaxHP computes ((base_max_hp + Σstate(2)) * pct(Σstate(99))),
// floored to an integer.
func (r *StatsResolver) EffectiveMaxHP(c *Creature) int {
	flat := float64(c.BaseMaxHP + r.SumState(c.ID, StateMaxHealthFlat))
	return int(flat * pct(r.SumState(c.ID, StateMaxHealthPct)))
}

// EffectivePower computes base_power + Σstate(18).
func (r *StatsResolver) EffectivePower(c *Creature) int {
	return c.BasePower + r.SumState(c.ID, StatePowerFlat)
}

// EffectiveSpeed computes raw = base_speed + Σstate(20), scaled by
// pct(Σstate(25)), clamped to >=1. Flying gets x1.5 when its current hp
// is more than half of its effective max hp.
func (r *StatsResolver) EffectiveSpeed(c *Creature) int {
	raw := float64(c.BaseSpeed + r.SumState(c.ID, StateSpeedFlat))
	speed := raw * pct(r.SumState(c.ID, StateSpeedPct))
	if c.Family == FamilyFlying && c.HP*2 > r.EffectiveMaxHP(c) {
		speed *= 1.5
	}
	s := int(speed)
	if s < 1 {
		s = 1
	}
	return s
}

// DamageMultiplier computes pct(Σ_actor state(23)) * pct(Σ_target
// state(24)).
func (r *StatsResolver) DamageMultiplier(actor, target *Creature) float64 {
	return pct(r.SumState(actor.ID, StateDamageDealtPct)) * pct(r.SumState(target.ID, StateDamageTakenPct))
}

// DamageFlatAdd sums the actor's flat-damage-dealt state, the target's
// flat-damage-taken state, and — for periodic damage only — the
// target's flat-periodic-taken state.
func (r *StatsResolver) DamageFlatAdd(actor, target *Creature, isPeriodic bool) int {
	total := r.SumState(actor.ID, StateFlatDamageDealt) + r.SumState(target.ID, StateFlatDamageTaken)
	if isPeriodic {
		total += r.SumState(target.ID, StateFlatPeriodicTaken)
	}
	return total
}

// HealMultiplier computes pct(Σ_actor state(65)) * pct(Σ_target
// state(66)).
func (r *StatsResolver) HealMultiplier(actor, target *Creature) float64 {
	return pct(r.SumState(actor.ID, StateHealDealtPct)) * pct(r.SumState(target.ID, StateHealTakenPct))
}

// ApplyDamageThresholds implements the state(191)/state(200) gates: a
// positive state(191) zeroes damage strictly below its value; a
// positive state(200) clamps damage strictly above its value.
func (r *StatsResolver) ApplyDamageThresholds(target *Creature, dmg int) int {
	if ignore := r.SumState(target.ID, StateDamageIgnoreBelow); ignore > 0 && dmg < ignore {
		return 0
	}
	if clamp := r.SumState(target.ID, StateDamageClampAbove); clamp > 0 && dmg > clamp {
		return clamp
	}
	return dmg
}

// Sync pushes effective max_hp/power/speed back onto the creature's
// mutable fields (clamping HP to the new max) and into its diagnostics
// tag bag. Called at TURN_START after scheduler/ticks and at TURN_END
// after expirations.
func (r *StatsResolver) Sync(c *Creature) {
	maxHP := r.EffectiveMaxHP(c)
	if maxHP < 0 {
		maxHP = 0
	}
	c.MaxHP = maxHP
	if c.HP > maxHP {
		c.HP = maxHP
	}
	if c.HP < 0 {
		c.HP = 0
	}
	c.Power = r.EffectivePower(c)
	c.Speed = r.EffectiveSpeed(c)
	c.SetTag("synced_max_hp", c.MaxHP)
	c.SetTag("synced_power", c.Power)
	c.SetTag("synced_speed", c.Speed)
	c.SetTag("synced_hp_clamped", c.HP)
}

// SyncAll calls Sync for every creature in the map.
func (r *StatsResolver) SyncAll(creatures map[string]*Creature) {
	for _, c := range creatures {
		r.Sync(c)
	}
}
