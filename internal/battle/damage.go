package battle

import "math"

// DamageEvent is the input to the damage pipeline.
type DamageEvent struct {
	Actor              *Creature
	Target             *Creature
	Points             int
	IsPeriodic         bool
	AttackFamilyOverride *Family
	AbilityFamily      *Family
	VarianceOverride   *float64
}

// ResolvedDamage is the output of the damage pipeline: the final,
// floored, non-negative damage plus a stable-key-ordered trace.
type ResolvedDamage struct {
	FinalDamage int
	Trace       map[string]interface{}
}

// DamagePipeline runs the ten ordered stages of spec §4.10.
type DamagePipeline struct {
	rng     *RNGStreams
	stats   *StatsResolver
	weather *WeatherManager
	racial  *RacialPassiveManager

	CritChance float64 // default 0.05
	CritMult   float64 // default 1.5

	PeriodicCanCrit bool
}

// NewDamagePipeline builds a pipeline with spec-default crit settings.
func NewDamagePipeline(rng *RNGStreams, stats *StatsResolver, weather *WeatherManager, racial *RacialPassiveManager) *DamagePipeline {
	return &DamagePipeline{rng: rng, stats: stats, weather: weather, racial: racial, CritChance: 0.05, CritMult: 1.5}
}

func attackFamily(ev DamageEvent) Family {
	if ev.AttackFamilyOverride != nil {
		return *ev.AttackFamilyOverride
	}
	if ev.AbilityFamily != nil {
		return *ev.AbilityFamily
	}
	return ev.Actor.Family
}

// Resolve runs the full pipeline and returns the final damage and trace.
func (p *DamagePipeline) Resolve(ev DamageEvent) ResolvedDamage {
	trace := map[string]interface{}{}

	// S1: base from effective actor power.
	power := p.stats.EffectivePower(ev.Actor)
	base := math.Floor(float64(ev.Points) * (1 + float64(power)/20))
	trace["s1_base"] = base

	// S3: damage multiplier (actor dealt% * target taken%).
	dmg := base * p.stats.DamageMultiplier(ev.Actor, ev.Target)
	trace["s3_multiplier"] = dmg

	// S4-S6: type chart.
	family := attackFamily(ev)
	switch {
	case family.Strong(ev.Target.Family):
		dmg *= 1.5
		trace["s4_type"] = "strong"
	case family.Weak(ev.Target.Family):
		dmg *= 2.0 / 3.0
		trace["s4_type"] = "weak"
	default:
		trace["s4_type"] = "neutral"
	}

	// S6: weather multiplier for the attack family.
	dmg *= p.weather.DamageMultiplier(family)

	// S6: racial offensive/defensive modifiers.
	if ev.Actor.Family == FamilyBeast && ev.Actor.HP*2 < p.stats.EffectiveMaxHP(ev.Actor) {
		dmg *= 1.25
	}
	dmg *= p.racial.GetDamageMultiplier(ev.Actor)
	if ev.IsPeriodic && ev.Target.Family == FamilyAquatic {
		dmg *= 0.5
	}

	// Undead immortality: short-circuit to 0, skip remaining stages.
	if p.racial.ShouldIgnoreDamage(ev.Target) {
		trace["undead_immune"] = true
		return ResolvedDamage{FinalDamage: 0, Trace: trace}
	}

	// S7: variance — always consumed, even when overridden, so the
	// stream stays in lockstep across identical traces.
	rolled := p.rng.Variance.Float64()
	variance := rolled
	if ev.VarianceOverride != nil {
		variance = *ev.VarianceOverride
	}
	dmg *= variance
	trace["s7_variance"] = variance

	// S8: crit — always consumed.
	critRoll := p.rng.Crit.Float64()
	crit := critRoll <= p.CritChance && (!ev.IsPeriodic || p.PeriodicCanCrit)
	if crit {
		dmg *= p.CritMult
	}
	trace["s8_crit"] = crit

	// S9: flat add, including weather's flat add (Elemental target
	// ignores a positive weather flat add).
	flat := p.stats.DamageFlatAdd(ev.Actor, ev.Target, ev.IsPeriodic)
	weatherFlat := p.weather.Effect().FlatDamageTakenAdd
	if weatherFlat > 0 && ev.Target.Family == FamilyElemental {
		weatherFlat = 0
	}
	dmg += float64(flat + weatherFlat)
	trace["s9_flat_add"] = flat + weatherFlat

	// S10: passive caps and thresholds.
	if ev.Target.Family == FamilyMagic && !ev.IsPeriodic {
		cap := math.Floor(0.35 * float64(p.stats.EffectiveMaxHP(ev.Target)))
		if dmg > cap {
			dmg = cap
			trace["s10_magic_cap"] = cap
		}
	}

	final := int(math.Floor(dmg))
	if final < 0 {
		final = 0
	}
	final = p.stats.ApplyDamageThresholds(ev.Target, final)
	if final < 0 {
		final = 0
	}
	trace["final_damage"] = final
	return ResolvedDamage{FinalDamage: final, Trace: trace}
}
