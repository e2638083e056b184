package battle

import "math"

// HealEvent is the input to the heal pipeline.
type HealEvent struct {
	Actor            *Creature
	Target           *Creature
	Points           int
	VarianceOverride *float64
	CanCrit          bool
}

// ResolvedHeal is the output of the heal pipeline.
type ResolvedHeal struct {
	FinalHeal int
	Trace     map[string]interface{}
}

// HealPipeline runs the simpler heal scaffold of spec §4.11.
type HealPipeline struct {
	rng     *RNGStreams
	stats   *StatsResolver
	weather *WeatherManager

	CritChance float64
	CritMult   float64
}

// NewHealPipeline builds a pipeline with spec-default crit settings
// (crit is off by default for heals; callers opt in via HealEvent.CanCrit).
func NewHealPipeline(rng *RNGStreams, stats *StatsResolver, weather *WeatherManager) *HealPipeline {
	return &HealPipeline{rng: rng, stats: stats, weather: weather, CritChance: 0.05, CritMult: 1.5}
}

// Resolve runs base -> heal_multiplier -> weather heal-taken multiplier
// -> variance -> optional crit.
func (p *HealPipeline) Resolve(ev HealEvent) ResolvedHeal {
	trace := map[string]interface{}{}

	power := p.stats.EffectivePower(ev.Actor)
	base := math.Floor(float64(ev.Points) * (1 + float64(power)/20))
	trace["base"] = base

	heal := base * p.stats.HealMultiplier(ev.Actor, ev.Target)

	weatherMult := p.weather.HealTakenMultiplier()
	if weatherMult < 1 && ev.Target.Family == FamilyElemental {
		weatherMult = 1
	}
	heal *= weatherMult
	trace["weather_mult"] = weatherMult

	rolled := p.rng.Variance.Float64()
	variance := rolled
	if ev.VarianceOverride != nil {
		variance = *ev.VarianceOverride
	}
	heal *= variance
	trace["variance"] = variance

	critRoll := p.rng.Crit.Float64()
	crit := ev.CanCrit && critRoll <= p.CritChance
	if crit {
		heal *= p.CritMult
	}
	trace["crit"] = crit

	final := int(math.Floor(heal))
	if final < 0 {
		final = 0
	}
	maxHP := p.stats.EffectiveMaxHP(ev.Target)
	if headroom := maxHP - ev.Target.HP; final > headroom {
		final = headroom
	}
	if final < 0 {
		final = 0
	}
	trace["final_heal"] = final
	return ResolvedHeal{FinalHeal: final, Trace: trace}
}
