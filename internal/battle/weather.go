package battle

// WeatherEffect is the fixed numeric payload a weather state id applies.
type WeatherEffect struct {
	DamageMultByFamily map[Family]float64
	HealTakenMult      float64
	HitChanceAdd       int
	FlatDamageTakenAdd int
	FlatDamageTakenFloor int
}

// weatherRegistry maps a Weather_* state id to its fixed numeric effect.
var weatherRegistry = map[int]WeatherEffect{
	StateWeatherMoonlight: {
		DamageMultByFamily: map[Family]float64{FamilyMagic: 1.10},
		HealTakenMult:      1.25,
	},
	StateWeatherDarkness: {
		HealTakenMult: 0.5,
		HitChanceAdd:  -10,
	},
	StateWeatherRain: {
		DamageMultByFamily: map[Family]float64{FamilyAquatic: 1.25},
	},
	StateWeatherLightningStorm: {
		DamageMultByFamily: map[Family]float64{FamilyMechanical: 1.25},
		FlatDamageTakenAdd: 39,
	},
	StateWeatherSandstorm: {
		HitChanceAdd:         -10,
		FlatDamageTakenAdd:   -99,
		FlatDamageTakenFloor: 0,
	},
}

// WeatherManager caches which weather-providing aura is currently
// anchoring the battle's weather, refreshed lazily from the aura
// manager's full scan.
type WeatherManager struct {
	auras           *AuraManager
	activeStateID   int
	activeAuraOwner string
	activeAuraID    int
	haveActive      bool
}

// NewWeatherManager builds a manager wired to the shared aura manager.
func NewWeatherManager(auras *AuraManager) *WeatherManager {
	return &WeatherManager{auras: auras}
}

// weatherBind returns the first Weather_* state bind on an aura's meta,
// if any, and whether one was found.
func weatherBind(meta AuraMeta) (StateBind, bool) {
	for _, b := range meta.StateBinds {
		if isWeatherState(b.StateID) && b.Value != 0 {
			return b, true
		}
	}
	return StateBind{}, false
}

// OnAuraApplied caches the aura as the active weather anchor if its meta
// binds a Weather_* state. Wired as AuraManager's onApplied callback.
func (w *WeatherManager) OnAuraApplied(a *Aura) {
	if b, ok := weatherBind(a.Meta); ok {
		w.activeStateID = b.StateID
		w.activeAuraOwner = a.Owner
		w.activeAuraID = a.AuraID
		w.haveActive = true
	}
}

// detectFromCtx scans every active aura for a Weather_* bind and picks
// the one with the longest remaining duration (permanent auras, -1,
// sort before any finite duration).
func (w *WeatherManager) detectFromCtx() (int, string, int, bool) {
	bestStateID, bestOwner, bestAuraID := 0, "", 0
	bestDuration := -2
	found := false
	for _, a := range w.auras.ListAll() {
		b, ok := weatherBind(a.Meta)
		if !ok {
			continue
		}
		dur := a.RemainingDuration
		better := !found
		if found {
			if dur == -1 {
				better = bestDuration != -1
			} else if bestDuration == -1 {
				better = false
			} else {
				better = dur > bestDuration
			}
		}
		if better {
			bestStateID, bestOwner, bestAuraID, bestDuration = b.StateID, a.Owner, a.AuraID, dur
			found = true
		}
	}
	return bestStateID, bestOwner, bestAuraID, found
}

// clearIfGone nulls the cache if the anchor aura has since been removed.
func (w *WeatherManager) clearIfGone() {
	if !w.haveActive {
		return
	}
	if w.auras.Get(w.activeAuraOwner, w.activeAuraID) == nil {
		w.haveActive = false
	}
}

// Current returns the cached weather state id, or 0 if none, refreshing
// from a full scan if the cache is empty or its anchor has expired.
func (w *WeatherManager) Current() int {
	w.clearIfGone()
	if !w.haveActive {
		if stateID, owner, auraID, ok := w.detectFromCtx(); ok {
			w.activeStateID, w.activeAuraOwner, w.activeAuraID, w.haveActive = stateID, owner, auraID, true
		}
	}
	if !w.haveActive {
		return 0
	}
	return w.activeStateID
}

// Effect returns the fixed numeric payload for the current weather, or
// the zero value if none is active.
func (w *WeatherManager) Effect() WeatherEffect {
	return weatherRegistry[w.Current()]
}

// DamageMultiplier returns the weather's damage multiplier against an
// attack of the given family, 1.0 if weather doesn't touch that family.
func (w *WeatherManager) DamageMultiplier(attackFamily Family) float64 {
	if m, ok := w.Effect().DamageMultByFamily[attackFamily]; ok {
		return m
	}
	return 1.0
}

// HealTakenMultiplier returns the weather's heal-taken multiplier, 1.0
// if weather doesn't touch healing.
func (w *WeatherManager) HealTakenMultiplier() float64 {
	if m := w.Effect().HealTakenMult; m != 0 {
		return m
	}
	return 1.0
}

// HitChanceAdd returns the weather's additive hit-chance modifier
// (percentage points).
func (w *WeatherManager) HitChanceAdd() int {
	return w.Effect().HitChanceAdd
}

// ApplyFlatDamageTaken adds the weather's flat-damage-taken modifier to
// dmg and floors the result when the weather specifies a floor.
func (w *WeatherManager) ApplyFlatDamageTaken(dmg int) int {
	e := w.Effect()
	dmg += e.FlatDamageTakenAdd
	if e.FlatDamageTakenAdd < 0 && dmg < e.FlatDamageTakenFloor {
		dmg = e.FlatDamageTakenFloor
	}
	return dmg
}
