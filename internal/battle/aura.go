package battle

// StateBind is one numeric effect an aura contributes to the stats
// resolver's Σstate aggregation: bind.Value * aura.Stacks is added to
// whatever StateID the bind names, on top of the plain state map.
type StateBind struct {
	StateID int `json:"state_id"`
	Value   int `json:"value"`
	Flags   int `json:"flags"`
}

// AuraMeta is the data-driven numeric/periodic payload attached to an
// aura definition (spec §9 "aura metadata as data, not code").
type AuraMeta struct {
	StateBinds       []StateBind            `json:"state_binds"`
	PeriodicPayloads map[string][]EffectRow `json:"periodic_payloads,omitempty"` // "TURN_START" | "TURN_END"
	WeatherHint      bool                   `json:"weather_hint,omitempty"`
}

// Aura is one active (owner, auraID) instance. At most one per pair.
type Aura struct {
	Owner              string   `json:"owner"`
	AuraID             int      `json:"aura_id"`
	Caster             string   `json:"caster"`
	SourceEffectID     int      `json:"source_effect_id"`
	RemainingDuration  int      `json:"remaining_duration"` // -1 = permanent
	TickdownFirstRound bool     `json:"tickdown_first_round"`
	JustApplied        bool     `json:"just_applied"`
	Stacks             int      `json:"stacks"`
	Meta               AuraMeta `json:"meta"`
}

// ApplyReason explains the result of an AuraManager.Apply* call.
type ApplyReason string

const (
	AuraApplied          ApplyReason = "APPLIED"
	AuraRefreshed        ApplyReason = "REFRESHED"
	AuraExpiredImmediate ApplyReason = "EXPIRED_IMMEDIATELY"
)

// ApplyResult is the outcome of applying an aura.
type ApplyResult struct {
	Applied  bool
	Refreshed bool
	Reason   ApplyReason
	Aura     *Aura
}

type auraKey struct {
	Owner  string
	AuraID int
}

// AuraManager owns the per-owner map of active auras.
type AuraManager struct {
	auras map[auraKey]*Aura
	// order preserves stable per-owner enumeration for ListOwner.
	order []auraKey

	racial *RacialPassiveManager // for the Critter CC-duration-reduction hook
	onApplied func(*Aura)        // weather manager observes applies
}

// NewAuraManager builds an empty manager. racial and onApplied may be
// nil; they are wired in after construction via SetRacial/SetOnApplied
// to avoid an import cycle at startup (both managers are built before
// either needs the other).
func NewAuraManager() *AuraManager {
	return &AuraManager{auras: make(map[auraKey]*Aura)}
}

// SetRacial wires the racial passive manager so every aura apply can be
// run through Critter's CC-duration reduction uniformly (spec §9 Open
// Question 5).
func (m *AuraManager) SetRacial(r *RacialPassiveManager) { m.racial = r }

// SetOnApplied wires a callback invoked after every successful apply or
// refresh, used by the weather manager to cache newly-set weather.
func (m *AuraManager) SetOnApplied(fn func(*Aura)) { m.onApplied = fn }

func normalizeDuration(duration int, permanent bool) int {
	if permanent {
		return -1
	}
	if duration < 0 {
		return 0
	}
	return duration
}

// isCCFlavored reports whether an aura's state binds include a
// turn-lock/swap-lock/crowd-control-shaped bind, the trigger for the
// Critter duration reduction.
func isCCFlavored(meta AuraMeta) bool {
	for _, b := range meta.StateBinds {
		switch b.StateID {
		case StateTurnLock, StateSwapOutLock, StateSwapInLock:
			return true
		}
	}
	return false
}

func (m *AuraManager) applyCCReduction(ownerFamily Family, meta AuraMeta, duration int) int {
	if m.racial == nil || duration < 0 || !isCCFlavored(meta) {
		return duration
	}
	return m.racial.ApplyCCDurationReduction(ownerFamily, duration)
}

// Apply applies or refreshes an aura without a stack limit. Duration 0
// (after normalization) never creates an instance. Duration -1 (pass
// permanent=true) never expires via Tick. On refresh, every field except
// Stacks is overwritten. ownerFamily is consulted only for the Critter
// CC-duration-reduction hook.
func (m *AuraManager) Apply(owner, caster string, ownerFamily Family, auraID int, duration int, permanent bool, tickdownFirstRound bool, sourceEffectID int, meta AuraMeta) ApplyResult {
	duration = normalizeDuration(duration, permanent)
	duration = m.applyCCReduction(ownerFamily, meta, duration)
	if duration == 0 {
		return ApplyResult{Reason: AuraExpiredImmediate}
	}
	key := auraKey{owner, auraID}
	existing, exists := m.auras[key]
	if exists {
		existing.Caster = caster
		existing.SourceEffectID = sourceEffectID
		existing.RemainingDuration = duration
		existing.TickdownFirstRound = tickdownFirstRound
		existing.JustApplied = true
		existing.Meta = meta
		m.fireOnApplied(existing)
		return ApplyResult{Refreshed: true, Reason: AuraRefreshed, Aura: existing}
	}
	a := &Aura{
		Owner:              owner,
		AuraID:             auraID,
		Caster:             caster,
		SourceEffectID:     sourceEffectID,
		RemainingDuration:  duration,
		TickdownFirstRound: tickdownFirstRound,
		JustApplied:        true,
		Stacks:             1,
		Meta:               meta,
	}
	m.auras[key] = a
	m.order = append(m.order, key)
	m.fireOnApplied(a)
	return ApplyResult{Applied: true, Reason: AuraApplied, Aura: a}
}

// ApplyWithStackLimit behaves like Apply, except a refresh increments
// Stacks up to maxStacks instead of leaving it unchanged.
func (m *AuraManager) ApplyWithStackLimit(owner, caster string, ownerFamily Family, auraID int, duration int, permanent bool, tickdownFirstRound bool, sourceEffectID int, meta AuraMeta, maxStacks int) ApplyResult {
	key := auraKey{owner, auraID}
	_, existed := m.auras[key]
	res := m.Apply(owner, caster, ownerFamily, auraID, duration, permanent, tickdownFirstRound, sourceEffectID, meta)
	if res.Refreshed && existed {
		a := m.auras[key]
		if a.Stacks < maxStacks {
			a.Stacks++
		} else {
			a.Stacks = maxStacks
		}
	}
	return res
}

func (m *AuraManager) fireOnApplied(a *Aura) {
	if m.onApplied != nil {
		m.onApplied(a)
	}
}

// Remove unconditionally removes an aura instance.
func (m *AuraManager) Remove(owner string, auraID int) bool {
	key := auraKey{owner, auraID}
	if _, ok := m.auras[key]; !ok {
		return false
	}
	delete(m.auras, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveAll removes every aura on owner (the sentinel-141 mass dispel,
// spec §9 Open Question 6) and returns how many were removed.
func (m *AuraManager) RemoveAll(owner string) int {
	var keys []auraKey
	for _, k := range m.order {
		if k.Owner == owner {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		m.Remove(k.Owner, k.AuraID)
	}
	return len(keys)
}

// Get returns the aura instance for (owner, auraID), or nil.
func (m *AuraManager) Get(owner string, auraID int) *Aura {
	return m.auras[auraKey{owner, auraID}]
}

// ListOwner returns a stable, insertion-ordered enumeration of an
// owner's active auras.
func (m *AuraManager) ListOwner(owner string) []*Aura {
	var out []*Aura
	for _, k := range m.order {
		if k.Owner == owner {
			out = append(out, m.auras[k])
		}
	}
	return out
}

// ListAll returns every active aura across every owner, in stable
// insertion order — used by the weather manager's full scan.
func (m *AuraManager) ListAll() []*Aura {
	out := make([]*Aura, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.auras[k])
	}
	return out
}

// Tick runs the tick-down algorithm for every aura on owner and returns
// the auraIDs that expired this call. Called exactly once per owner at
// TURN_END, after periodic payloads have executed.
func (m *AuraManager) Tick(owner string) []int {
	var expired []int
	for _, a := range m.ListOwner(owner) {
		if a.RemainingDuration == -1 {
			a.JustApplied = false
			continue
		}
		if a.JustApplied {
			a.JustApplied = false
			if a.TickdownFirstRound && a.RemainingDuration > 0 {
				a.RemainingDuration--
			}
		} else {
			a.RemainingDuration--
		}
		if a.RemainingDuration <= 0 {
			expired = append(expired, a.AuraID)
		}
	}
	for _, auraID := range expired {
		m.Remove(owner, auraID)
	}
	return expired
}
