package battle

// ActionContext ("acc_ctx") is the narrow, enumerated, round-transient
// scratch space a turn's effect rows read and write to talk to each
// other and to the next row's dispatch — a fixed struct rather than a
// generic pub/sub event bus, since the set of cross-row signals a turn
// actually needs is small and known up front.
type ActionContext struct {
	// Per-turn fields: reset at the start of every Ability Turn Executor
	// call.
	TargetOverrideID      string
	ConsumeTargetOverride bool
	PrevEffectExecuted    bool
	PrevEffectFlow        FlowControl
	PrevPropID            int

	// Multi-target cursor: a handler that fans out across a team sets
	// these once and subsequent rows walk the cursor.
	MultiTargetTeamID string
	MultiTargets      []string
	MultiTargetIndex  int

	LastDamageDealt     int
	LastDamageTargetID  string

	TrapCounter int

	// Per-ability fields: survive across turns of the same ability use
	// (e.g. dont_miss set on turn 1 still applies on turn 2) and are only
	// cleared by ResetAbility.
	DontMiss         bool
	AccuracyOverride *int
	VarianceOverride *float64
	PeriodicCanCrit  bool

	StateHint int

	// CC-resilient hint: a single-use signal the next aura-apply consumes
	// to reduce/convert its duration (resilient counter interaction).
	CCResilientState          int
	CCResilientPoints         int
	CCReportFailsAsImmune     bool
}

// ResetTurn clears the per-turn fields at the start of each cast turn,
// preserving the per-ability fields.
func (c *ActionContext) ResetTurn() {
	c.TargetOverrideID = ""
	c.ConsumeTargetOverride = false
	c.PrevEffectExecuted = false
	c.PrevEffectFlow = FlowContinue
	c.PrevPropID = 0
}

// ResetAbility clears every field, called once per use_ability(_id) call
// before its first turn.
func (c *ActionContext) ResetAbility() {
	*c = ActionContext{}
}

// EffectiveTarget resolves the row's real target: the one-shot override
// if set, else the declared target.
func (c *ActionContext) EffectiveTarget(declared string) string {
	if c.TargetOverrideID != "" {
		return c.TargetOverrideID
	}
	return declared
}

// AfterRow records the standard post-row acc_ctx bookkeeping and
// consumes the target override if the row asked for that.
func (c *ActionContext) AfterRow(executed bool, flow FlowControl, propID int) {
	c.PrevEffectExecuted = executed
	c.PrevEffectFlow = flow
	c.PrevPropID = propID
	if c.ConsumeTargetOverride {
		c.TargetOverrideID = ""
		c.ConsumeTargetOverride = false
	}
}
