package battle

// FlowControl is the verdict an opcode handler returns to the ability
// turn executor. Every handler exception is caught by the dispatcher and
// demoted to a warning (see Warning) rather than ever propagating — the
// battle loop must never abort on a handler error.
type FlowControl int

const (
	FlowContinue FlowControl = iota
	FlowStopTurn
	FlowStopAbility
)

// WarningKind enumerates the recoverable error kinds of spec §7. All are
// logged; none abort the round.
type WarningKind string

const (
	WarnMiss                 WarningKind = "MISS"
	WarnNoHandler            WarningKind = "NO_HANDLER"
	WarnNoHandlerKnown       WarningKind = "NO_HANDLER_KNOWN"
	WarnParamLabelMismatch   WarningKind = "PARAM_LABEL_MISMATCH"
	WarnArgSchema            WarningKind = "ARG_SCHEMA"
	WarnHandlerError         WarningKind = "HANDLER_ERROR"
	WarnAuraIDMissing        WarningKind = "AURA_ID_MISSING"
	WarnNoCast               WarningKind = "NO_CAST"
	WarnNoScript             WarningKind = "NO_SCRIPT"
	WarnNoAuraManager        WarningKind = "NO_AURA_MANAGER"
	WarnCooldown             WarningKind = "COOLDOWN"
	WarnCannotAct            WarningKind = "CANNOT_ACT"
	WarnTurnLock             WarningKind = "TURN_LOCK"
	WarnRequiredStateFail    WarningKind = "REQ_STATE_FAIL"
	WarnImmune               WarningKind = "IMMUNE"
	WarnExpiredImmediately   WarningKind = "EXPIRED_IMMEDIATELY"
)

// Warning is a single recoverable-error record attached to an
// EffectResult or a use-ability outcome.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Detail  string      `json:"detail,omitempty"`
}

// EffectResult is what every opcode handler returns. It never panics the
// round: a handler that needs to signal a recoverable failure sets
// Executed=false and optionally a Warning, not a Go error.
type EffectResult struct {
	Executed bool        `json:"executed"`
	Flow     FlowControl `json:"flow"`
	Warning  *Warning    `json:"warning,omitempty"`
}

func ok() EffectResult                              { return EffectResult{Executed: true, Flow: FlowContinue} }
func okStop(f FlowControl) EffectResult              { return EffectResult{Executed: true, Flow: f} }
func failed(kind WarningKind, detail string) EffectResult {
	return EffectResult{Executed: false, Flow: FlowContinue, Warning: &Warning{Kind: kind, Detail: detail}}
}
func failedStop(kind WarningKind, detail string, f FlowControl) EffectResult {
	return EffectResult{Executed: false, Flow: f, Warning: &Warning{Kind: kind, Detail: detail}}
}
