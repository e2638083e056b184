package battle

// Handler is one opcode's concrete behavior. It must never panic the
// round — the dispatcher recovers any panic and demotes it to a
// HANDLER_ERROR warning, but handlers should still prefer returning
// failed() over relying on that safety net.
type Handler func(ctx *Context, actor, target *Creature, row EffectRow, params map[string]int) EffectResult

// HandlerMeta is the semantic registry entry for an opcode: the schema
// label script authors are expected to have declared, for drift
// detection against the effect row actually compiled.
type HandlerMeta struct {
	OpcodeID      int
	Name          string
	ExpectedLabel string
}

// Dispatcher routes an effect row to its handler by opcode id.
type Dispatcher struct {
	handlers map[int]Handler
	meta     map[int]HandlerMeta
}

// NewDispatcher builds a dispatcher over a handler registry (opcode id
// -> Handler) and its parallel semantic-metadata registry.
func NewDispatcher(handlers map[int]Handler, metas ...[]HandlerMeta) *Dispatcher {
	d := &Dispatcher{handlers: handlers, meta: make(map[int]HandlerMeta)}
	for _, ms := range metas {
		for _, m := range ms {
			d.meta[m.OpcodeID] = m
		}
	}
	for id, m := range DefaultHandlerMeta() {
		if _, ok := d.meta[id]; !ok {
			d.meta[id] = m
		}
	}
	return d
}

// Dispatch runs spec §4.12: lookup, optional schema-label check, param
// parse, handler invocation with panic containment.
func (d *Dispatcher) Dispatch(ctx *Context, actor, target *Creature, row EffectRow) EffectResult {
	handler, ok := d.handlers[row.OpcodeID]
	if !ok {
		if _, known := d.meta[row.OpcodeID]; known {
			return failed(WarnNoHandlerKnown, "")
		}
		return failed(WarnNoHandler, "")
	}

	var mismatchWarning *Warning
	if m, known := d.meta[row.OpcodeID]; known && m.ExpectedLabel != "" {
		if !ParamLabelMatches(row, m.ExpectedLabel) {
			mismatchWarning = &Warning{Kind: WarnParamLabelMismatch, Detail: m.ExpectedLabel}
		}
	}

	params := ParseParams(row)
	res := d.invoke(handler, ctx, actor, target, row, params)
	if mismatchWarning != nil && res.Warning == nil {
		res.Warning = mismatchWarning
	}
	return res
}

// invoke calls the handler, converting any panic into a non-fatal
// HANDLER_ERROR result so one broken opcode never aborts the round.
func (d *Dispatcher) invoke(h Handler, ctx *Context, actor, target *Creature, row EffectRow, params map[string]int) (result EffectResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(WarnHandlerError, "handler panicked")
		}
	}()
	return h(ctx, actor, target, row, params)
}
