package battle

import "sort"

// LogEvent is one structured record of something the battle did, handed
// to whatever sink the embedding application wires in (the CLIs under
// cmd/ each write these out as JSON lines themselves).
type LogEvent struct {
	Kind   string                 `json:"kind"`
	Round  int                    `json:"round"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// LogSink receives every LogEvent the engine emits. nil is a valid sink
// (Context.Log is a no-op when unset) so unit tests that don't care
// about logging don't need to wire one up.
type LogSink func(LogEvent)

// Context is the single shared, single-threaded battle context every
// manager and pipeline holds a reference to rather than reaching for
// global state — the whole engine is one synchronous call tree over
// this struct.
type Context struct {
	Pets map[string]*Creature

	RNG      *RNGStreams
	States   *StateManager
	Cooldowns *CooldownManager
	Teams    *TeamManager
	Auras    *AuraManager
	Scheduler *Scheduler
	Stats    *StatsResolver
	Weather  *WeatherManager
	Racial   *RacialPassiveManager
	Damage   *DamagePipeline
	Heal     *HealPipeline
	Dispatcher *Dispatcher

	Round  *RoundState
	ActCtx *ActionContext

	// MaxRounds bounds run_round iteration at the battle-loop level; a
	// battle that reaches it is declared a draw.
	MaxRounds int

	// Scripts resolves ability ids to cast turns/cooldowns/aura metadata.
	// nil is legal for tests that build rows by hand and never call
	// use_ability_id.
	Scripts ScriptSource

	sink LogSink
}

// NewContext wires every manager together from one master RNG seed and
// an initial creature set. Callers that need SequenceRNG playback build
// the RNGStreams separately and use NewContextWithRNG instead.
func NewContext(masterSeed int64, pets map[string]*Creature, maxRounds int) *Context {
	return NewContextWithRNG(NewRNGStreams(masterSeed), pets, maxRounds)
}

// NewContextWithRNG wires every manager together from a caller-supplied
// RNGStreams (production or SequenceRNG playback).
func NewContextWithRNG(rng *RNGStreams, pets map[string]*Creature, maxRounds int) *Context {
	states := NewStateManager()
	teams := NewTeamManager(states, rng)
	auras := NewAuraManager()
	racial := NewRacialPassiveManager(states)
	auras.SetRacial(racial)
	stats := NewStatsResolver(states, auras)
	weather := NewWeatherManager(auras)
	auras.SetOnApplied(weather.OnAuraApplied)

	c := &Context{
		Pets:      pets,
		RNG:       rng,
		States:    states,
		Cooldowns: NewCooldownManager(),
		Teams:     teams,
		Auras:     auras,
		Scheduler: NewScheduler(),
		Stats:     stats,
		Weather:   weather,
		Racial:    racial,
		Damage:    NewDamagePipeline(rng, stats, weather, racial),
		Heal:      NewHealPipeline(rng, stats, weather),
		Round:     NewRoundState(),
		ActCtx:    &ActionContext{},
		MaxRounds: maxRounds,
	}
	c.Dispatcher = NewDispatcher(DefaultHandlerRegistry())
	return c
}

// SetLogSink wires a sink for LogEvent emission. Pass nil to silence.
func (c *Context) SetLogSink(sink LogSink) { c.sink = sink }

// Log emits one event if a sink is wired, always stamping the current
// round number.
func (c *Context) Log(kind string, fields map[string]interface{}) {
	if c.sink == nil {
		return
	}
	round := 0
	if c.Round != nil {
		round = c.Round.Number
	}
	c.sink(LogEvent{Kind: kind, Round: round, Fields: fields})
}

// AlivePets returns every creature on a team that is still alive.
func (c *Context) AlivePets(teamID string) []*Creature {
	team := c.Teams.Team(teamID)
	if team == nil {
		return nil
	}
	var out []*Creature
	for _, id := range team.CreatureIDs {
		if p := c.Pets[id]; p != nil && p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// TeamHasSurvivors reports whether any creature on a team is alive.
func (c *Context) TeamHasSurvivors(teamID string) bool {
	return len(c.AlivePets(teamID)) > 0
}

// sortedPets returns every creature in the battle ordered by id — the
// stable total order the determinism discipline (spec §5) requires for
// any "for each creature" iteration that can observably affect an RNG
// stream or a log event.
func sortedPets(ctx *Context) []*Creature {
	ids := make([]string, 0, len(ctx.Pets))
	for id := range ctx.Pets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Creature, len(ids))
	for i, id := range ids {
		out[i] = ctx.Pets[id]
	}
	return out
}
