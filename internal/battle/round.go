package battle

// RoundPhase tags which half of a round is currently executing.
type RoundPhase string

const (
	PhaseNone         RoundPhase = ""
	PhaseFirstAction  RoundPhase = "FIRST_ACTION"
	PhaseSecondAction RoundPhase = "SECOND_ACTION"
)

// RoundState is the per-round transient bookkeeping the battle loop
// freezes at the start of each round so order-conditional effects (e.g.
// "did my target already act this round") can reason about it.
type RoundState struct {
	Number int

	FirstTeamID  string
	SecondTeamID string

	FirstActorID  string
	SecondActorID string

	Phase RoundPhase

	// StruckBeforeAction holds creature ids hit before their own action
	// fired this round.
	StruckBeforeAction map[string]bool

	PriorityActorID string
}

// NewRoundState builds a zeroed round state.
func NewRoundState() *RoundState {
	return &RoundState{StruckBeforeAction: make(map[string]bool)}
}

// Reset clears everything for the next round, preserving Number (the
// caller increments it separately in on_turn_start).
func (r *RoundState) Reset() {
	r.FirstTeamID = ""
	r.SecondTeamID = ""
	r.FirstActorID = ""
	r.SecondActorID = ""
	r.Phase = PhaseNone
	r.StruckBeforeAction = make(map[string]bool)
	r.PriorityActorID = ""
}
