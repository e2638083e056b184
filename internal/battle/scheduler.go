package battle

// Packet is a delayed bundle of effect rows scheduled to re-execute as
// an ability turn once its countdown reaches zero.
type Packet struct {
	RemainingTurns int
	ActorID        string
	TargetID       string
	EffectRows     []EffectRow
	Tag            string
}

// Scheduler holds every in-flight delayed packet across the battle.
type Scheduler struct {
	packets []*Packet
}

// NewScheduler builds an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule appends a new packet with delayTurns>=0 remaining turns.
func (s *Scheduler) Schedule(delayTurns int, actorID, targetID string, rows []EffectRow, tag string) {
	if delayTurns < 0 {
		delayTurns = 0
	}
	s.packets = append(s.packets, &Packet{
		RemainingTurns: delayTurns,
		ActorID:        actorID,
		TargetID:       targetID,
		EffectRows:     rows,
		Tag:            tag,
	})
}

// Tick decrements every packet's counter by one and returns (in stable
// insertion order) those whose counter reached <=0, removing them from
// the queue. Called once per round at TURN_START.
func (s *Scheduler) Tick() []*Packet {
	var ready []*Packet
	var remaining []*Packet
	for _, p := range s.packets {
		p.RemainingTurns--
		if p.RemainingTurns <= 0 {
			ready = append(ready, p)
		} else {
			remaining = append(remaining, p)
		}
	}
	s.packets = remaining
	return ready
}
