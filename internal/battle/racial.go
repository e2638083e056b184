package battle

// racialCounters is the per-creature bookkeeping the racial passive
// manager owns, keyed by creature id.
type racialCounters struct {
	dragonkinBuffRounds int
	undeadImmortal      bool
	undeadPendingDeath  bool
	mechanicalRevived   bool
	humanoidDealtDamage bool
}

// RacialPassiveManager implements the ten family-specific passive hooks.
// Only five families (Dragonkin, Undead, Mechanical, Humanoid, Critter)
// currently have behavior; the rest are no-ops by construction (their
// Family case simply never matches in any hook below).
type RacialPassiveManager struct {
	counters map[string]*racialCounters
	states   *StateManager
}

// NewRacialPassiveManager builds an empty manager wired to the shared
// state manager (humanoid/undead hooks write hp/alive through the
// creature directly; nothing here needs StateManager yet, but it is
// threaded through for parity with the other managers and future hooks).
func NewRacialPassiveManager(states *StateManager) *RacialPassiveManager {
	return &RacialPassiveManager{counters: make(map[string]*racialCounters), states: states}
}

func (m *RacialPassiveManager) of(id string) *racialCounters {
	c, ok := m.counters[id]
	if !ok {
		c = &racialCounters{}
		m.counters[id] = c
	}
	return c
}

// GetDamageMultiplier returns +50% while actor is Dragonkin and its
// buff-round counter is positive.
func (m *RacialPassiveManager) GetDamageMultiplier(actor *Creature) float64 {
	if actor.Family == FamilyDragonkin && m.of(actor.ID).dragonkinBuffRounds > 0 {
		return 1.5
	}
	return 1.0
}

// OnDamageDealt marks Humanoid's dealt-damage flag and grants Dragonkin
// its 1-round buff when this hit crossed the target below 25% max hp.
func (m *RacialPassiveManager) OnDamageDealt(actor, target *Creature, dmg, hpBefore, hpAfter int) {
	if actor.Family == FamilyHumanoid {
		m.of(actor.ID).humanoidDealtDamage = true
	}
	if actor.Family == FamilyDragonkin {
		threshold := 0.25 * float64(target.MaxHP)
		if float64(hpBefore) > threshold && float64(hpAfter) <= threshold {
			m.of(actor.ID).dragonkinBuffRounds = 1
		}
	}
}

// OnPetDeath applies Undead immortality-once and Mechanical revive-once.
// Returns whether the pet was revived in place (caller must then treat
// it as alive for the rest of the round).
func (m *RacialPassiveManager) OnPetDeath(pet *Creature) bool {
	c := m.of(pet.ID)
	switch pet.Family {
	case FamilyUndead:
		if !c.undeadImmortal && !c.undeadPendingDeath {
			c.undeadImmortal = true
			c.undeadPendingDeath = true
			pet.HP = 1
			pet.Alive = true
			return true
		}
	case FamilyMechanical:
		if !c.mechanicalRevived {
			c.mechanicalRevived = true
			hp := int(0.2 * float64(pet.MaxHP))
			if hp < 1 {
				hp = 1
			}
			pet.HP = hp
			pet.Alive = true
			return true
		}
	}
	return false
}

// ShouldIgnoreDamage reports whether target is currently Undead-immortal
// (damage-immune for the remainder of the round it "died" in).
func (m *RacialPassiveManager) ShouldIgnoreDamage(target *Creature) bool {
	return m.of(target.ID).undeadImmortal
}

// OnRoundStart clears Humanoid's per-round damage mark and decrements
// Dragonkin's buff-round counters.
func (m *RacialPassiveManager) OnRoundStart(pets []*Creature) {
	for _, p := range pets {
		c := m.of(p.ID)
		c.humanoidDealtDamage = false
		if c.dragonkinBuffRounds > 0 {
			c.dragonkinBuffRounds--
		}
	}
}

// OnRoundEnd heals Humanoid pets that dealt damage this round and
// resolves any Undead pending-death flag into an actual death.
func (m *RacialPassiveManager) OnRoundEnd(pets []*Creature) {
	for _, p := range pets {
		c := m.of(p.ID)
		if !p.Alive {
			continue
		}
		if p.Family == FamilyHumanoid && c.humanoidDealtDamage {
			heal := int(0.04 * float64(p.MaxHP))
			if heal < 1 {
				heal = 1
			}
			p.HP += heal
			if p.HP > p.MaxHP {
				p.HP = p.MaxHP
			}
		}
		if p.Family == FamilyUndead && c.undeadPendingDeath {
			p.HP = 0
			p.Alive = false
			c.undeadImmortal = false
			c.undeadPendingDeath = false
		}
	}
}

// ApplyCCDurationReduction reduces a crowd-control duration by 1 (floor
// 0), but only when ownerFamily is Critter; every other family passes d
// through unchanged. The AuraManager calls this whenever the incoming
// aura's bind shape is CC-flavored.
func (m *RacialPassiveManager) ApplyCCDurationReduction(ownerFamily Family, d int) int {
	if ownerFamily != FamilyCritter {
		return d
	}
	d--
	if d < 0 {
		d = 0
	}
	return d
}
