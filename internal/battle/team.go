package battle

import "sort"

// SwapReason explains why a Swap call did or didn't take effect.
type SwapReason string

const (
	SwapOK             SwapReason = "OK"
	SwapIndexOOB       SwapReason = "INDEX_OOB"
	SwapAlreadyActive  SwapReason = "ALREADY_ACTIVE"
	SwapOutLocked      SwapReason = "SWAP_OUT_LOCK"
	SwapInLocked       SwapReason = "SWAP_IN_LOCK"
)

// SwapResult is the outcome of a Swap or ForceSwapRandom call.
type SwapResult struct {
	Reason    SwapReason
	NewActive string
}

// abilityLockKey scopes a per-ability-id lock to one creature.
type abilityLockKey struct {
	CreatureID string
	AbilityID  int
}

// TeamManager owns team rosters plus every legality gate around acting
// and swapping: per-slot lock countdowns, per-ability-id lock
// countdowns, and the one-shot "lock the next ability used" hint that
// opcode 129 sets.
type TeamManager struct {
	teams      map[string]*Team
	teamOfPet  map[string]string

	slotLocks           map[string]map[int]int // creatureID -> slot -> remaining turns
	abilityLocks        map[abilityLockKey]int
	pendingNextAbility  map[string]int // creatureID -> lock duration to apply on next ability use

	states *StateManager
	rng    *RNGStreams
}

// NewTeamManager builds an empty manager wired to the shared state
// manager (for turn-lock/swap-lock reads) and RNG streams (for the
// deterministic forced-swap tiebreak).
func NewTeamManager(states *StateManager, rng *RNGStreams) *TeamManager {
	return &TeamManager{
		teams:              make(map[string]*Team),
		teamOfPet:          make(map[string]string),
		slotLocks:          make(map[string]map[int]int),
		abilityLocks:       make(map[abilityLockKey]int),
		pendingNextAbility: make(map[string]int),
		states:             states,
		rng:                rng,
	}
}

// RegisterTeam adds a team and indexes its creatures for TeamOf lookups.
func (m *TeamManager) RegisterTeam(team *Team) {
	m.teams[team.ID] = team
	for _, id := range team.CreatureIDs {
		m.teamOfPet[id] = team.ID
	}
}

// Team returns the team by id, or nil.
func (m *TeamManager) Team(teamID string) *Team { return m.teams[teamID] }

// ActivePetID returns the active creature id of a team.
func (m *TeamManager) ActivePetID(teamID string) string {
	t, ok := m.teams[teamID]
	if !ok {
		return ""
	}
	return t.ActivePetID()
}

// TeamOfPet returns which team owns a creature id.
func (m *TeamManager) TeamOfPet(creatureID string) string {
	return m.teamOfPet[creatureID]
}

// CanAct reports whether a creature may take an action this round
// (state 35, turn-lock, is false/zero).
func (m *TeamManager) CanAct(creatureID string) bool {
	return m.states.Get(creatureID, StateTurnLock, 0) == 0
}

// CanSwapOut reports whether the active creature may voluntarily swap
// out (state 36 swap-out lock is zero and no slot/ability lockout
// specifically prevents it — swap-out is only gated by state 36).
func (m *TeamManager) CanSwapOut(creatureID string) bool {
	return m.states.Get(creatureID, StateSwapOutLock, 0) == 0
}

// CanSwapIn reports whether a benched creature may be swapped into the
// active slot (state 98).
func (m *TeamManager) CanSwapIn(creatureID string) bool {
	return m.states.Get(creatureID, StateSwapInLock, 0) == 0
}

// Swap moves a team's active index to newIndex, honoring swap-out and
// swap-in locks.
func (m *TeamManager) Swap(teamID string, newIndex int) SwapResult {
	t, ok := m.teams[teamID]
	if !ok || newIndex < 0 || newIndex >= len(t.CreatureIDs) {
		return SwapResult{Reason: SwapIndexOOB}
	}
	if newIndex == t.ActiveIndex {
		return SwapResult{Reason: SwapAlreadyActive, NewActive: t.ActivePetID()}
	}
	current := t.ActivePetID()
	if current != "" && !m.CanSwapOut(current) {
		return SwapResult{Reason: SwapOutLocked}
	}
	incoming := t.CreatureIDs[newIndex]
	if !m.CanSwapIn(incoming) {
		return SwapResult{Reason: SwapInLocked}
	}
	t.ActiveIndex = newIndex
	return SwapResult{Reason: SwapOK, NewActive: incoming}
}

// ForceSwapRandom ejects the current active creature, ignoring its
// voluntary swap-out lock (it is being removed, not choosing to leave)
// but still honoring swap-in locks on the candidates. The replacement is
// chosen deterministically by consuming exactly one rand_gate draw over
// the ascending list of eligible bench slot indices.
func (m *TeamManager) ForceSwapRandom(teamID string) SwapResult {
	t, ok := m.teams[teamID]
	if !ok {
		return SwapResult{Reason: SwapIndexOOB}
	}
	var eligible []int
	for i, id := range t.CreatureIDs {
		if i == t.ActiveIndex {
			continue
		}
		if m.CanSwapIn(id) {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return SwapResult{Reason: SwapInLocked}
	}
	sort.Ints(eligible)
	roll := m.rng.Gate.Float64()
	idx := eligible[int(roll*float64(len(eligible)))%len(eligible)]
	t.ActiveIndex = idx
	return SwapResult{Reason: SwapOK, NewActive: t.CreatureIDs[idx]}
}

// SetSlotLock locks ability slot 1-3 on a creature for the given number
// of turns (opcode 117).
func (m *TeamManager) SetSlotLock(creatureID string, slot int, turns int) {
	slots, ok := m.slotLocks[creatureID]
	if !ok {
		slots = make(map[int]int)
		m.slotLocks[creatureID] = slots
	}
	if turns <= 0 {
		delete(slots, slot)
		return
	}
	slots[slot] = turns
}

// SlotLocked reports whether slot is currently locked.
func (m *TeamManager) SlotLocked(creatureID string, slot int) bool {
	return m.slotLocks[creatureID][slot] > 0
}

// SetAbilityLock locks a specific ability id on a creature.
func (m *TeamManager) SetAbilityLock(creatureID string, abilityID int, turns int) {
	key := abilityLockKey{creatureID, abilityID}
	if turns <= 0 {
		delete(m.abilityLocks, key)
		return
	}
	m.abilityLocks[key] = turns
}

// AbilityLocked reports whether abilityID is currently locked on a
// creature.
func (m *TeamManager) AbilityLocked(creatureID string, abilityID int) bool {
	return m.abilityLocks[abilityLockKey{creatureID, abilityID}] > 0
}

// SetPendingNextAbilityLock arms the one-shot "lock the next ability you
// use" hint (opcode 129).
func (m *TeamManager) SetPendingNextAbilityLock(creatureID string, turns int) {
	m.pendingNextAbility[creatureID] = turns
}

// OnPetUseAbility consumes the pending next-ability lock, if any, and
// redirects it to the slot the ability was used from (or the ability id
// itself when the slot is unknown, e.g. a scheduled/periodic
// re-execution).
func (m *TeamManager) OnPetUseAbility(creatureID string, abilityID int, slot int) {
	turns, ok := m.pendingNextAbility[creatureID]
	if !ok {
		return
	}
	delete(m.pendingNextAbility, creatureID)
	if slot > 0 {
		m.SetSlotLock(creatureID, slot, turns)
	} else {
		m.SetAbilityLock(creatureID, abilityID, turns)
	}
}

// TickDown decrements every slot and ability-id lock counter by one,
// removing entries that reach zero. Called once per round at
// TURN_START, alongside the cooldown manager's tick.
func (m *TeamManager) TickDown() {
	for creatureID, slots := range m.slotLocks {
		for slot, turns := range slots {
			turns--
			if turns <= 0 {
				delete(slots, slot)
			} else {
				slots[slot] = turns
			}
		}
		if len(slots) == 0 {
			delete(m.slotLocks, creatureID)
		}
	}
	for key, turns := range m.abilityLocks {
		turns--
		if turns <= 0 {
			delete(m.abilityLocks, key)
		} else {
			m.abilityLocks[key] = turns
		}
	}
}
