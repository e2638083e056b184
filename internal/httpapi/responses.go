package httpapi

import (
	"github.com/battlepets/engine/internal/battle"
	"github.com/battlepets/engine/internal/services"
)

// SessionResponse reports a battle session's current lifecycle state.
type SessionResponse struct {
	ID           string                `json:"id"`
	Status       services.SessionStatus `json:"status"`
	TeamAID      string                `json:"team_a_id"`
	TeamBID      string                `json:"team_b_id"`
	Round        int                   `json:"round"`
	WinnerTeamID string                `json:"winner_team_id,omitempty"`
	Draw         bool                  `json:"draw,omitempty"`
}

func sessionResponse(s *services.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		Status:       s.Status,
		TeamAID:      s.TeamAID,
		TeamBID:      s.TeamBID,
		Round:        s.Round,
		WinnerTeamID: s.WinnerTeamID,
		Draw:         s.Draw,
	}
}

// RoundOutcomeResponse mirrors battle.RoundOutcome over the wire.
type RoundOutcomeResponse struct {
	WinnerTeamID string `json:"winner_team_id,omitempty"`
	Draw         bool   `json:"draw,omitempty"`
	RoundNumber  int    `json:"round_number"`
}

func roundOutcomeResponse(o battle.RoundOutcome) RoundOutcomeResponse {
	return RoundOutcomeResponse{
		WinnerTeamID: o.WinnerTeamID,
		Draw:         o.Draw,
		RoundNumber:  o.RoundNumber,
	}
}

// CreatureResponse reports one creature's live runtime state.
type CreatureResponse struct {
	ID        string `json:"id"`
	SpeciesID int    `json:"species_id"`
	Level     int    `json:"level"`
	MaxHP     int    `json:"max_hp"`
	HP        int    `json:"hp"`
	Power     int    `json:"power"`
	Speed     int    `json:"speed"`
	Alive     bool   `json:"alive"`
}

func creatureResponse(c *battle.Creature) CreatureResponse {
	return CreatureResponse{
		ID:        c.ID,
		SpeciesID: c.SpeciesID,
		Level:     c.Level,
		MaxHP:     c.MaxHP,
		HP:        c.HP,
		Power:     c.Power,
		Speed:     c.Speed,
		Alive:     c.Alive,
	}
}

// ActionResponse mirrors battle.Action over the wire for LegalActions
// listings.
type ActionResponse struct {
	Kind      string `json:"kind"`
	ActorID   string `json:"actor_id"`
	AbilityID int    `json:"ability_id,omitempty"`
	Slot      int    `json:"slot,omitempty"`
	SwapIndex int    `json:"swap_index,omitempty"`
}

var actionKindName = map[battle.ActionKind]string{
	battle.ActionPass:       "pass",
	battle.ActionUseAbility: "ability",
	battle.ActionSwap:       "swap",
}

func actionResponse(a battle.Action) ActionResponse {
	return ActionResponse{
		Kind:      actionKindName[a.Kind],
		ActorID:   a.ActorID,
		AbilityID: a.AbilityID,
		Slot:      a.Slot,
		SwapIndex: a.SwapIndex,
	}
}
