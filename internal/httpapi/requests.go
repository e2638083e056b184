package httpapi

import "github.com/battlepets/engine/internal/battle"

// CreatureInput describes one roster member when starting a session.
type CreatureInput struct {
	ID         string `json:"id" binding:"required"`
	SpeciesID  int    `json:"species_id"`
	Family     string `json:"family" binding:"required"`
	Rarity     int    `json:"rarity" binding:"required,min=1,max=4"`
	Breed      int    `json:"breed"`
	Level      int    `json:"level" binding:"required,min=1"`
	BaseMaxHP  int    `json:"base_max_hp" binding:"required,min=1"`
	BasePower  int    `json:"base_power" binding:"required,min=1"`
	BaseSpeed  int    `json:"base_speed" binding:"required,min=1"`
	AbilityIDs [3]int `json:"ability_ids"`
}

// TeamInput describes one side's roster and team id when starting a
// session.
type TeamInput struct {
	ID        string          `json:"id" binding:"required"`
	Creatures []CreatureInput `json:"creatures" binding:"required,min=1,max=3"`
}

// CreateSessionRequest starts a new battle session between two teams.
type CreateSessionRequest struct {
	Seed      int64     `json:"seed"`
	MaxRounds int       `json:"max_rounds"`
	TeamA     TeamInput `json:"team_a" binding:"required"`
	TeamB     TeamInput `json:"team_b" binding:"required"`
}

// ActionInput mirrors battle.Action over the wire, using a string kind
// instead of the internal enum.
type ActionInput struct {
	Kind      string `json:"kind" binding:"required,oneof=pass ability swap"`
	ActorID   string `json:"actor_id" binding:"required"`
	AbilityID int    `json:"ability_id"`
	Slot      int    `json:"slot"`
	SwapIndex int    `json:"swap_index"`
	TargetID  string `json:"target_id"`
}

// SubmitRoundRequest carries both teams' chosen actions for one round.
type SubmitRoundRequest struct {
	ActionA ActionInput `json:"action_a" binding:"required"`
	ActionB ActionInput `json:"action_b" binding:"required"`
}

var familyByName = map[string]battle.Family{
	"humanoid":   battle.FamilyHumanoid,
	"undead":     battle.FamilyUndead,
	"critter":    battle.FamilyCritter,
	"beast":      battle.FamilyBeast,
	"mechanical": battle.FamilyMechanical,
	"elemental":  battle.FamilyElemental,
	"aquatic":    battle.FamilyAquatic,
	"flying":     battle.FamilyFlying,
	"magic":      battle.FamilyMagic,
	"dragonkin":  battle.FamilyDragonkin,
}

var actionKindByName = map[string]battle.ActionKind{
	"pass":    battle.ActionPass,
	"ability": battle.ActionUseAbility,
	"swap":    battle.ActionSwap,
}

func (a ActionInput) toAction() (battle.Action, bool) {
	kind, ok := actionKindByName[a.Kind]
	if !ok {
		return battle.Action{}, false
	}
	return battle.Action{
		Kind:      kind,
		ActorID:   a.ActorID,
		AbilityID: a.AbilityID,
		Slot:      a.Slot,
		SwapIndex: a.SwapIndex,
		TargetID:  a.TargetID,
	}, true
}

func (c CreatureInput) toCreature() (*battle.Creature, bool) {
	family, ok := familyByName[c.Family]
	if !ok {
		return nil, false
	}
	creature := battle.NewCreature(c.ID, c.SpeciesID, family, c.Rarity, c.Breed, c.Level, c.BaseMaxHP, c.BasePower, c.BaseSpeed)
	creature.AbilityIDs = c.AbilityIDs
	return creature, true
}
