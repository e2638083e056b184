package battle

// AbilityInfo is the shape get_ability_info returns.
type AbilityInfo struct {
	PetTypeEnum int
	Cooldown    int
	Flags       int
	VisualID    int
	Kind        string
}

// ScriptSource is the external script-table interface (spec §6) the
// core consumes but never produces: a compiled ability/aura-metadata
// table, however it was loaded (JSON ability pack or Excel workbook).
// This repository has no such loader; the CLIs under cmd/ and the tests
// each implement it over a small fixed table.
type ScriptSource interface {
	GetAbilityCastTurns(abilityID int) ([][]EffectRow, bool)
	GetAbilityCooldown(abilityID int) int
	GetAbilityInfo(abilityID int) (AbilityInfo, bool)
	GetAuraPeriodic(auraID int) map[string][]EffectRow
	GetAuraMeta(auraID int) (AuraMeta, bool)
}
