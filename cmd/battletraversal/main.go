// Command battletraversal is the per-ability smoke-test harness of
// spec §6: for each synthetic demo ability it runs a short battle
// against one or more dummy targets and writes the result under
// --output, one file per ability id. It exercises exactly the same
// battle engine as cmd/battlesim but sweeps many abilities in one
// invocation instead of running a single scripted matchup.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/battlepets/engine/internal/battle"
	"github.com/battlepets/engine/internal/pets"
)

var (
	outputDir string
	seedBase  int64
	rounds    int
	level     int
	rarity    int
	maxPets   int
	maxSkills int
	dummy     int
	events    bool
)

// firstDemoAbilityID is the base of the synthetic ability-id range this
// harness sweeps; internal/scriptdb doesn't exist yet, so there is no
// real ability table to traverse against, only the same fixed-shape
// direct-damage ability cmd/battlesim exercises, repeated under
// successive ids so each gets its own deterministic seed and output
// file per spec §6's "--max-skills" flag.
const firstDemoAbilityID = 900

var rootCmd = &cobra.Command{
	Use:   "battletraversal",
	Short: "Smoke-test every demo ability against dummy targets",
	RunE:  runTraversal,
}

func init() {
	rootCmd.Flags().StringVar(&outputDir, "output", "", "directory to write per-ability result files to (required)")
	rootCmd.Flags().Int64Var(&seedBase, "seed-base", 0, "base RNG seed; each ability gets seed-base+index")
	rootCmd.Flags().IntVar(&rounds, "rounds", 10, "rounds to run per ability")
	rootCmd.Flags().IntVar(&level, "level", 10, "caster and dummy pet level")
	rootCmd.Flags().IntVar(&rarity, "rarity", 1, "caster and dummy pet rarity")
	rootCmd.Flags().IntVar(&maxPets, "max-pets", 0, "cap on dummy targets per ability (0 = use --dummy as-is)")
	rootCmd.Flags().IntVar(&maxSkills, "max-skills", 3, "number of synthetic demo abilities to sweep")
	rootCmd.Flags().IntVar(&dummy, "dummy", 1, "number of dummy target pets per ability")
	rootCmd.Flags().BoolVar(&events, "events", false, "write JSON-lines event logs instead of text summaries")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTraversal(cmd *cobra.Command, args []string) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	dummyCount := dummy
	if dummyCount < 1 {
		dummyCount = 1
	}
	if maxPets > 0 && dummyCount > maxPets {
		dummyCount = maxPets
	}

	factory := pets.NewFactory(pets.NewMemStore(), pets.ModeLax)

	for i := 0; i < maxSkills; i++ {
		abilityID := firstDemoAbilityID + i
		if err := smokeTestAbility(factory, abilityID, seedBase+int64(i), dummyCount); err != nil {
			return fmt.Errorf("ability %d: %w", abilityID, err)
		}
	}
	return nil
}

func smokeTestAbility(factory *pets.Factory, abilityID int, seed int64, dummyCount int) error {
	casterStats, err := factory.Derive(1, 0, rarity, level)
	if err != nil {
		return fmt.Errorf("deriving caster stats: %w", err)
	}
	caster := battle.NewCreature("caster", 1, battle.FamilyBeast, rarity, 0, level,
		casterStats.Health, casterStats.Power, casterStats.Speed)
	caster.AbilityIDs[0] = abilityID

	petsByID := map[string]*battle.Creature{"caster": caster}
	var dummyIDs []string
	for i := 0; i < dummyCount; i++ {
		dummyStats, err := factory.Derive(2, 0, rarity, level)
		if err != nil {
			return fmt.Errorf("deriving dummy stats: %w", err)
		}
		id := fmt.Sprintf("dummy-%d", i+1)
		petsByID[id] = battle.NewCreature(id, 2, battle.FamilyHumanoid, rarity, 0, level,
			dummyStats.Health, dummyStats.Power, dummyStats.Speed)
		dummyIDs = append(dummyIDs, id)
	}

	ctx := battle.NewContext(seed, petsByID, rounds)
	ctx.Teams.RegisterTeam(&battle.Team{ID: "caster", CreatureIDs: []string{"caster"}})
	ctx.Teams.RegisterTeam(&battle.Team{ID: "dummy", CreatureIDs: dummyIDs})
	ctx.Scripts = traversalScripts{abilityID: abilityID}

	var recorded []battle.LogEvent
	ctx.SetLogSink(func(ev battle.LogEvent) { recorded = append(recorded, ev) })

	loop := battle.NewBattleLoop(ctx, "caster", "dummy")
	var outcome battle.RoundOutcome
	for {
		casterAction := loop.LegalActions("caster")[0]
		dummyAction := loop.LegalActions("dummy")[0]
		outcome = loop.RunRound(casterAction, dummyAction)
		if outcome.WinnerTeamID != "" || outcome.Draw {
			break
		}
	}

	if events {
		return writeJSONLines(filepath.Join(outputDir, fmt.Sprintf("ability_%d.jsonl", abilityID)), recorded)
	}
	return writeSummary(filepath.Join(outputDir, fmt.Sprintf("ability_%d.txt", abilityID)), abilityID, outcome)
}

func writeJSONLines(path string, recorded []battle.LogEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, ev := range recorded {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(path string, abilityID int, outcome battle.RoundOutcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result := fmt.Sprintf("team %s wins", outcome.WinnerTeamID)
	if outcome.Draw {
		result = "draw"
	}
	_, err = fmt.Fprintf(f, "ability=%d rounds=%d result=%s\n", abilityID, outcome.RoundNumber, result)
	return err
}

// traversalScripts is the same fixed-shape single-turn direct-damage
// ability cmd/battlesim uses, keyed to whichever synthetic id this
// sweep iteration is smoke-testing.
type traversalScripts struct {
	abilityID int
}

func (s traversalScripts) GetAbilityCastTurns(abilityID int) ([][]battle.EffectRow, bool) {
	if abilityID != s.abilityID {
		return nil, false
	}
	return [][]battle.EffectRow{{
		{AbilityID: abilityID, OpcodeID: battle.OpcodeDirectDamage, ParamSchema: "points,accuracy", Params: [6]int{30, 100}},
	}}, true
}
func (s traversalScripts) GetAbilityCooldown(abilityID int) int { return 0 }
func (s traversalScripts) GetAbilityInfo(abilityID int) (battle.AbilityInfo, bool) {
	return battle.AbilityInfo{}, false
}
func (s traversalScripts) GetAuraPeriodic(auraID int) map[string][]battle.EffectRow { return nil }
func (s traversalScripts) GetAuraMeta(auraID int) (battle.AuraMeta, bool)           { return battle.AuraMeta{}, false }
