// Command battlesim is the demo harness of spec §6: it runs one
// scripted battle between two single-pet teams and prints a
// human-readable trace, optionally alongside a JSON-lines event log.
// Not load-bearing — nothing else in this repo depends on its output.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/battlepets/engine/internal/battle"
	"github.com/battlepets/engine/internal/pets"
)

var (
	seed      int64
	rounds    int
	logPath   string
	helpRules bool
)

var rootCmd = &cobra.Command{
	Use:   "battlesim",
	Short: "Run one scripted pet battle and print its trace",
	RunE:  runSim,
}

func init() {
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "master RNG seed")
	rootCmd.Flags().IntVar(&rounds, "rounds", 20, "max rounds before the battle is declared a draw")
	rootCmd.Flags().StringVar(&logPath, "log", "", "optional path to write JSON-lines battle events")
	rootCmd.Flags().BoolVar(&helpRules, "help-rules", false, "print a short rules synopsis and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const rulesSynopsis = `Each round both teams choose one action (swap, use an ability, or pass).
Actions resolve in swap-then-ability-then-pass order, ties broken by speed
then by a coin-flip draw from the gate RNG stream. A team loses when every
pet on it reaches 0 HP; reaching the round cap with both teams alive (or
both teams wiped in the same round) ends the battle in a draw.`

func runSim(cmd *cobra.Command, args []string) error {
	if helpRules {
		fmt.Println(rulesSynopsis)
		return nil
	}

	factory := pets.NewFactory(pets.NewMemStore(), pets.ModeLax)
	aStats, err := factory.Derive(1, 0, 2, 10)
	if err != nil {
		return fmt.Errorf("deriving stats for team A's pet: %w", err)
	}
	bStats, err := factory.Derive(2, 0, 2, 10)
	if err != nil {
		return fmt.Errorf("deriving stats for team B's pet: %w", err)
	}

	a := battle.NewCreature("a1", 1, battle.FamilyBeast, 2, 0, 10, aStats.Health, aStats.Power, aStats.Speed)
	b := battle.NewCreature("b1", 2, battle.FamilyHumanoid, 2, 0, 10, bStats.Health, bStats.Power, bStats.Speed)
	a.AbilityIDs[0] = 900
	b.AbilityIDs[0] = 900

	ctx := battle.NewContext(seed, map[string]*battle.Creature{"a1": a, "b1": b}, rounds)
	ctx.Teams.RegisterTeam(&battle.Team{ID: "A", CreatureIDs: []string{"a1"}})
	ctx.Teams.RegisterTeam(&battle.Team{ID: "B", CreatureIDs: []string{"b1"}})
	ctx.Scripts = demoScripts{}

	var events []battle.LogEvent
	ctx.SetLogSink(func(ev battle.LogEvent) { events = append(events, ev) })

	loop := battle.NewBattleLoop(ctx, "A", "B")

	var outcome battle.RoundOutcome
	for {
		legalA := loop.LegalActions("A")
		legalB := loop.LegalActions("B")
		outcome = loop.RunRound(legalA[0], legalB[0])
		fmt.Printf("round %d: a1 hp=%d b1 hp=%d\n", outcome.RoundNumber, a.HP, b.HP)
		if outcome.WinnerTeamID != "" || outcome.Draw {
			break
		}
	}

	switch {
	case outcome.Draw:
		fmt.Println("result: draw")
	default:
		fmt.Printf("result: team %s wins\n", outcome.WinnerTeamID)
	}

	if logPath != "" {
		if err := writeEventLog(logPath, events); err != nil {
			return fmt.Errorf("writing event log: %w", err)
		}
	}
	return nil
}

func writeEventLog(path string, events []battle.LogEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

// demoScripts is a fixed single-ability ScriptSource (a 30-point direct
// hit, no cooldown) so the demo harness exercises ability dispatch
// without depending on internal/scriptdb's loaders.
type demoScripts struct{}

func (demoScripts) GetAbilityCastTurns(abilityID int) ([][]battle.EffectRow, bool) {
	if abilityID != 900 {
		return nil, false
	}
	return [][]battle.EffectRow{{
		{AbilityID: 900, OpcodeID: battle.OpcodeDirectDamage, ParamSchema: "points,accuracy", Params: [6]int{30, 100}},
	}}, true
}
func (demoScripts) GetAbilityCooldown(abilityID int) int { return 0 }
func (demoScripts) GetAbilityInfo(abilityID int) (battle.AbilityInfo, bool) {
	return battle.AbilityInfo{}, false
}
func (demoScripts) GetAuraPeriodic(auraID int) map[string][]battle.EffectRow { return nil }
func (demoScripts) GetAuraMeta(auraID int) (battle.AuraMeta, bool)           { return battle.AuraMeta{}, false }
