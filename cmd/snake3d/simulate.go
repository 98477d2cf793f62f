package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/sim"
	"github.com/vovakirdan/snake3d/internal/storage"
)

var (
	flagSimGames      int
	flagSimParallel   int
	flagSimPilot      string
	flagSimScript     string
	flagSimMaxTicks   uint64
	flagSimSave       bool
	flagSimDifficulty string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless games with an autopilot",
	Long: `Play a batch of games without a terminal, steered by an autopilot,
and print score statistics.

Game i plays with seed --seed + i, so a batch is reproducible. With
--save every game is stored as a replay.

Pilots:
  greedy - heads for the nearest apple, avoiding walls and its body
  lua    - runs a Lua script defining next_direction(state)

Examples:
  snake3d simulate --games 500
  snake3d simulate --pilot lua --script builtin --parallel 4
  snake3d simulate --pilot lua --script ./pilot.lua --seed 1 --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimGames, "games", 100, "Number of games to play")
	simulateCmd.Flags().IntVar(&flagSimParallel, "parallel", runtime.NumCPU(), "Games to run at once")
	simulateCmd.Flags().StringVar(&flagSimPilot, "pilot", "greedy", "Autopilot: greedy or lua")
	simulateCmd.Flags().StringVar(&flagSimScript, "script", "builtin", "Lua pilot script path, or builtin")
	simulateCmd.Flags().Uint64Var(&flagSimMaxTicks, "max-ticks", sim.DefaultMaxTicks, "Stop a game after this many ticks")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save every game as a replay")
	simulateCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", "", "Difficulty preset (recorded with saved replays)")
}

func runSimulate(cmd *cobra.Command, _ []string) {
	logger, closeLog := newLogger(os.Stderr, "simulate")
	defer closeLog()

	cfg := loadConfig(flagSimDifficulty)
	rules := cfg.Rules()

	// Fail early on a bad pilot or script.
	probe, err := newPilot(flagSimPilot, flagSimScript, rules, logger)
	if err != nil {
		fail("%v", err)
	}
	autopilot.Release(probe)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	results, err := sim.Run(cmd.Context(), sim.Options{
		Games:    flagSimGames,
		Parallel: flagSimParallel,
		BaseSeed: seed,
		MaxTicks: flagSimMaxTicks,
		World:    worldConfig(cfg, 0, nil),
		Pilot: func() (autopilot.Pilot, error) {
			return newPilot(flagSimPilot, flagSimScript, rules, logger)
		},
		Logger: logger,
	})
	if err != nil {
		fail("%v", err)
	}
	elapsed := time.Since(start)

	st := sim.Summarize(results)
	fmt.Printf("Simulated %d games with %s in %s\n", st.Games, probe.Name(), elapsed.Round(time.Millisecond))
	fmt.Println()
	fmt.Printf("  %-12s %d\n", "Base seed", seed)
	fmt.Printf("  %-12s %d\n", "Deaths", st.Deaths)
	fmt.Printf("  %-12s %d\n", "Timeouts", st.Games-st.Deaths)
	fmt.Printf("  %-12s %d (seed %d)\n", "Best", st.Best, st.BestSeed)
	fmt.Printf("  %-12s %d\n", "Worst", st.Worst)
	fmt.Printf("  %-12s %.2f\n", "Mean", st.Mean)
	fmt.Printf("  %-12s %.1f\n", "Median", st.Median)
	fmt.Printf("  %-12s %.1f\n", "Mean ticks", st.MeanTicks)

	if flagSimSave {
		saveResults(cmd.Context(), results, cfg.Tick.IntervalMS)
	}
}

func saveResults(ctx context.Context, results []sim.Result, intervalMS int) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("%v", err)
	}
	defer store.Close()

	for _, r := range results {
		rep := storage.ReplayFromJournal(r.Journal, r.Final.Score)
		rep.IntervalMS = intervalMS
		rep.Source = "simulate"
		rep.Pilot = r.Pilot
		if _, err := store.SaveReplay(ctx, rep); err != nil {
			store.Close()
			fail("%v", err)
		}
	}
	fmt.Printf("\nSaved %d replays to %s\n", len(results), flagDBPath)
}
