package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/platform/tui"
	"github.com/vovakirdan/snake3d/internal/storage"
)

var (
	flagReplayLimit      int
	flagReplayBrowse     bool
	flagReplayDifficulty string
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded games",
	Long: `List the most recent replays, newest first.

With --browse an interactive table is shown. Enter re-simulates the
selected replay, x deletes it.

Examples:
  snake3d replays
  snake3d replays --limit 50
  snake3d replays --browse
  snake3d replays rm 1f3a9c2e`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

var replaysRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a replay",
	Args:  cobra.ExactArgs(1),
	Run:   runReplaysRm,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded game",
	Long: `Re-run a replay from its seed and inputs and check that it ends with
the recorded score. Any unique prefix of the ID works.

The game is rebuilt under the rules it was recorded with. Replays saved
before rules were stored fall back to the current config and --difficulty.

Examples:
  snake3d replay 1f3a9c2e
  snake3d replay 1f3a --difficulty hard`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replaysCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Number of replays to list")
	replaysCmd.Flags().BoolVar(&flagReplayBrowse, "browse", false, "Browse replays interactively")
	replaysCmd.AddCommand(replaysRmCmd)

	replayCmd.Flags().StringVar(&flagReplayDifficulty, "difficulty", "", "Difficulty preset for replays saved without rules")
}

func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	return store
}

func runReplays(cmd *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	if flagReplayBrowse {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		id, err := tui.RunReplayBrowser(store, width, height)
		if err != nil {
			store.Close()
			fail("%v", err)
		}
		if id != "" {
			verifyReplay(cmd.Context(), store, id)
		}
		return
	}

	replays, err := store.RecentReplays(cmd.Context(), flagReplayLimit)
	if err != nil {
		store.Close()
		fail("retrieving replays: %v", err)
	}

	fmt.Println("Recent Replays")
	fmt.Println()

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake3d play' to record one!")
		return
	}

	fmt.Printf("  %-8s  %-6s  %-7s  %-6s  %-8s  %-8s  %s\n", "ID", "Score", "Ticks", "Inputs", "Source", "Pilot", "Date")
	fmt.Printf("  %-8s  %-6s  %-7s  %-6s  %-8s  %-8s  %s\n", "--", "-----", "-----", "------", "------", "-----", "----")
	for _, r := range replays {
		pilot := r.Pilot
		if pilot == "" {
			pilot = "-"
		}
		fmt.Printf("  %-8s  %-6d  %-7d  %-6d  %-8s  %-8s  %s\n",
			short(r.ID), r.Score, r.Ticks, r.NumInputs, r.Source, pilot,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func runReplaysRm(cmd *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	r := lookupReplay(cmd.Context(), store, args[0])
	if err := store.DeleteReplay(cmd.Context(), r.ID); err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Printf("Deleted replay %s\n", short(r.ID))
}

func runReplay(cmd *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	verifyReplay(cmd.Context(), store, args[0])
}

// lookupReplay resolves id or exits with an error.
func lookupReplay(ctx context.Context, store *storage.Store, id string) *storage.Replay {
	r, err := store.ReplayByID(ctx, id)
	switch {
	case errors.Is(err, storage.ErrAmbiguousID):
		store.Close()
		fail("%q matches more than one replay; use a longer prefix", id)
	case err != nil:
		store.Close()
		fail("%v", err)
	case r == nil:
		store.Close()
		fail("no replay with id %q", id)
	}
	return r
}

// verifyReplay re-simulates a stored replay and compares the outcome.
// Rules stored with the replay take precedence over the loaded config.
func verifyReplay(ctx context.Context, store *storage.Store, id string) {
	r := lookupReplay(ctx, store, id)
	cfg := loadConfig(flagReplayDifficulty)

	final := driver.Replay(r.Journal(), worldConfig(cfg, 0, nil)).Snapshot()

	fmt.Printf("Replay %s\n", r.ID)
	fmt.Println()
	fmt.Printf("  %-10s %d\n", "Seed", r.Seed)
	fmt.Printf("  %-10s %d\n", "Ticks", r.Ticks)
	fmt.Printf("  %-10s %d\n", "Inputs", len(r.Inputs))
	fmt.Printf("  %-10s %s\n", "Source", r.Source)
	if r.Pilot != "" {
		fmt.Printf("  %-10s %s\n", "Pilot", r.Pilot)
	}
	fmt.Printf("  %-10s %d\n", "Recorded", r.Score)
	fmt.Printf("  %-10s %d (%s, length %d)\n", "Replayed", final.Score, final.State, len(final.Snake))
	fmt.Println()

	if final.Score != r.Score {
		store.Close()
		fail("replay diverged: recorded score %d, replayed %d", r.Score, final.Score)
	}
	fmt.Println("OK")
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
