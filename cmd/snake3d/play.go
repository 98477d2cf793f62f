package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/platform/tui"
)

var (
	flagTickMS     int
	flagDifficulty string
	flagAutopilot  string
	flagScript     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Arrows/WASD  - Steer (reversing is ignored)
  Space        - Restart (after game over)
  P            - Pause
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - 200ms tick, speeds up with score
  normal - 150ms tick, speeds up with score
  hard   - 100ms tick, speeds up with score
  fixed  - 150ms tick, no speed-up

Without --difficulty a picker is shown first.
Every finished round is saved as a replay.

Examples:
  snake3d play
  snake3d play --difficulty fixed --seed 42
  snake3d play --autopilot greedy
  snake3d play --autopilot lua --script ./my_pilot.lua --log snake.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagTickMS, "tick", 0, "Tick interval in milliseconds (0 = from config)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagAutopilot, "autopilot", "", "Let a pilot play: greedy or lua")
	playCmd.Flags().StringVar(&flagScript, "script", "builtin", "Lua pilot script path, or builtin")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger(io.Discard, "snake3d")
	defer closeLog()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	difficulty := flagDifficulty
	if difficulty == "" && flagAutopilot == "" {
		preset, err := tui.RunDifficultyMenu(width, height)
		if err != nil {
			fail("%v", err)
		}
		if preset == nil {
			return
		}
		difficulty = string(*preset)
	}
	cfg := loadConfig(difficulty)

	var pilot autopilot.Pilot
	if flagAutopilot != "" {
		p, err := newPilot(flagAutopilot, flagScript, cfg.Rules(), logger)
		if err != nil {
			fail("%v", err)
		}
		defer autopilot.Release(p)
		pilot = p
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	rt := core.RuntimeConfig{
		ScreenW:      width,
		ScreenH:      height,
		TickInterval: time.Duration(flagTickMS) * time.Millisecond,
		Seed:         flagSeed,
	}

	final, err := tui.Run(tui.Options{
		Game:    cfg,
		Runtime: rt,
		Store:   store,
		Pilot:   pilot,
		Logger:  logger,
	})
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Score: %d  High Score: %d  (%d ticks)\n", final.Score, final.HighScore, final.Tick)
}
