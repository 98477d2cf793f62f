// snake3d is a snake game on a square arena, played in the terminal or
// over SSH, with headless autopilot simulations and deterministic replays.
//
// Usage:
//
//	snake3d play             - Play in the terminal
//	snake3d serve            - Start SSH server for remote play
//	snake3d simulate         - Run headless games with an autopilot
//	snake3d replays          - List recorded games
//	snake3d replay <id>      - Re-simulate a recorded game
//	snake3d pilots           - List autopilots
//	snake3d config init      - Write the default config file
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--config <path>   - Game config YAML
//	--db <path>       - Set database path (default: ~/.snake3d/replays.db)
//	--log <path>      - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/storage"
	"github.com/vovakirdan/snake3d/internal/world"
)

var (
	// Global flags
	flagSeed     int64
	flagConfig   string
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake3d",
	Short: "snake3d - a snake game for your terminal",
	Long: `snake3d is a snake game on a walled square arena. Steer the snake to
the apples, grow, and avoid the walls and your own body.

Available commands:
  play       - Play in the terminal
  serve      - Start SSH server for remote play
  simulate   - Run headless games with an autopilot
  replays    - List recorded games
  replay     - Re-simulate a recorded game
  pilots     - List autopilots
  config     - Manage the config file

Examples:
  snake3d play
  snake3d play --difficulty hard
  snake3d serve --ssh :2222
  snake3d simulate --games 200 --pilot lua --script builtin
  snake3d replay 1f3a9c2e`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake3d/replays.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pilotsCmd)
}

// fail prints an error the way every command reports it and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger writes to --log when given. Otherwise it writes to fallback,
// which may be io.Discard for full-screen commands. The returned func
// closes the log file.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("%v", err)
	}

	out, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fail("cannot open log file: %v", err)
		}
		out, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn
}

// loadConfig loads the game config and applies an optional preset.
func loadConfig(difficulty string) config.SnakeConfig {
	cfg, err := config.LoadSnake(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if difficulty != "" {
		preset, err := config.ParsePreset(difficulty)
		if err != nil {
			fail("%v", err)
		}
		config.ApplySnakePreset(&cfg, preset)
	}
	return cfg
}

// worldConfig builds the world settings for a game config.
func worldConfig(cfg config.SnakeConfig, seed int64, logger *log.Logger) world.Config {
	return world.Config{
		Rules:     cfg.Rules(),
		Obstacles: cfg.WorldObstacles(),
		Seed:      seed,
		Logger:    logger,
	}
}

// openStore opens the replay database, or returns nil with a warning when
// it cannot be opened.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open replay database", "error", err)
		return nil
	}
	return store
}

// newPilot builds a registered autopilot. script selects the Lua source
// for the lua pilot.
func newPilot(name, script string, rules world.Rules, logger *log.Logger) (autopilot.Pilot, error) {
	return autopilot.Create(name, autopilot.Options{Rules: rules, Script: script, Logger: logger})
}
