package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/platform/tui"
)

var (
	flagSSHAddr         string
	flagHostKey         string
	flagIdleTimeout     int
	flagServeDifficulty string
	flagNoReplays       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snake3d SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game, ticking on the server.
Finished rounds are saved as replays in the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake3d/host_key

Examples:
  snake3d serve                           # Listen on :23234 with auto-generated key
  snake3d serve --ssh :2222               # Listen on port 2222
  snake3d serve --host-key ./my_host_key  # Use specific host key
  snake3d serve --difficulty hard         # Every session plays hard

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeDifficulty, "difficulty", "", "Difficulty preset for every session")
	serveCmd.Flags().BoolVar(&flagNoReplays, "no-replays", false, "Do not record replays")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger(os.Stderr, "snake3d-ssh")
	defer closeLog()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Logger = logger
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Game = loadConfig(flagServeDifficulty)
	if flagNoReplays {
		cfg.DBPath = ""
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Starting snake3d SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		fail("server: %v", err)
	}
}

// port returns the port part of a host:port address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
