package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/storage"
)

// shutdownGrace bounds how long open sessions get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string        // host:port, e.g. ":23234"
	HostKeyPath string        // empty uses ~/.snake3d/host_key, generated on first start
	DBPath      string        // replay database; empty disables replays
	IdleTimeout time.Duration // idle connections are closed after this
	Game        config.SnakeConfig
	Logger      *log.Logger // nil logs to stderr
}

// DefaultSSHServerConfig returns the config `snake3d serve` starts from.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.snake3d/replays.db",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultSnakeConfig(),
	}
}

// SSHServer gives every SSH session its own game, ticking on the server.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer prepares the server. A replay database that cannot be
// opened only disables replays.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake3d-ssh",
		})
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{cfg: cfg, logger: logger}
	if cfg.DBPath != "" {
		if srv.store, err = storage.Open(cfg.DBPath); err != nil {
			logger.Warn("replays disabled", "error", err)
			srv.store = nil
		}
	}

	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("tui: create ssh server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves the key location and makes sure its directory
// exists. wish generates the key itself when the file is missing.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: home directory: %w", err)
		}
		path = filepath.Join(home, ".snake3d", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: host key directory: %w", err)
	}
	return path, nil
}

// teaHandler builds the session model. Its loop is bound to the SSH
// session context, so it stops when the connection drops.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "snake3d needs a terminal; connect with ssh -t")
		return nil, nil
	}

	model := NewSessionModel(sess.Context(), SessionOptions{
		Game:    s.cfg.Game,
		Runtime: core.RuntimeConfig{ScreenW: pty.Window.Width, ScreenH: pty.Window.Height},
		Store:   s.store,
		Logger:  s.logger,
		User:    sess.User(),
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("session started")
		next(sess)
		logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("listening", "address", s.cfg.Address, "replays", s.store != nil)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown stops accepting connections, waits up to shutdownGrace for
// sessions to end, then closes the replay store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
