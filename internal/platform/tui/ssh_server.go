package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the host key file. Empty means ~/.jetpack/host_key,
	// generated on first start.
	HostKeyPath string

	// DBPath is the shared run history. Empty disables persistence.
	DBPath string

	IdleTimeout time.Duration

	// MaxSessions caps concurrent players. Zero means no cap.
	MaxSessions int

	// Game is the simulation configuration every session plays with.
	Game     config.JetpackConfig
	TickRate int

	// Logger defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns the config used by `jetpack serve`.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.jetpack/runs.db",
		IdleTimeout: 30 * time.Minute,
		MaxSessions: 32,
		Game:        config.DefaultJetpackConfig(),
		TickRate:    60,
	}
}

// SSHServer serves one jetpack game per SSH session. All sessions share
// the run history.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	logger   *log.Logger
	sessions atomic.Int32
}

// NewSSHServer creates the server. A run history that cannot be opened is
// logged and the server runs without one.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "jetpack-ssh",
		})
	}
	srv := &SSHServer{config: cfg, logger: cfg.Logger}

	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			srv.logger.Warn("run history disabled", "path", cfg.DBPath, "error", err)
		} else {
			srv.store = store
		}
	}

	hostKey, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		srv.closeStore()
		return nil, err
	}

	// Middlewares run last to first: the logger sees every connection,
	// the session cap and PTY check run before a program starts.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKey),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.limitMiddleware,
			srv.logMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	srv.server = server
	return srv, nil
}

func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".jetpack", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler builds the model for one session. The renderer is bound to
// the session so colors follow the client's terminal.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	opts := Options{
		Renderer: bubbletea.MakeRenderer(sess),
		Logger:   s.logger.With("user", sess.User()),
	}
	if s.store != nil {
		opts.Store = s.store
	}

	// Seed 0 draws a fresh seed per run.
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}
	return NewModel(jetpack.New(s.config.Game), cfg, opts), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) limitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.sessions.Add(1)
		defer s.sessions.Add(-1)

		if limit := s.config.MaxSessions; limit > 0 && int(n) > limit {
			s.logger.Warn("session rejected", "user", sess.User(), "active", n-1)
			wish.Fatalln(sess, "jetpack: server is full, try again later")
			return
		}
		next(sess)
	}
}

func (s *SSHServer) logMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		remote := sess.RemoteAddr().String()
		s.logger.Info("session started", "user", sess.User(), "remote", remote)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", remote,
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// Sessions reports the number of connected players.
func (s *SSHServer) Sessions() int {
	return int(s.sessions.Load())
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting ssh server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.closeStore()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "sessions", s.Sessions())
	return s.Shutdown()
}

// Shutdown stops accepting sessions and waits up to ten seconds for the
// open ones to finish.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close run history", "error", err)
	}
	s.store = nil
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
