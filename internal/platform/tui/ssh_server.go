package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/scenario"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gridworld/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Delay is the initial pause between ticks for every session.
	Delay time.Duration

	// MaxTicks stops each episode after this many ticks; 0 means no limit.
	MaxTicks int

	// MaxSessions caps concurrent sessions; 0 means no limit.
	MaxSessions int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Delay:       250 * time.Millisecond,
		MaxSessions: 32,
	}
}

// SSHServer serves the gridworld viewer over SSH. Every session gets its own
// menu and its own episodes; sessions only share the episode store.
type SSHServer struct {
	config    SSHServerConfig
	server    *ssh.Server
	scenarios []scenario.Scenario
	store     EpisodeStore
	logger    *log.Logger
	sessions  *semaphore.Weighted // nil when unlimited
}

// NewSSHServer creates a new SSH server. store may be nil; logger may be nil,
// in which case a timestamped stderr logger is used.
func NewSSHServer(cfg SSHServerConfig, scenarios []scenario.Scenario, store EpisodeStore, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gridworld-ssh",
		})
	}

	srv := &SSHServer{
		config:    cfg,
		scenarios: scenarios,
		store:     store,
		logger:    logger,
	}
	if cfg.MaxSessions > 0 {
		srv.sessions = semaphore.NewWeighted(int64(cfg.MaxSessions))
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("ssh: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".gridworld", "host_key")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
			srv.limitMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Delay:   s.config.Delay,
	}

	logger := s.logger.With("user", sess.User())
	model := NewSessionModel(s.scenarios, s.store, cfg, logger, s.config.MaxTicks)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// acquire reserves a session slot. The returned func releases it.
func (s *SSHServer) acquire() (release func(), ok bool) {
	if s.sessions == nil {
		return func() {}, true
	}
	if !s.sessions.TryAcquire(1) {
		return nil, false
	}
	return func() { s.sessions.Release(1) }, true
}

// limitMiddleware turns sessions away once MaxSessions are connected.
func (s *SSHServer) limitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		release, ok := s.acquire()
		if !ok {
			s.logger.Warn("session rejected, server full",
				"user", sess.User(),
				"max", s.config.MaxSessions,
			)
			wish.Fatalln(sess, "gridworld: server is full, try again later")
			return
		}
		defer release()
		next(sess)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled or
// the process receives SIGINT/SIGTERM.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "scenarios", len(s.scenarios))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down...")
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
