package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridworld/internal/config"
	"github.com/vovakirdan/gridworld/internal/platform/tui"
	"github.com/vovakirdan/gridworld/internal/scenario"
	"github.com/vovakirdan/gridworld/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gridworld SSH server",
	Long: `Start an SSH server that lets users connect and watch scenarios.

Each SSH connection gets its own session with a scenario menu.
Episodes are stored per-server (all users share the same scoreboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses ssh.host_key_path from the config

Examples:
  gridworld serve                           # Listen on the configured address
  gridworld serve --ssh :2222               # Listen on port 2222
  gridworld serve --host-key ./my_host_key  # Use specific host key
  gridworld serve --db ./episodes.db        # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", -1, "Concurrent session limit (0 = unlimited, -1 = config value)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger = logger.WithPrefix("gridworld-ssh")

	srvCfg := serverConfig(cfg)

	scenarios, err := scenario.Available(scenarioDirs()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenarios: %v\n", err)
		os.Exit(1)
	}

	var store tui.EpisodeStore
	if s, err := storage.Open(cfg.Storage.Path); err != nil {
		logger.Warn("running without an episode database", "error", err)
	} else {
		defer s.Close()
		store = s
	}

	server, err := tui.NewSSHServer(srvCfg, scenarios, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting gridworld SSH server on %s\n", srvCfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(cmd.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// serverConfig merges the ssh section of the config with the serve flags.
func serverConfig(cfg config.Config) tui.SSHServerConfig {
	srv := tui.SSHServerConfig{
		Address:     cfg.SSH.Address,
		HostKeyPath: cfg.SSH.HostKeyPath,
		IdleTimeout: cfg.SSH.IdleTimeout,
		Delay:       cfg.Engine.Delay,
		MaxTicks:    cfg.Engine.MaxTicks,
		MaxSessions: cfg.SSH.MaxSessions,
	}
	if flagSSHAddr != "" {
		srv.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srv.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srv.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	if flagMaxSessions >= 0 {
		srv.MaxSessions = flagMaxSessions
	}
	return srv
}
