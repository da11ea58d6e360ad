// gridworld runs tile/object grid-world simulations in the terminal.
//
// Usage:
//
//	gridworld list               - List scenarios and entity kinds
//	gridworld run [scenario]     - Watch a scenario (menu if omitted)
//	gridworld scores <scenario>  - Show the best recorded episodes
//	gridworld serve              - Start SSH server for remote viewing
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.gridworld, ./configs)
//	--seed <value>      - RNG seed for reproducible episodes
//	--delay <duration>  - Pause between ticks
//	--db <path>         - Episode database path
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridworld/internal/config"
	"github.com/vovakirdan/gridworld/internal/scenario"
	"github.com/vovakirdan/gridworld/internal/storage"

	// Import entities to register them
	_ "github.com/vovakirdan/gridworld/internal/entities"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDelay    time.Duration
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridworld",
	Short: "Gridworld - watch grid-world simulations in your terminal",
	Long: `Gridworld runs small tile/object worlds in which entities act once per
tick and movement is resolved cell by cell through collisions.

Available commands:
  list     - Show scenarios and entity kinds
  run      - Watch a scenario, or pick one from a menu
  scores   - View the best recorded episodes
  serve    - Start SSH server for remote viewing

Examples:
  gridworld list
  gridworld run kitkats
  gridworld run kitkats --plain --ticks 50 --seed 42
  gridworld run --file ./my-world.yaml
  gridworld serve --ssh :2222
  gridworld scores kitkats`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().DurationVar(&flagDelay, "delay", 0, "Pause between ticks (e.g. 100ms)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to episode database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Engine.Seed = flagSeed
	}
	if flags.Changed("delay") {
		cfg.Engine.Delay = flagDelay
	}
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// newLogger creates the command logger. A nil writer discards everything.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		return log.New(io.Discard), nil
	}

	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridworld",
		Level:           lvl,
	}), nil
}

// openStore opens the episode database. Failures are logged and the command
// carries on without recording.
func openStore(path string, logger *log.Logger) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open episode database", "path", path, "error", err)
		return nil
	}
	return store
}

// scenarioDirs lists the directories searched for scenario files, in order.
func scenarioDirs() []string {
	dirs := []string{"scenarios"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".gridworld", "scenarios"))
	}
	return dirs
}

// findScenario resolves a scenario by file path or by ID.
func findScenario(file, id string) (scenario.Scenario, error) {
	if file != "" {
		return scenario.LoadFile(file)
	}
	return scenario.Find(id, scenarioDirs()...)
}
