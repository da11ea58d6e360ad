package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridworld/internal/config"
	"github.com/vovakirdan/gridworld/internal/core"
	"github.com/vovakirdan/gridworld/internal/engine"
	"github.com/vovakirdan/gridworld/internal/platform/tui"
	"github.com/vovakirdan/gridworld/internal/render"
	"github.com/vovakirdan/gridworld/internal/scenario"
	"github.com/vovakirdan/gridworld/internal/storage"
	"github.com/vovakirdan/gridworld/internal/world"
)

var (
	flagFile    string
	flagPlain   bool
	flagTicks   int
	flagNoSave  bool
	flagLogFile string
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Watch a scenario",
	Long: `Runs a scenario until the episode terminates.

Without a scenario ID an interactive menu lists every available scenario.
When stdout is not a terminal, or with --plain, the board is printed as a
text table after every tick instead of drawn in a full-screen view.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagFile, "file", "", "Load the scenario from a YAML file")
	runCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print text tables instead of the full-screen view")
	runCmd.Flags().IntVar(&flagTicks, "ticks", 0, "Stop after this many ticks (0 = config value)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the episode")
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs here while the full-screen view is active")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagTicks < 0 {
		fmt.Fprintln(os.Stderr, "Error: --ticks must not be negative")
		os.Exit(1)
	}
	maxTicks := cfg.Engine.MaxTicks
	if flagTicks > 0 {
		maxTicks = flagTicks
	}

	plain := flagPlain || !term.IsTerminal(int(os.Stdout.Fd()))
	if plain && len(args) == 0 && flagFile == "" {
		fmt.Fprintln(os.Stderr, "Error: a scenario ID or --file is required in plain mode")
		os.Exit(1)
	}

	if plain {
		err = runPlain(cmd.Context(), cfg, args, maxTicks)
	} else {
		err = runInteractive(cfg, args, maxTicks)
	}
	if err != nil {
		var be *world.BoundsError
		if errors.As(err, &be) {
			fmt.Fprintf(os.Stderr, "Simulation error: entity looked outside the world: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// runPlain drives the engine directly and prints every tick to stdout.
func runPlain(ctx context.Context, cfg config.Config, args []string, maxTicks int) error {
	logger, err := newLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	sc, err := findScenario(flagFile, firstArg(args))
	if err != nil {
		return err
	}

	seed := runtimeConfig(cfg).ResolveSeed()
	state, err := sc.Build(seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(state, engine.Config{
		Renderer: render.Writer{W: os.Stdout},
		Delay:    cfg.Engine.Delay,
		MaxTicks: maxTicks,
		Logger:   logger,
	})

	runErr := eng.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	out := eng.Outcome()
	fmt.Printf("\n%s: %d ticks, reward %g, terminal %v (seed %d)\n", sc.ID, out.Ticks, out.Reward, out.Terminal, seed)

	if !flagNoSave && out.Ticks > 0 {
		if store := openStore(cfg.Storage.Path, logger); store != nil {
			defer store.Close()
			if _, err := store.SaveEpisode(storage.Episode{
				Scenario: sc.ID,
				Seed:     seed,
				Ticks:    out.Ticks,
				Reward:   out.Reward,
				Terminal: out.Terminal,
			}); err != nil {
				logger.Warn("could not save episode", "error", err)
			}
		}
	}
	return nil
}

// runInteractive starts the Bubble Tea view, or the scenario menu when no
// scenario was named.
func runInteractive(cfg config.Config, args []string, maxTicks int) error {
	var logOut io.Writer
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, cfg.Log.Level)
	if err != nil {
		return err
	}

	rc := runtimeConfig(cfg)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW, rc.ScreenH = w, h
	}

	var store tui.EpisodeStore
	if !flagNoSave {
		if s := openStore(cfg.Storage.Path, logger); s != nil {
			defer s.Close()
			store = s
		}
	}

	if len(args) == 0 && flagFile == "" {
		scenarios, err := scenario.Available(scenarioDirs()...)
		if err != nil {
			return err
		}
		if len(scenarios) == 0 {
			return errors.New("no scenarios available")
		}
		return tui.RunSession(scenarios, store, rc, logger, maxTicks)
	}

	sc, err := findScenario(flagFile, firstArg(args))
	if err != nil {
		return err
	}

	opts := []tui.ModelOption{tui.WithLogger(logger), tui.WithMaxTicks(maxTicks)}
	if store != nil {
		opts = append(opts, tui.WithStore(store))
	}
	out, err := tui.Run(sc, rc, opts...)
	if err != nil {
		return err
	}

	logger.Debug("episode finished", "scenario", sc.ID, "ticks", out.Ticks, "reward", out.Reward)
	fmt.Printf("%s: %d ticks, reward %g, terminal %v\n", sc.ID, out.Ticks, out.Reward, out.Terminal)
	return nil
}

// runtimeConfig converts the loaded config into what the view layer needs.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.Delay = cfg.Engine.Delay
	rc.Seed = cfg.Engine.Seed
	return rc
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
