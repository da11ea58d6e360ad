package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridworld/internal/storage"
)

var (
	flagRecent int
	flagClear  bool
	flagLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [scenario]",
	Short: "Show recorded episodes",
	Long: `Display the best recorded episodes of a scenario, ordered by reward.

Examples:
  gridworld scores kitkats
  gridworld scores kitkats --limit 3
  gridworld scores --recent 20
  gridworld scores kitkats --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of episodes to show")
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 0, "Show the N most recent episodes of every scenario")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded episodes of the scenario")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if len(args) == 0 && flagRecent <= 0 {
		fmt.Fprintln(os.Stderr, "Error: a scenario ID or --recent is required")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening episode database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		printRecent(store)
		return
	}

	id := args[0]
	if flagClear {
		if err := store.ClearEpisodes(id); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing episodes: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared episodes of %s.\n", id)
		return
	}

	episodes, err := store.TopEpisodes(id, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving episodes: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Episodes - %s\n", id)
	fmt.Println()

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'gridworld run %s' to record the first one!\n", id)
		return
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %-10s  %s\n", "Rank", "Reward", "Ticks", "End", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %-10s  %s\n", "----", "------", "-----", "---", "----")
	for i, e := range episodes {
		fmt.Printf("  %-4d  %-10g  %-6d  %-10s  %s\n", i+1, e.Reward, e.Ticks, endLabel(e.Terminal), e.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, ok, err := store.BestReward(id); err == nil && ok {
		fmt.Printf("Best: %g\n", best)
	}
	if stats, err := store.Stats(id); err == nil {
		fmt.Printf("Episodes: %d  avg reward %.1f  avg ticks %.1f\n", stats.Episodes, stats.AvgReward, stats.AvgTicks)
	}
}

func printRecent(store *storage.Store) {
	episodes, err := store.RecentEpisodes(flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving episodes: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Episodes")
	fmt.Println()
	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		return
	}

	maxIDLen := 8 // "Scenario" header
	for _, e := range episodes {
		maxIDLen = max(maxIDLen, len(e.Scenario))
	}

	fmt.Printf("  %-*s  %-10s  %-6s  %-10s  %s\n", maxIDLen, "Scenario", "Reward", "Ticks", "End", "Date")
	fmt.Printf("  %-*s  %-10s  %-6s  %-10s  %s\n", maxIDLen, "--------", "------", "-----", "---", "----")
	for _, e := range episodes {
		fmt.Printf("  %-*s  %-10g  %-6d  %-10s  %s\n", maxIDLen, e.Scenario, e.Reward, e.Ticks, endLabel(e.Terminal), e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func endLabel(terminal bool) string {
	if terminal {
		return "terminal"
	}
	return "stopped"
}
