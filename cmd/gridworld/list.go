package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridworld/internal/registry"
	"github.com/vovakirdan/gridworld/internal/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios and entity kinds",
	Long: `Shows the scenarios found in ./scenarios, ~/.gridworld/scenarios and the
built-ins, followed by the entity kinds scenario files can use.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	scenarios, err := scenario.Available(scenarioDirs()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenarios: %v\n", err)
		os.Exit(1)
	}

	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
	} else {
		fmt.Println("Scenarios:")
		fmt.Println()

		// Calculate column widths
		maxIDLen := 2 // "ID" header
		for _, sc := range scenarios {
			maxIDLen = max(maxIDLen, len(sc.ID))
		}

		fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Size", "Name")
		fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "----", "----")
		for _, sc := range scenarios {
			name := sc.Name
			if sc.FilePath != "" {
				name += " (" + sc.FilePath + ")"
			}
			fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, sc.ID, fmt.Sprintf("%dx%d", sc.Width, sc.Height), name)
		}
	}

	kinds := registry.Kinds()
	maxKindLen := 4 // "Kind" header
	for _, k := range kinds {
		maxKindLen = max(maxKindLen, len(k.Kind))
	}

	fmt.Println()
	fmt.Println("Entity kinds:")
	fmt.Println()
	fmt.Printf("  %-*s  %-6s  %s\n", maxKindLen, "Kind", "Layer", "Description")
	fmt.Printf("  %-*s  %-6s  %s\n", maxKindLen, "----", "-----", strings.Repeat("-", 11))
	for _, k := range kinds {
		fmt.Printf("  %-*s  %-6s  %s\n", maxKindLen, k.Kind, k.Layer, k.Description)
	}

	fmt.Println()
	fmt.Println("Run 'gridworld run <id>' to watch a scenario.")
}
