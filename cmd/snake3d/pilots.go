package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/autopilot"
)

var pilotsCmd = &cobra.Command{
	Use:   "pilots",
	Short: "List available autopilots",
	Long:  `Shows the autopilots that play, simulate and serve can use.`,
	Args:  cobra.NoArgs,
	Run:   runPilots,
}

func runPilots(_ *cobra.Command, _ []string) {
	pilots := autopilot.List()

	fmt.Println("Available pilots:")
	fmt.Println()

	maxLen := 4 // "Name" header
	for _, p := range pilots {
		maxLen = max(maxLen, len(p.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxLen, "----", "-----------")
	for _, p := range pilots {
		fmt.Printf("  %-*s  %s\n", maxLen, p.Name, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'snake3d play --autopilot <name>' to watch one play.")
}
