package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "homesense",
		Short: "Achievements and hints for the smart-home sensor network game",
		Long: `homesense evaluates sensor network designs for the smart-home game.

It unlocks achievements as a design improves, reports room coverage per
sensing modality, and picks the next hint to show the player. Designs are
read from scenario files (YAML or JSON) or streamed live from the editor.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.homesense/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newAchievementsCmd(),
		newHintCmd(),
		newProtocolsCmd(),
		newOptionsCmd(),
		newGraphCmd(),
		newMCPServerCmd(),
		newServeCmd(),
	)
	return rootCmd
}
