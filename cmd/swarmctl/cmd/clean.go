package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/internal/swarm/orchestrator"
)

// cleanCmd removes the installation
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the node's data and configuration",
	Long: `Stop the daemon and permanently delete the node's data directory and
swarmctl's configuration, including the swarm key. Irreversible; asks for
confirmation unless --yes is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)

		confirmer := promptConfirmer()
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			confirmer = orchestrator.ConfirmFunc(func(string) bool { return true })
		}

		orch := buildOrchestrator(settings, log, confirmer)
		if err := orch.Clean(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Clean failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
}
