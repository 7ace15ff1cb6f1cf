package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
)

// stopCmd stops the swarm daemon
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the swarm daemon",
	Long: `Stop the swarm daemon: graceful shutdown first, forceful termination
if the daemon does not respond. Stopping a daemon that is not running is a
no-op.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)
		orch := buildOrchestrator(settings, log, promptConfirmer())

		if err := orch.Stop(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Stop failed: %v\n", err)
			return
		}

		fmt.Println("Daemon stopped.")
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
