package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sherrors "github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/shared/logger"
)

// startCmd starts the swarm daemon
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the swarm daemon",
	Long: `Start the swarm daemon in the background and wait until it accepts
swarm connections. Starting an already-running daemon is a no-op.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)
		orch := buildOrchestrator(settings, log, promptConfirmer())

		if err := orch.Start(cmd.Context()); err != nil {
			switch {
			case errors.Is(err, sherrors.ErrStartTimeout):
				fmt.Fprintf(os.Stderr, "Start timed out: %v\n", err)
				fmt.Fprintln(os.Stderr, "The daemon was launched but never became reachable; check its logs and that the configured ports are free.")
			case errors.Is(err, sherrors.ErrOverlayNotConnected):
				fmt.Fprintf(os.Stderr, "Start blocked: %v\n", err)
			default:
				fmt.Fprintf(os.Stderr, "Start failed: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Println("Daemon is running.")
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
