package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/internal/swarm/orchestrator"
)

// statusCmd shows the node's lifecycle state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the node's lifecycle state",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)
		orch := buildOrchestrator(settings, log, promptConfirmer())

		state, cfg, err := orch.Status(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status check failed: %v\n", err)
			return
		}

		fmt.Printf("State: %s\n", state)
		switch state {
		case orchestrator.StateUninitialized:
			fmt.Println("Run `swarmctl init` to set this machine up.")
		case orchestrator.StateDegraded:
			fmt.Println("The mesh overlay is not connected; run `tailscale up`.")
		}

		if cfg != nil {
			fmt.Printf("Role: %s\n", cfg.Role)
			fmt.Printf("Network mode: %s\n", cfg.NetworkMode)
			if cfg.NodeID != "" {
				fmt.Printf("Node ID: %s\n", cfg.NodeID)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
