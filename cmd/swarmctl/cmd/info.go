package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/internal/swarm/orchestrator"
)

// infoCmd shows the full node record and live daemon facts
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show node configuration and live daemon details",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)
		orch := buildOrchestrator(settings, log, promptConfirmer())

		info, err := orch.Info(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Info failed: %v\n", err)
			return
		}

		fmt.Printf("State: %s\n", info.State)
		if info.State == orchestrator.StateUninitialized {
			fmt.Println("Run `swarmctl init` to set this machine up.")
			return
		}

		cfg := info.Config
		fmt.Printf("Role: %s\n", cfg.Role)
		fmt.Printf("Network mode: %s\n", cfg.NetworkMode)
		fmt.Printf("Swarm port: %d\n", cfg.BasePort)
		fmt.Printf("API port: %d\n", cfg.APIPort())
		fmt.Printf("Gateway port: %d\n", cfg.GatewayPort())
		if cfg.SwarmKeyPath != "" {
			fmt.Printf("Swarm key: %s\n", cfg.SwarmKeyPath)
		}
		if cfg.BootstrapPeer != "" {
			fmt.Printf("Bootstrap peer: %s\n", cfg.BootstrapPeer)
		}
		if cfg.NodeID != "" {
			fmt.Printf("Node ID: %s\n", cfg.NodeID)
		}
		if info.OverlayAddr != "" {
			fmt.Printf("Overlay address: %s\n", info.OverlayAddr)
		}
		if info.Version != "" {
			fmt.Printf("Node binary version: %s\n", info.Version)
		}
		if cfg.LastStartedAt != nil {
			fmt.Printf("Last started: %s\n", cfg.LastStartedAt.Local())
		}
		if info.State == orchestrator.StateRunning {
			fmt.Printf("Connected peers: %d\n", info.PeerCount)
			for _, p := range info.Peers {
				fmt.Printf("  %s\n", p)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
