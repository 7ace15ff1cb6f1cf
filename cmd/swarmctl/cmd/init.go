package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/internal/swarm/config"
)

// initCmd initializes this machine as a swarm node
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize this machine as a private swarm node",
	Long: `Initialize this machine as a private swarm node.

A bootstrap node generates the shared swarm key and becomes the peer other
nodes join through. A regular node joins an existing swarm: it needs a copy
of the bootstrap node's swarm key and the bootstrap node's multiaddr.

Examples:
  # First node of a new swarm
  swarmctl init --bootstrap --port 4001

  # Join an existing swarm
  swarmctl init --regular --swarm-key ./swarm.key \
    --bootstrap-addr "/ip4/10.0.0.1/tcp/4001/p2p/12D3KooW..."

  # Use the tailscale overlay for connectivity
  swarmctl init --bootstrap --mesh`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)

		bootstrap, _ := cmd.Flags().GetBool("bootstrap")
		regular, _ := cmd.Flags().GetBool("regular")
		if bootstrap && regular {
			fmt.Fprintln(os.Stderr, "Error: --bootstrap and --regular are mutually exclusive")
			os.Exit(1)
		}

		desired := config.DefaultNodeConfig()
		if regular {
			desired.Role = config.RoleRegular
		}
		if mesh, _ := cmd.Flags().GetBool("mesh"); mesh {
			desired.NetworkMode = config.ModeMesh
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			desired.BasePort = port
		}
		desired.SwarmKeyPath, _ = cmd.Flags().GetString("swarm-key")
		desired.BootstrapPeer, _ = cmd.Flags().GetString("bootstrap-addr")
		force, _ := cmd.Flags().GetBool("force")

		orch := buildOrchestrator(settings, log, promptConfirmer())
		if err := orch.Init(cmd.Context(), desired, force); err != nil {
			fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\nNode initialized as %s node (base port %d)\n", desired.Role, desired.BasePort)
		if desired.Role == config.RoleBootstrap {
			fmt.Printf("Swarm key: %s\n", desired.SwarmKeyPath)
			fmt.Println("Copy the swarm key to every node joining this swarm.")
		}
		fmt.Println("Start the daemon with: swarmctl start")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("bootstrap", false, "initialize as the swarm's bootstrap node (default)")
	initCmd.Flags().Bool("regular", false, "initialize as a regular node joining an existing swarm")
	initCmd.Flags().Bool("mesh", false, "connect peers over the tailscale mesh overlay")
	initCmd.Flags().String("swarm-key", "", "path to the swarm key (required for --regular)")
	initCmd.Flags().String("bootstrap-addr", "", "bootstrap node multiaddr incl. /p2p/ peer id (required for --regular)")
	initCmd.Flags().Int("port", 0, "swarm base port (default 4001)")
	initCmd.Flags().Bool("force", false, "allow changing role or network mode on an initialized node")
}
