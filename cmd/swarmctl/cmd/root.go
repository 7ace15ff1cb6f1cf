package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/internal/swarm/config"
	"github.com/hexaswarm/swarmctl/internal/swarm/keys"
	"github.com/hexaswarm/swarmctl/internal/swarm/kubo"
	"github.com/hexaswarm/swarmctl/internal/swarm/orchestrator"
	"github.com/hexaswarm/swarmctl/internal/swarm/tailscale"
	"github.com/hexaswarm/swarmctl/pkg/events"
	"github.com/hexaswarm/swarmctl/pkg/invoker"
)

// rootCmd is the base command for swarmctl
var rootCmd = &cobra.Command{
	Use:   "swarmctl",
	Short: "Set up and run private IPFS swarm nodes",
	Long: `swarmctl configures and runs a node in a private IPFS swarm.

It wraps the kubo (ipfs) binary and optionally tailscale: it generates or
imports the shared swarm key, configures addresses and bootstrap peers for
network isolation, and starts, stops and inspects the local daemon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "settings file (default: search ~/.swarmctl/settings.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
}

// loadSettings loads the ambient settings and applies persistent flag
// overrides.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	loader := config.NewLoader()
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		loader = loader.WithFile(file)
	}
	s, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		s.LogLevel = lvl
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		s.LogFormat = format
	}
	return s, nil
}

// buildOrchestrator wires the orchestrator from real collaborators and
// attaches a console progress reporter.
func buildOrchestrator(s *config.Settings, log *logger.Logger, confirmer orchestrator.Confirmer) *orchestrator.Orchestrator {
	inv := invoker.NewExec("IPFS_PATH=" + s.IPFSPath)

	bus := events.NewBus()
	bus.Subscribe(events.StepStarted, func(evt events.StepEvent) {
		fmt.Printf("[%d/%d] %s\n", evt.Index, evt.Total, evt.Step)
	})
	bus.Subscribe(events.StepFailed, func(evt events.StepEvent) {
		fmt.Printf("[%d/%d] %s: failed: %v\n", evt.Index, evt.Total, evt.Step, evt.Err)
	})

	return orchestrator.New(orchestrator.Options{
		Settings:  s,
		Store:     config.NewStore(s.RecordPath()),
		Keys:      keys.NewManager(log.WithComponent("keys")),
		Node:      kubo.NewClient(s.IPFSBin, s.IPFSPath, inv, log.WithComponent("kubo")),
		Overlay:   tailscale.NewClient(s.TailscaleBin, inv, log.WithComponent("tailscale")),
		Invoker:   inv,
		Bus:       bus,
		Confirmer: confirmer,
		Logger:    log,
	})
}

// promptConfirmer asks on the terminal and accepts y/yes.
func promptConfirmer() orchestrator.Confirmer {
	return orchestrator.ConfirmFunc(func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}
