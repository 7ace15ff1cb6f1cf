package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hexaswarm/swarmctl/internal/shared/logger"
)

// testCmd round-trips content through the running node
var testCmd = &cobra.Command{
	Use:   "test [file]",
	Short: "Verify the node stores and retrieves content",
	Long: `Add a file to the running node, read it back by content identifier and
compare the bytes. Without an argument a small probe file is generated.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		log := logger.New(settings.LogLevel, settings.LogFormat)
		orch := buildOrchestrator(settings, log, promptConfirmer())

		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			path = filepath.Join(os.TempDir(), "swarmctl-probe.txt")
			content := fmt.Sprintf("swarmctl probe %s\n", time.Now().Format(time.RFC3339Nano))
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				fmt.Fprintf(os.Stderr, "Could not write probe file: %v\n", err)
				return
			}
			defer os.Remove(path)
		}

		cid, err := orch.RoundTrip(cmd.Context(), path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Test failed: %v\n", err)
			return
		}

		fmt.Printf("Round-trip OK: %s -> %s\n", path, cid)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
