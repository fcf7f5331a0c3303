package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external tools btt relies on are installed",
	Long: `Check for the external tools btt shells out to and validate the
configuration file. Exits non-zero when a required tool is missing.`,
	Args: cobra.NoArgs,
	Run:  runDoctor,
}

// Required tools break core commands outright; optional tools only
// degrade them (slower compression, no disk reports).
var (
	requiredTools = []string{"rsync", "tar"}
	optionalTools = []string{"lbzip2", "smartctl", "btrfs", "sudo", "tmux"}
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	ok := true
	for _, tool := range requiredTools {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Printf("✗ %s: NOT FOUND (required)\n", tool)
			ok = false
			continue
		}
		fmt.Printf("✓ %s\n", tool)
	}
	for _, tool := range optionalTools {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Printf("- %s: not found (optional)\n", tool)
			continue
		}
		fmt.Printf("✓ %s\n", tool)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("✗ configuration: %v\n", err)
		ok = false
	} else {
		fmt.Println("✓ configuration")
	}

	if !ok {
		os.Exit(1)
	}
}
