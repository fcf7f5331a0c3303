package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	btterrors "btt/internal/errors"
	"btt/internal/summary"
)

var summariseJSON bool

var summariseCmd = &cobra.Command{
	Use:     "summarise [DIR]",
	Aliases: []string{"summarize"},
	Short:   "Summarise the acquisitions under a directory",
	Long: `List every sub-directory of DIR (default: the current directory) and
report whether it is a BakingTray acquisition, a directory containing
acquisitions, or something else. Acquisitions show their start time.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSummarise,
}

func init() {
	summariseCmd.Flags().BoolVar(&summariseJSON, "json", false,
		"Emit the summary as JSON")
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	entries, err := summary.Summarise(dir)
	if err != nil {
		exitErr(btterrors.New(btterrors.PathMissing, err.Error(), nil))
	}

	if summariseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			exitErr(btterrors.New(btterrors.InternalError, "failed to encode summary", err))
		}
		return
	}

	for _, entry := range entries {
		fmt.Println(entry.Describe())
	}
}
