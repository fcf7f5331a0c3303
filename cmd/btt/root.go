package main

import (
	"github.com/spf13/cobra"

	"btt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "btt",
	Short: "btt - BakingTray acquisition tools",
	Long: `btt is a collection of helpers for managing BakingTray microscope
acquisition directories: compressing raw data, transferring acquisitions
to a server with rsync, summarising data directories and checking the
health of the storage array.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("btt version {{.Version}}\n")
}
