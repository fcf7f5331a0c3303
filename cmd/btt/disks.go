package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"btt/internal/btrfs"
	btterrors "btt/internal/errors"
)

var disksOlderThan float64

var disksCmd = &cobra.Command{
	Use:   "disks",
	Short: "Inspect the btrfs storage array",
	Long: `Helpers for troubleshooting the btrfs RAID array acquisitions are
stored on. Requires btrfs-progs, smartmontools and sudo access.`,
}

var disksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the btrfs filesystem backing the data mount",
	Args:  cobra.NoArgs,
	Run:   runDisksShow,
}

var disksAgeCmd = &cobra.Command{
	Use:   "age",
	Short: "Report the power-on age of every disk in the array",
	Long: `Report the power-on age of every disk in the btrfs array and flag
disks older than the replacement threshold.`,
	Args: cobra.NoArgs,
	Run:  runDisksAge,
}

func init() {
	disksAgeCmd.Flags().Float64Var(&disksOlderThan, "older-than", 0,
		"Age threshold in days (default: from the configuration)")
	disksCmd.AddCommand(disksShowCmd)
	disksCmd.AddCommand(disksAgeCmd)
	rootCmd.AddCommand(disksCmd)
}

func runDisksShow(cmd *cobra.Command, args []string) {
	mount, err := btrfs.MountPoint()
	if err != nil {
		exitErr(btterrors.New(btterrors.CommandFailed, err.Error(), nil))
	}
	out, err := btrfs.Show(mount)
	if err != nil {
		exitErr(btterrors.New(btterrors.CommandFailed, err.Error(), nil))
	}
	fmt.Printf("btrfs mount point: %s\n\n%s", mount, out)
}

func runDisksAge(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	threshold := disksOlderThan
	if threshold <= 0 {
		threshold = cfg.Disks.AgeThresholdDays
	}

	ages, err := btrfs.PowerOnAges()
	if err != nil {
		exitErr(btterrors.New(btterrors.CommandFailed, err.Error(), nil))
	}

	fmt.Print(btrfs.FormatAges(ages))

	old := btrfs.DisksOlderThan(ages, threshold)
	if len(old) == 0 {
		fmt.Printf("\nNo disks older than %.0f days.\n", threshold)
		return
	}
	fmt.Printf("\nThe following disks are older than %.0f days and should be replaced:\n", threshold)
	fmt.Print(btrfs.FormatAges(old))
}
