package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"btt/internal/acquisition"
	btterrors "btt/internal/errors"
	"btt/internal/logging"
	"btt/internal/prompt"
)

var (
	registerVoxelSize int
	registerChannel   string
	registerSimulate  bool
)

var registerCmd = &cobra.Command{
	Use:   "register [DIR]",
	Short: "Register a downsampled stack to the atlas",
	Long: `Hand a downsampled stack of an acquisition (default: the current
directory) to the registration pipeline. The stack is chosen by voxel
size and channel; the registration itself runs in the configured
external command (brainreg by default).

Output is written to a registration sub-directory of the acquisition
named after the voxel size and channel.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRegister,
}

func init() {
	registerCmd.Flags().IntVarP(&registerVoxelSize, "voxel-size", "V", 0,
		"Voxel size of the stack to register (default: from the configuration)")
	registerCmd.Flags().StringVarP(&registerChannel, "channel", "C", "",
		"Channel of the stack to register (default: from the configuration)")
	registerCmd.Flags().BoolVarP(&registerSimulate, "simulate", "s", false,
		"Print the registration command without running it")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	p := prompt.New()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	if !acquisition.IsDataFolder(dir) {
		exitErr(btterrors.New(btterrors.NotAcquisition,
			fmt.Sprintf("%s is not an acquisition directory", dir), nil))
	}

	volumes, err := acquisition.AvailableDownsampledVolumes(dir)
	if err != nil {
		exitErr(btterrors.New(btterrors.InternalError, err.Error(), err))
	}
	if len(volumes) == 0 {
		exitErr(btterrors.New(btterrors.NotAcquisition,
			fmt.Sprintf("no downsampled stacks found in %s", dir), nil))
	}

	voxel := registerVoxelSize
	if voxel == 0 {
		voxel = cfg.Register.VoxelSize
	}
	channel := registerChannel
	if channel == "" {
		channel = cfg.Register.Channel
	}

	volume, ok := findVolume(volumes, voxel, channel)
	if !ok {
		fmt.Fprintf(os.Stderr, "No %d micron %s stack in %s.\n", voxel, channel, dir)
		fmt.Fprintf(os.Stderr, "Available voxel sizes: %s\n", joinInts(acquisition.VoxelSizes(volumes)))
		fmt.Fprintf(os.Stderr, "Available channels:    %s\n", strings.Join(acquisition.ChannelNames(volumes), ", "))
		os.Exit(1)
	}

	outDir := fmt.Sprintf("registration_%02d_micron_%s", volume.VoxelSize, volume.ChannelName)
	v := strconv.Itoa(volume.VoxelSize)
	cmdArgs := []string{
		volume.Path,
		outDir,
		"-v", v, v, v,
		"--orientation", cfg.Register.Orientation,
		"--atlas", cfg.Register.AtlasName,
	}

	fmt.Printf("Registering sample %q (%d micron, %s channel)\n",
		volume.SampleName, volume.VoxelSize, volume.ChannelName)
	fmt.Printf("Using command %s %s\n", cfg.Register.Command, strings.Join(cmdArgs, " "))

	if registerSimulate {
		return
	}
	if !p.Confirm("Proceed?", prompt.DefaultYes) {
		exitAborted()
	}

	if _, err := exec.LookPath(cfg.Register.Command); err != nil {
		exitErr(btterrors.New(btterrors.ToolMissing,
			fmt.Sprintf("%s is not installed", cfg.Register.Command), err))
	}

	run := exec.Command(cfg.Register.Command, cmdArgs...)
	run.Dir = dir
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr

	logger.Info("Starting registration", logging.Fields{
		"stack":     volume.Path,
		"voxelSize": volume.VoxelSize,
		"channel":   volume.ChannelName,
	})
	if err := run.Run(); err != nil {
		exitErr(btterrors.New(btterrors.CommandFailed,
			fmt.Sprintf("%s failed", cfg.Register.Command), err))
	}
	logger.Info("Registration finished", logging.Fields{"outDir": outDir})
}

func findVolume(volumes []acquisition.DownsampledVolume, voxel int, channel string) (acquisition.DownsampledVolume, bool) {
	for _, v := range volumes {
		if v.VoxelSize == voxel && strings.EqualFold(v.ChannelName, channel) {
			return v, true
		}
	}
	return acquisition.DownsampledVolume{}, false
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
