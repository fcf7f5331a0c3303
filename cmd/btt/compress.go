package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"btt/internal/archive"
	btterrors "btt/internal/errors"
	"btt/internal/logging"
	"btt/internal/prompt"
	"btt/internal/session"
)

var compressSimulate bool

var compressCmd = &cobra.Command{
	Use:   "compress [DIR]",
	Short: "Compress the rawData directory of an acquisition",
	Long: `Compress the rawData directory of an acquisition into a tar archive
named after the sample, alongside the acquisition metadata files.

Compression uses lbzip2 when installed, producing
<sample>_rawData.tar.bz. Without lbzip2 the archive is gzipped instead,
which is slower to produce and larger.

With no argument the current directory is compressed:
   $ cd /mnt/data/XY_123
   $ btt compress

The rawData directory of a cropped acquisition carries no recipe of its
own; the sample name is then read from the uncropped stacks directory
and its metadata files are included in the archive.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCompress,
}

func init() {
	compressCmd.Flags().BoolVarP(&compressSimulate, "simulate", "s", false,
		"Print the tar command without running it")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	p := prompt.New()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	if len(cfg.Archive.MetadataGlobs) > 0 {
		archive.MetadataGlobs = cfg.Archive.MetadataGlobs
	}

	useLbzip2 := archive.HasLbzip2()
	if !useLbzip2 {
		fmt.Println("lbzip2 is not installed: falling back to gzip. " +
			"Install lbzip2 for much faster, smaller archives.")
	}

	job, err := archive.Prepare(dir, useLbzip2)
	if err != nil {
		exitErr(btterrors.New(btterrors.NoRawData, err.Error(), nil))
	}

	fmt.Printf("Compressing raw data of sample %q into %s\n", job.SampleName, job.ArchiveName)
	fmt.Printf("Using command %s\n", job.Command())

	if compressSimulate {
		return
	}

	// Compression runs for hours. A dropped SSH connection kills it, so
	// insist on an explicit go-ahead outside tmux.
	if session.NeedsDisconnectWarning() {
		if !p.Confirm("\nYou are logged in via SSH but are not in a tmux session, proceed anyway?",
			prompt.DefaultNo) {
			exitAborted()
		}
	}

	if !p.Confirm("Proceed?", prompt.DefaultYes) {
		exitAborted()
	}

	logger.Info("Starting compression", logging.Fields{
		"jobId":  job.JobID,
		"dir":    job.Dir,
		"sample": job.SampleName,
		"lbzip2": job.UseLbzip2,
	})
	if err := job.Run(); err != nil {
		logger.Error("Compression failed", logging.Fields{"jobId": job.JobID, "error": err.Error()})
		exitErr(btterrors.New(btterrors.CommandFailed, "tar failed", err))
	}
	logger.Info("Compression finished", logging.Fields{"jobId": job.JobID, "archive": job.ArchiveName})
}
