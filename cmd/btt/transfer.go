package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"btt/internal/acquisition"
	btterrors "btt/internal/errors"
	"btt/internal/logging"
	"btt/internal/prompt"
	"btt/internal/session"
	"btt/internal/transfer"
)

var (
	transferSimulate bool
	transferFlags    string
)

var transferCmd = &cobra.Command{
	Use:   "transfer SOURCE... DEST",
	Short: "Transfer acquisitions to a server mounted on the local machine",
	Long: `Transfer BakingTray data to a server mounted on the local machine.

This command wraps rsync. Uncompressed raw data and the un-cropped
stacks directory are never copied.

Usage examples:

1. Transfer one sample plus any compressed raw data:
   $ btt transfer ./XY_123 /mnt/datastor/user/path/

2. Transfer a directory containing two samples (after cropping) plus any
   compressed raw data. You will be prompted whether the samples should
   stay in their enclosing directory on the server:
   $ btt transfer ./USER_sampleA_sampleB/ /mnt/datastor/user/path/

3. Simulate the transfer of one sample:
   $ btt transfer ./XY_123 /mnt/datastor/user/path/ --simulate

4. Run with different rsync flags:
   $ btt transfer ./XY_123 /mnt/datastor/user/path/ --rsync-flags rv

If you have signed in via SSH and are not in a tmux session you are
asked for confirmation before continuing: should the connection drop,
the transfer fails. tmux is recommended.`,
	Args: cobra.MinimumNArgs(2),
	Run:  runTransfer,
}

func init() {
	transferCmd.Flags().BoolVarP(&transferSimulate, "simulate", "s", false,
		"Conduct an rsync dry run; nothing is copied")
	transferCmd.Flags().StringVarP(&transferFlags, "rsync-flags", "r", "",
		`Rsync flags to use. Default is "av"; "rv" is a reasonable alternative`)
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	p := prompt.New()

	sources := append([]string{}, args[:len(args)-1]...)
	dest := args[len(args)-1]

	if err := transfer.CheckSourcePaths(sources, dest); err != nil {
		exitErr(btterrors.New(btterrors.PathMissing, err.Error(), nil))
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitErr(btterrors.New(btterrors.InternalError, "cannot determine working directory", err))
	}

	sources = normalizeSources(sources, p)

	// Warn about anything the transfer would overwrite at the
	// destination.
	if conflicts := transfer.DestinationConflicts(sources, dest); len(conflicts) > 0 {
		for _, name := range conflicts {
			fmt.Printf("===>>> WARNING!! %q already exists in %q!! Proceeding will over-write its contents <====\n",
				name, dest)
		}
		fmt.Println("\nIS IT OK TO PROCEED DESPITE THE ABOVE WARNINGS?")
		if !p.Confirm("", prompt.DefaultYes) {
			exitAborted()
		}
	}

	// Warn when the source list probably misses a compressed raw data
	// archive.
	if transfer.WarnIfCompressedDataNotSent(sources, cwd) {
		fmt.Println("\nThe directories you list come from a cropped acquisition whose " +
			"compressed raw data archive is NOT in the transfer list.")
		if !p.Confirm("Proceed without backing up the raw data archive?", prompt.DefaultNo) {
			exitAborted()
		}
	}

	if session.NeedsDisconnectWarning() {
		if !p.Confirm("\nYou are logged in via SSH but are not in a tmux session, proceed anyway?",
			prompt.DefaultNo) {
			exitAborted()
		}
	}

	flags := transferFlags
	if flags == "" {
		flags = cfg.Transfer.RsyncFlags
	}
	plan := transfer.NewPlan(sources, dest, flags, transferSimulate)

	fmt.Println("\nPerform the following transfer?")
	printPlan(plan)
	fmt.Printf("Using command %s\n", plan.Command())
	if !p.Confirm("", prompt.DefaultYes) {
		exitAborted()
	}

	logger.Info("Starting transfer", logging.Fields{
		"jobId":    plan.JobID,
		"sources":  len(plan.Sources),
		"dest":     plan.Dest,
		"simulate": plan.Simulate,
	})
	if err := plan.Run(); err != nil {
		logger.Error("Transfer failed", logging.Fields{"jobId": plan.JobID, "error": err.Error()})
		exitErr(btterrors.New(btterrors.CommandFailed, "rsync failed", err))
	}
	logger.Info("Transfer finished", logging.Fields{"jobId": plan.JobID})
}

// normalizeSources trims trailing slashes from sample directories. An
// enclosing directory with multiple samples keeps the slash only when
// the user asks for its contents to be copied loose.
func normalizeSources(sources []string, p *prompt.Prompter) []string {
	for i, src := range sources {
		trimmed := strings.TrimSuffix(src, string(os.PathSeparator))

		switch {
		case acquisition.IsDataFolder(src) && !acquisition.ContainsDataFolders(src):
			sources[i] = trimmed

		case acquisition.ContainsDataFolders(src):
			sources[i] = trimmed
			fmt.Printf("\nDirectory %q contains multiple samples.\n", trimmed)
			fmt.Printf("Do you want to keep samples in their enclosing directory (%s) when on the server?\n", trimmed)
			if !p.Confirm("", prompt.DefaultYes) {
				sources[i] = trimmed + string(os.PathSeparator)
			}
		}
	}
	return sources
}

// printPlan lists what will be copied where. Slash-terminated sources
// copy their contents, so each entry is listed instead.
func printPlan(plan *transfer.Plan) {
	for _, src := range plan.Sources {
		if !strings.HasSuffix(src, string(os.PathSeparator)) {
			fmt.Printf("Copy directory %q to location %q\n", src, plan.Dest)
			continue
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if name == acquisition.RawDataDir || strings.Contains(name, "_DELETE_ME") {
				continue
			}
			fmt.Printf("Copy %q to %q\n", filepath.Join(src, name), plan.Dest)
		}
	}
}
