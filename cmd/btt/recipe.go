package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	btterrors "btt/internal/errors"
	"btt/internal/recipe"
)

var recipeJSON bool

var recipeCmd = &cobra.Command{
	Use:   "recipe [DIR]",
	Short: "Show the recipe of an acquisition directory",
	Long: `Read the recipe file of an acquisition directory (default: the current
directory) and print the sample ID, the microscope that acquired it and
the acquisition start time.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRecipe,
}

func init() {
	recipeCmd.Flags().BoolVar(&recipeJSON, "json", false,
		"Emit the recipe summary as JSON")
	rootCmd.AddCommand(recipeCmd)
}

func runRecipe(cmd *cobra.Command, args []string) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	r, err := recipe.Load(dir)
	if err != nil {
		exitErr(btterrors.New(btterrors.NoRecipe, err.Error(), nil))
	}

	if recipeJSON {
		out := map[string]string{
			"sampleId":     r.Sample.ID,
			"microscope":   r.System.ID,
			"acqStartTime": r.Acquisition.AcqStartTime,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			exitErr(btterrors.New(btterrors.InternalError, "failed to encode recipe", err))
		}
		return
	}

	fmt.Printf("Sample:     %s\n", r.Sample.ID)
	fmt.Printf("Microscope: %s\n", r.System.ID)
	fmt.Printf("Started:    %s\n", r.Acquisition.AcqStartTime)
}
