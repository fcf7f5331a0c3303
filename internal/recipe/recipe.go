// Package recipe reads BakingTray recipe YAML files.
package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"btt/internal/acquisition"
)

// Recipe is the subset of the recipe YAML that the tools need. Unknown
// fields are ignored.
type Recipe struct {
	Sample struct {
		ID string `yaml:"ID"`
	} `yaml:"sample"`
	System struct {
		ID string `yaml:"ID"`
	} `yaml:"SYSTEM"`
	Acquisition struct {
		AcqStartTime string `yaml:"acqStartTime"`
	} `yaml:"Acquisition"`
}

// Load reads the recipe file from dir. If multiple recipe files are
// present the lexically last one is read, matching how acquisitions
// accumulate re-saved recipes.
func Load(dir string) (*Recipe, error) {
	if dir == "" {
		dir = "."
	}
	if !acquisition.HasRecipeFile(dir) {
		return nil, fmt.Errorf("no recipe file found in %s", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, acquisition.RecipeGlob))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	path := matches[len(matches)-1]

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse recipe file %s: %w", path, err)
	}
	return &r, nil
}

// SampleID returns the sample ID recorded in the recipe in dir.
func SampleID(dir string) (string, error) {
	r, err := Load(dir)
	if err != nil {
		return "", err
	}
	return r.Sample.ID, nil
}

// Microscope returns the microscope name recorded in the recipe in dir.
func Microscope(dir string) (string, error) {
	r, err := Load(dir)
	if err != nil {
		return "", err
	}
	return r.System.ID, nil
}

// AcqStartTime returns the acquisition start time recorded in the recipe
// in dir.
func AcqStartTime(dir string) (string, error) {
	r, err := Load(dir)
	if err != nil {
		return "", err
	}
	return r.Acquisition.AcqStartTime, nil
}
