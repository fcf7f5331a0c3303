// Package summary classifies the sub-directories of a data mount for
// the summarise command.
package summary

import (
	"fmt"
	"os"
	"path/filepath"

	"btt/internal/acquisition"
	"btt/internal/recipe"
)

// Kind classifies one directory.
type Kind string

const (
	// KindAcquisition is a BakingTray acquisition directory.
	KindAcquisition Kind = "acquisition"
	// KindContainer holds acquisition sub-directories (cropped data).
	KindContainer Kind = "container"
	// KindOther is anything else.
	KindOther Kind = "other"
)

// Entry is the summary of one directory.
type Entry struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	StartTime string `json:"startTime,omitempty"`
}

// Describe returns the human-readable line for the entry.
func (e Entry) Describe() string {
	switch e.Kind {
	case KindAcquisition:
		return fmt.Sprintf("%s is a BakingTray acquisition started at %s", e.Name, e.StartTime)
	case KindContainer:
		return fmt.Sprintf("%s contains BakingTray acquisition sub-directories", e.Name)
	default:
		return fmt.Sprintf("%s is not a BakingTray acquisition directory", e.Name)
	}
}

// Summarise classifies every immediate sub-directory of dir.
func Summarise(dir string) ([]Entry, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var out []Entry
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch {
		case acquisition.IsDataFolder(path):
			e := Entry{Name: entry.Name(), Kind: KindAcquisition}
			// A data folder without a readable start time is still a
			// data folder.
			if start, err := recipe.AcqStartTime(path); err == nil {
				e.StartTime = start
			}
			out = append(out, e)
		case acquisition.ContainsDataFolders(path):
			out = append(out, Entry{Name: entry.Name(), Kind: KindContainer})
		default:
			out = append(out, Entry{Name: entry.Name(), Kind: KindOther})
		}
	}
	return out, nil
}
