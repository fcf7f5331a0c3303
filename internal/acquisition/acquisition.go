// Package acquisition fingerprints BakingTray acquisition directories.
//
// A directory is considered an acquisition when it carries a recipe YAML,
// a scanSettings.mat file, and at least one form of image data (raw,
// compressed raw, stitched stacks or a stitched-images directory).
package acquisition

import (
	"os"
	"path/filepath"
)

// File patterns that identify the pieces of an acquisition directory.
const (
	CompressedRawDataGlob = "*rawData*.tar.[gb]z"
	RecipeGlob            = "recipe*.yml"
	StitchedImagesGlob    = "stitchedImages_*"
	StitchedStacksGlob    = "*_chan_0[1-9].tiff"
	DownsampledGlob       = "downsampledStacks_*"
	UncroppedGlob         = "Uncropped*_DELETE_ME_DELETE_ME"

	RawDataDir       = "rawData"
	ScanSettingsFile = "scanSettings.mat"
)

// HasRawData reports whether dir contains a rawData directory.
func HasRawData(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, RawDataDir))
	return err == nil && info.IsDir()
}

// HasCompressedRawData reports whether dir contains a compressed raw data
// archive (tar.gz or tar.bz).
func HasCompressedRawData(dir string) bool {
	return globExists(dir, CompressedRawDataGlob)
}

// HasRecipeFile reports whether dir contains a recipe YAML file.
func HasRecipeFile(dir string) bool {
	return globExists(dir, RecipeGlob)
}

// HasScanSettings reports whether dir contains a scanSettings.mat file.
func HasScanSettings(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ScanSettingsFile))
	return err == nil && !info.IsDir()
}

// HasStitchedImagesDirectory reports whether dir contains a stitched
// images directory.
func HasStitchedImagesDirectory(dir string) bool {
	return globExists(dir, StitchedImagesGlob)
}

// HasStitchedStacks reports whether dir contains stitched tiff stacks.
func HasStitchedStacks(dir string) bool {
	return globExists(dir, StitchedStacksGlob)
}

// HasDownsampledStacks reports whether dir contains a downsampled stacks
// directory.
func HasDownsampledStacks(dir string) bool {
	return globExists(dir, DownsampledGlob)
}

// HasUncroppedStitchedImages reports whether dir contains the uncropped
// stitched-images directory left behind by cropping.
func HasUncroppedStitchedImages(dir string) bool {
	return globExists(dir, UncroppedGlob)
}

// UncroppedDir returns the path of the uncropped stitched-images
// directory within dir, or "" when there is none.
func UncroppedDir(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, UncroppedGlob))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// IsDataFolder reports whether dir is a BakingTray acquisition directory:
// it must hold a recipe file and scan settings, plus at least one of
// stitched stacks, a stitched-images directory, raw data or compressed
// raw data.
func IsDataFolder(dir string) bool {
	if !HasRecipeFile(dir) || !HasScanSettings(dir) {
		return false
	}
	return HasStitchedStacks(dir) ||
		HasStitchedImagesDirectory(dir) ||
		HasRawData(dir) ||
		HasCompressedRawData(dir)
}

// ContainsDataFolders reports whether any immediate subdirectory of dir
// is an acquisition directory. Cropped acquisitions look like this: an
// enclosing directory holding one sample directory per brain.
func ContainsDataFolders(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if IsDataFolder(filepath.Join(dir, entry.Name())) {
			return true
		}
	}
	return false
}

func globExists(dir, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) > 0
}
