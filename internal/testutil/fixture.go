// Package testutil builds throwaway acquisition directory trees for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture holds the standard test tree: two valid sample directories, two
// cropped acquisition directories (each with sample sub-directories and a
// compressed archive), one cropped acquisition without compressed data,
// and a set of invalid directories.
type Fixture struct {
	Root string

	ValidSample1 string
	ValidSample2 string

	// Cropped acquisitions: enclosing dirs whose dir1/dir2 children are
	// sample directories.
	CroppedAcq1 string
	CroppedAcq2 string

	// Like CroppedAcq1 but with no compressed raw data archive.
	CroppedNoCompressed string

	InvalidDir string
}

// NewFixture creates the tree under t.TempDir.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	root := t.TempDir()
	f := &Fixture{
		Root:                root,
		ValidSample1:        filepath.Join(root, "valid_sample_directory_01"),
		ValidSample2:        filepath.Join(root, "valid_sample_directory_02"),
		CroppedAcq1:         filepath.Join(root, "contains_data_subfolders_01"),
		CroppedAcq2:         filepath.Join(root, "contains_data_subfolders_02"),
		CroppedNoCompressed: filepath.Join(root, "contains_data_subfolders_no_compress_data"),
		InvalidDir:          filepath.Join(root, "invalid_data_dirs"),
	}

	// First valid sample has everything: raw data, compressed raw data,
	// stitched images, uncropped leftovers and downsampled stacks.
	MakeSampleDir(t, f.ValidSample1,
		WithRawData(), WithCompressedRawData(), WithStitchedImages(),
		WithUncropped(), WithDownsampledStacks("sample01"))

	// Second valid sample is minimal: recipe, scan settings, raw data.
	MakeSampleDir(t, f.ValidSample2, WithRawData())

	for _, acq := range []string{f.CroppedAcq1, f.CroppedAcq2} {
		MakeSampleDir(t, filepath.Join(acq, "dir1"), WithStitchedImages())
		MakeSampleDir(t, filepath.Join(acq, "dir2"), WithStitchedImages())
		WriteFile(t, filepath.Join(acq, "compressed_rawData.tar.bz"), "")
	}

	MakeSampleDir(t, filepath.Join(f.CroppedNoCompressed, "dir1"), WithStitchedImages())
	MakeSampleDir(t, filepath.Join(f.CroppedNoCompressed, "dir2"), WithStitchedImages())

	// Invalid directories: missing one or more fingerprint pieces.
	MkdirAll(t, filepath.Join(f.InvalidDir, "empty_dir"))
	noSettings := filepath.Join(f.InvalidDir, "recipe_only")
	MkdirAll(t, noSettings)
	WriteFile(t, filepath.Join(noSettings, "recipe_x.yml"), "sample:\n  ID: x\n")
	noData := filepath.Join(f.InvalidDir, "no_image_data")
	MkdirAll(t, noData)
	WriteFile(t, filepath.Join(noData, "recipe_x.yml"), "sample:\n  ID: x\n")
	WriteFile(t, filepath.Join(noData, "scanSettings.mat"), "")

	return f
}

// SampleOption customizes a sample directory created by MakeSampleDir.
type SampleOption func(t *testing.T, dir string)

// MakeSampleDir creates a directory that passes the acquisition
// fingerprint check: recipe YAML plus scanSettings.mat, extended by opts.
func MakeSampleDir(t *testing.T, dir string, opts ...SampleOption) {
	t.Helper()
	MkdirAll(t, dir)
	WriteFile(t, filepath.Join(dir, "recipe_sample_210101.yml"),
		"sample:\n  ID: sample01\nSYSTEM:\n  ID: brainsaw\nAcquisition:\n  acqStartTime: 2021/01/01 12:00:00\n")
	WriteFile(t, filepath.Join(dir, "scanSettings.mat"), "")
	for _, opt := range opts {
		opt(t, dir)
	}
}

// WithRawData adds a rawData directory with one tile file.
func WithRawData() SampleOption {
	return func(t *testing.T, dir string) {
		WriteFile(t, filepath.Join(dir, "rawData", "tile_0001.tif"), "")
	}
}

// WithCompressedRawData adds a compressed raw data archive.
func WithCompressedRawData() SampleOption {
	return func(t *testing.T, dir string) {
		WriteFile(t, filepath.Join(dir, "sample01_rawData.tar.bz"), "")
	}
}

// WithStitchedImages adds a stitched images directory.
func WithStitchedImages() SampleOption {
	return func(t *testing.T, dir string) {
		MkdirAll(t, filepath.Join(dir, "stitchedImages_100"))
	}
}

// WithUncropped adds the uncropped stitched-images leftover directory,
// itself carrying a recipe and scan settings.
func WithUncropped() SampleOption {
	return func(t *testing.T, dir string) {
		uncropped := filepath.Join(dir, "UncroppedStacks_DELETE_ME_DELETE_ME")
		MkdirAll(t, uncropped)
		WriteFile(t, filepath.Join(uncropped, "recipe_sample_210101.yml"),
			"sample:\n  ID: uncropped01\nSYSTEM:\n  ID: brainsaw\nAcquisition:\n  acqStartTime: 2021/01/01 12:00:00\n")
		WriteFile(t, filepath.Join(uncropped, "scanSettings.mat"), "")
	}
}

// WithDownsampledStacks adds four downsampled stacks for sample: two
// channels at two voxel sizes.
func WithDownsampledStacks(sample string) SampleOption {
	return func(t *testing.T, dir string) {
		for _, voxel := range []string{"025_micron", "050_micron"} {
			for _, stack := range []string{
				"ds_" + sample + "_25_25_25_chan01_red.tiff",
				"ds_" + sample + "_25_25_25_chan02_green.tiff",
			} {
				WriteFile(t, filepath.Join(dir, "downsampledStacks_25", voxel, stack), "")
			}
		}
	}
}

// MkdirAll creates dir, failing the test on error.
func MkdirAll(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
