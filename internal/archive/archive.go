// Package archive compresses the rawData directory of an acquisition
// into a tar archive named after the sample.
//
// Compression prefers parallel bzip2 (tar -I lbzip2), falls back to
// tar's single-threaded gzip, and as a last resort writes the tar.gz
// in-process when no tar binary is available at all.
package archive

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"btt/internal/acquisition"
	"btt/internal/recipe"
)

// MetadataGlobs are the settings files archived alongside rawData.
var MetadataGlobs = []string{"scanSettings.mat", "*.yml", "*.txt", "*.ini"}

// Job is a prepared compression run for one acquisition directory.
type Job struct {
	JobID      string
	Dir        string
	SampleName string

	// ArchiveName is the output file name, relative to Dir.
	ArchiveName string

	// UseLbzip2 selects tar -I lbzip2 (tar.bz) over tar -z (tar.gz).
	UseLbzip2 bool

	// MetaSourceDir is set when the sample metadata lives in the
	// uncropped stacks directory and must be copied into Dir for the
	// duration of the archive run.
	MetaSourceDir string
}

// HasLbzip2 reports whether the parallel bzip2 compressor is installed.
func HasLbzip2() bool {
	_, err := exec.LookPath("lbzip2")
	return err == nil
}

// HasTar reports whether a tar binary is available.
func HasTar() bool {
	_, err := exec.LookPath("tar")
	return err == nil
}

// Prepare validates dir and derives the sample name used for the
// archive. The name comes from the recipe in dir, failing that from a
// recipe inside the uncropped stacks directory, and as a last resort
// from the directory name plus the current date.
func Prepare(dir string, useLbzip2 bool) (*Job, error) {
	if dir == "" {
		dir = "."
	}
	if !acquisition.HasRawData(dir) {
		return nil, fmt.Errorf("no rawData folder found in %s", dir)
	}

	job := &Job{
		JobID:     uuid.NewString(),
		Dir:       dir,
		UseLbzip2: useLbzip2,
	}

	switch {
	case acquisition.HasRecipeFile(dir):
		name, err := recipe.SampleID(dir)
		if err != nil {
			return nil, err
		}
		job.SampleName = name

	case acquisition.HasUncroppedStitchedImages(dir):
		uncropped := acquisition.UncroppedDir(dir)
		if acquisition.HasRecipeFile(uncropped) {
			name, err := recipe.SampleID(uncropped)
			if err != nil {
				return nil, err
			}
			job.SampleName = name
			job.MetaSourceDir = uncropped
			break
		}
		fallthrough

	default:
		// No metadata anywhere; name the archive after the directory
		// and the date.
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		job.SampleName = filepath.Base(abs) + time.Now().Format("_20060102")
	}

	if useLbzip2 {
		job.ArchiveName = job.SampleName + "_rawData.tar.bz"
	} else {
		job.ArchiveName = job.SampleName + "_rawData.tar.gz"
	}
	return job, nil
}

// MetadataFiles expands MetadataGlobs in dir, returning the base names
// of the files that exist.
func MetadataFiles(dir string) []string {
	var files []string
	for _, pattern := range MetadataGlobs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			files = append(files, filepath.Base(m))
		}
	}
	return files
}

// CommandArgs returns the tar invocation for the job. Paths are
// relative to the job directory; the caller runs tar with Dir as its
// working directory.
func (j *Job) CommandArgs() []string {
	var args []string
	if j.UseLbzip2 {
		args = []string{"-I", "lbzip2", "-cvf", j.ArchiveName}
	} else {
		args = []string{"-zcvf", j.ArchiveName}
	}
	args = append(args, MetadataFiles(j.Dir)...)
	args = append(args, "./"+acquisition.RawDataDir)
	return args
}

// Command returns the printable tar command line.
func (j *Job) Command() string {
	cmd := "tar"
	for _, a := range j.CommandArgs() {
		cmd += " " + a
	}
	return cmd
}

// Run executes the compression. When the metadata lives in the
// uncropped directory it is copied in first and removed afterwards.
func (j *Job) Run() error {
	if j.MetaSourceDir != "" {
		copied, err := j.copyMetadataIn()
		if err != nil {
			return err
		}
		defer removeAll(copied)
	}

	if HasTar() {
		cmd := exec.Command("tar", j.CommandArgs()...)
		cmd.Dir = j.Dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	// No tar binary: write the tar.gz ourselves.
	return WriteArchive(filepath.Join(j.Dir, j.SampleName+"_rawData.tar.gz"), j.Dir)
}

// copyMetadataIn copies the metadata files from the uncropped directory
// into the job directory so they get archived, returning the copied
// paths for later cleanup.
func (j *Job) copyMetadataIn() ([]string, error) {
	var copied []string
	for _, name := range MetadataFiles(j.MetaSourceDir) {
		src := filepath.Join(j.MetaSourceDir, name)
		dst := filepath.Join(j.Dir, name)
		if _, err := os.Stat(dst); err == nil {
			// Never clobber a file already in the job directory.
			continue
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return copied, err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return copied, err
		}
		copied = append(copied, dst)
	}
	return copied, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
