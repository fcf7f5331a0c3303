// Package transfer plans and runs rsync transfers of acquisition
// directories to a mounted server.
//
// The interesting part is the missed-raw-data heuristic: when a user
// lists individual sample directories plucked out of a cropped
// acquisition, the acquisition-level compressed rawData archive sitting
// next to them is silently left behind unless they name it too. We
// detect that case and warn before anything is copied.
package transfer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"btt/internal/acquisition"
)

// DefaultRsyncFlags is the rsync switch used when none is supplied.
const DefaultRsyncFlags = "av"

var compressedArchiveRe = regexp.MustCompile(`rawData.*\.tar\.[bg]z`)

// CheckSourcePaths verifies that every source path exists and that dest
// is an existing directory. All failures are reported in one error.
func CheckSourcePaths(sources []string, dest string) error {
	var problems []string
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			problems = append(problems, fmt.Sprintf("%s does not exist", src))
		}
	}
	if info, err := os.Stat(dest); err != nil || !info.IsDir() {
		problems = append(problems, fmt.Sprintf("%s is not a valid destination directory", dest))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}
	return nil
}

// fromCroppedAcquisition reports whether dir sits inside a cropped
// acquisition directory: its parent holds sample data folders alongside
// a compressed rawData archive.
func fromCroppedAcquisition(dir string) bool {
	parent := filepath.Dir(filepath.Clean(dir))
	return acquisition.ContainsDataFolders(parent) && acquisition.HasCompressedRawData(parent)
}

// SpecifiedCroppedDirsIndividually reports whether the user has named
// sample directories from inside a cropped acquisition one by one,
// rather than naming the enclosing directory. cwd is the directory the
// command runs from; when that is itself a data folder and multiple
// sources are given, the sources are by definition individual pieces.
func SpecifiedCroppedDirsIndividually(sources []string, cwd string) bool {
	var dirs []string
	for _, src := range sources {
		if info, err := os.Stat(src); err == nil && info.IsDir() {
			dirs = append(dirs, src)
		}
	}

	if len(dirs) > 1 && cwd != "" && acquisition.IsDataFolder(cwd) {
		return true
	}

	for _, dir := range dirs {
		if fromCroppedAcquisition(dir) {
			return true
		}
	}
	return false
}

// ContainsCompressedArchive reports whether paths names at least one
// compressed rawData archive. When inDir is non-empty the archive must
// also live directly in that directory; an archive somewhere else does
// not cover samples taken from inDir.
func ContainsCompressedArchive(paths []string, inDir string) bool {
	for _, p := range paths {
		if !compressedArchiveRe.MatchString(p) {
			continue
		}
		if inDir == "" || filepath.Dir(filepath.Clean(p)) == filepath.Clean(inDir) {
			return true
		}
	}
	return false
}

// WarnIfCompressedDataNotSent reports whether the source list probably
// misses a compressed rawData archive the user meant to send: sample
// directories were specified individually, the enclosing acquisition has
// an archive, and no archive from that directory is in the list.
func WarnIfCompressedDataNotSent(sources []string, cwd string) bool {
	if !SpecifiedCroppedDirsIndividually(sources, cwd) {
		return false
	}

	// Find the enclosing acquisition of the first individually
	// specified directory and check the list covers its archive.
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			continue
		}
		if !fromCroppedAcquisition(src) {
			continue
		}
		parent := filepath.Dir(filepath.Clean(src))
		return !ContainsCompressedArchive(sources, parent)
	}

	// Individually specified relative to the working directory.
	if cwd != "" && acquisition.IsDataFolder(cwd) {
		return !ContainsCompressedArchive(sources, "") && acquisition.HasCompressedRawData(cwd)
	}
	return false
}

// DestinationConflicts returns the names that already exist at dest and
// would be overwritten by the transfer. Sources with a trailing slash
// copy their contents, so each entry is checked instead, skipping
// rawData and cropping leftovers which are excluded from the transfer
// anyway.
func DestinationConflicts(sources []string, dest string) []string {
	var conflicts []string
	for _, src := range sources {
		if !strings.HasSuffix(src, string(os.PathSeparator)) {
			name := filepath.Base(filepath.Clean(src))
			if _, err := os.Stat(filepath.Join(dest, name)); err == nil {
				conflicts = append(conflicts, name)
			}
			continue
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if name == "rawData" || strings.Contains(name, "_DELETE_ME") {
				continue
			}
			if _, err := os.Stat(filepath.Join(dest, name)); err == nil {
				conflicts = append(conflicts, name)
			}
		}
	}
	return conflicts
}

// Plan is a fully resolved transfer ready to run.
type Plan struct {
	JobID    string
	Sources  []string
	Dest     string
	Flags    string
	Simulate bool
}

// NewPlan builds a transfer plan. Flags get a leading dash when missing
// and simulate appends rsync's dry-run switch.
func NewPlan(sources []string, dest, flags string, simulate bool) *Plan {
	if flags == "" {
		flags = DefaultRsyncFlags
	}
	if !strings.HasPrefix(flags, "-") {
		flags = "-" + flags
	}
	if simulate {
		flags += "n"
	}
	return &Plan{
		JobID:    uuid.NewString(),
		Sources:  sources,
		Dest:     dest,
		Flags:    flags,
		Simulate: simulate,
	}
}

// Args returns the argument vector passed to rsync.
func (p *Plan) Args() []string {
	args := []string{p.Flags, "--progress", "--exclude", "rawData", "--exclude", "*_DELETE_ME_*"}
	args = append(args, p.Sources...)
	args = append(args, p.Dest)
	return args
}

// Command returns the printable rsync command line.
func (p *Plan) Command() string {
	return "rsync " + strings.Join(p.Args(), " ")
}

// Run executes rsync with output passed through to the terminal.
func (p *Plan) Run() error {
	cmd := exec.Command("rsync", p.Args()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
