package transfer

import (
	"path/filepath"
	"strings"
	"testing"

	"btt/internal/testutil"
)

func TestCheckSourcePaths(t *testing.T) {
	f := testutil.NewFixture(t)

	// Both directories exist.
	err := CheckSourcePaths([]string{f.ValidSample1, f.ValidSample2}, f.Root)
	if err != nil {
		t.Errorf("Expected valid paths to pass, got %v", err)
	}

	// Missing source.
	err = CheckSourcePaths([]string{filepath.Join(f.Root, "nope")}, f.Root)
	if err == nil {
		t.Error("Expected missing source to fail")
	} else if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}

	// Destination that is a file, not a directory.
	archive := filepath.Join(f.CroppedAcq1, "compressed_rawData.tar.bz")
	err = CheckSourcePaths([]string{f.ValidSample1}, archive)
	if err == nil {
		t.Error("Expected file destination to fail")
	}

	// Missing source and bad destination are both reported.
	err = CheckSourcePaths([]string{filepath.Join(f.Root, "nope")}, archive)
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "does not exist") ||
		!strings.Contains(err.Error(), "not a valid destination") {
		t.Errorf("Expected both problems reported, got: %v", err)
	}
}

func TestContainsCompressedArchive(t *testing.T) {
	croppedDir := filepath.Join("tests", "data", "contains_data_subfolders_01")

	yes := [][]string{
		{filepath.Join("dir1", "dir2", "stuff_rawData.tar.bz"), "dir_a", "dir_b"},
		{filepath.Join("dir1", "dir2", "stuff_rawData.tar.gz"), "dir_a", "dir_b"},
		{
			filepath.Join("dir1", "dir2", "stuff_rawData.tar.gz"),
			"dir_a", "dir_b",
			filepath.Join("dir1", "dir2", "stuff_rawData.tar.bz"),
		},
		{
			filepath.Join(croppedDir, "dir1"),
			filepath.Join(croppedDir, "dir1"),
			filepath.Join(croppedDir, "compressed_rawData.tar.bz"),
		},
	}
	for i, paths := range yes {
		if !ContainsCompressedArchive(paths, "") {
			t.Errorf("Case %d: expected archive to be found in %v", i, paths)
		}
	}

	// The archive can also be required to live in a given directory.
	if !ContainsCompressedArchive(yes[3], croppedDir) {
		t.Error("Expected archive in the cropped acquisition directory")
	}

	no := [][]string{
		{filepath.Join("dir1", "dir2"), "dir_a", "dir_b"},
		{filepath.Join("dir1", "dir2", "stuff_rawData.tar"), "dir_a", "dir_b"},
		{
			filepath.Join("dir1", "dir2", "stuff_rawData"),
			"dir_a", "dir_b",
			filepath.Join("dir1", "dir2", "rawData"),
		},
	}
	for i, paths := range no {
		if ContainsCompressedArchive(paths, "") {
			t.Errorf("Case %d: expected no archive in %v", i, paths)
		}
	}

	// An archive in a different directory does not cover samples taken
	// from s_dir.
	elsewhere := []string{
		filepath.Join("s_dir", "sample1"),
		filepath.Join("s_dir", "sample2"),
		filepath.Join("OTHER_DIR", "rawData.tar.bz"),
	}
	if ContainsCompressedArchive(elsewhere, "s_dir") {
		t.Error("Archive outside s_dir should not count")
	}
}

func TestUserSpecifiedTwoIndividualDirs(t *testing.T) {
	f := testutil.NewFixture(t)

	sources := []string{
		filepath.Join(f.CroppedAcq1, "dir1"),
		filepath.Join(f.CroppedAcq1, "dir1"),
	}
	if !SpecifiedCroppedDirsIndividually(sources, f.Root) {
		t.Error("Expected two sample dirs from the same acquisition to count as individual")
	}
}

func TestUserSpecifiesValidDirectories(t *testing.T) {
	f := testutil.NewFixture(t)

	// A whole sample directory is not an individually specified piece.
	if SpecifiedCroppedDirsIndividually([]string{f.ValidSample1}, f.Root) {
		t.Error("Single valid sample directory should not count as individual")
	}

	// Nor are two complete sample directories.
	sources := []string{f.ValidSample1, f.ValidSample2}
	if SpecifiedCroppedDirsIndividually(sources, f.Root) {
		t.Error("Two valid sample directories should not count as individual")
	}
}

func TestUserMixesIndividualAndSingleValid(t *testing.T) {
	f := testutil.NewFixture(t)

	individual := []string{
		filepath.Join(f.CroppedAcq1, "dir1"),
		filepath.Join(f.CroppedAcq1, "dir1"),
	}

	// Valid sample directory at the end of the list.
	withTail := append(append([]string{}, individual...), f.ValidSample1)
	if !SpecifiedCroppedDirsIndividually(withTail, f.Root) {
		t.Error("Individual dirs plus a valid sample should still count as individual")
	}

	// Valid sample directory at the start of the list.
	withHead := append([]string{f.ValidSample1}, individual...)
	if !SpecifiedCroppedDirsIndividually(withHead, f.Root) {
		t.Error("Valid sample before individual dirs should still count as individual")
	}
}

func TestUserSpecifiesOneDirectoryFromCroppedAcq(t *testing.T) {
	f := testutil.NewFixture(t)

	sources := []string{filepath.Join(f.CroppedAcq1, "dir1")}
	if !SpecifiedCroppedDirsIndividually(sources, f.Root) {
		t.Error("A single sample from a cropped acquisition should count as individual")
	}
}

func TestCwdIsDataFolder(t *testing.T) {
	f := testutil.NewFixture(t)

	// Running from inside an acquisition with multiple sources means the
	// pieces are individual by definition.
	sources := []string{f.ValidSample2, f.CroppedNoCompressed}
	if !SpecifiedCroppedDirsIndividually(sources, f.ValidSample1) {
		t.Error("Multiple sources from within a data folder should count as individual")
	}
}

func TestIdentifyMissedRawDataArchive(t *testing.T) {
	f := testutil.NewFixture(t)

	sources := []string{
		filepath.Join(f.CroppedAcq1, "dir1"),
		filepath.Join(f.CroppedAcq1, "dir2"),
	}
	if !WarnIfCompressedDataNotSent(sources, f.Root) {
		t.Error("Expected warning: archive in the enclosing acquisition is not in the list")
	}
}

func TestIdentifyAcceptableIndividuallySpecifiedDirs(t *testing.T) {
	f := testutil.NewFixture(t)

	// No warning when the archive is supplied too.
	withArchive := []string{
		filepath.Join(f.CroppedAcq1, "dir1"),
		filepath.Join(f.CroppedAcq1, "dir2"),
		filepath.Join(f.CroppedAcq1, "compressed_rawData.tar.bz"),
	}
	if WarnIfCompressedDataNotSent(withArchive, f.Root) {
		t.Error("Expected no warning when archive is in the list")
	}

	// No warning when the enclosing acquisition has no compressed data.
	noCompressed := []string{
		filepath.Join(f.CroppedNoCompressed, "dir1"),
		filepath.Join(f.CroppedNoCompressed, "dir2"),
	}
	if WarnIfCompressedDataNotSent(noCompressed, f.Root) {
		t.Error("Expected no warning when there is no archive to miss")
	}
}

func TestCompressedDataWarningWithNormalCallStructure(t *testing.T) {
	f := testutil.NewFixture(t)

	if WarnIfCompressedDataNotSent([]string{f.ValidSample1}, f.Root) {
		t.Error("Whole sample directory should not warn")
	}
	if WarnIfCompressedDataNotSent([]string{f.CroppedAcq1}, f.Root) {
		t.Error("Whole cropped acquisition directory should not warn")
	}

	// Two enclosing acquisition directories should also pass.
	both := []string{f.CroppedAcq1, f.CroppedAcq2}
	if WarnIfCompressedDataNotSent(both, f.Root) {
		t.Error("Two whole acquisitions should not warn")
	}
}

func TestIdentifyPeculiarIndividuallySpecifiedCases(t *testing.T) {
	f := testutil.NewFixture(t)

	// Individually specified dirs followed by a valid sample dir.
	tail := []string{
		filepath.Join(f.CroppedAcq1, "dir1"),
		filepath.Join(f.CroppedAcq1, "dir2"),
		f.ValidSample1,
	}
	// And the other order.
	head := []string{
		f.ValidSample1,
		filepath.Join(f.CroppedAcq1, "dir1"),
		filepath.Join(f.CroppedAcq1, "dir2"),
	}
	if !WarnIfCompressedDataNotSent(tail, f.Root) {
		t.Error("Mixed list ending in a valid sample should warn")
	}
	if !WarnIfCompressedDataNotSent(head, f.Root) {
		t.Error("Mixed list starting with a valid sample should warn")
	}
}

func TestDestinationConflicts(t *testing.T) {
	f := testutil.NewFixture(t)
	dest := t.TempDir()

	// Nothing at the destination yet.
	if got := DestinationConflicts([]string{f.ValidSample1}, dest); len(got) != 0 {
		t.Errorf("Expected no conflicts, got %v", got)
	}

	// Same-named directory at the destination.
	testutil.MkdirAll(t, filepath.Join(dest, filepath.Base(f.ValidSample1)))
	got := DestinationConflicts([]string{f.ValidSample1}, dest)
	if len(got) != 1 || got[0] != filepath.Base(f.ValidSample1) {
		t.Errorf("Expected conflict on sample name, got %v", got)
	}

	// Trailing slash: contents are checked instead, with rawData and
	// cropping leftovers skipped.
	testutil.MkdirAll(t, filepath.Join(dest, "dir1"))
	testutil.MkdirAll(t, filepath.Join(dest, "rawData"))
	got = DestinationConflicts([]string{f.CroppedAcq1 + "/"}, dest)
	if len(got) != 1 || got[0] != "dir1" {
		t.Errorf("Expected conflict on dir1 only, got %v", got)
	}
}

func TestNewPlanFlags(t *testing.T) {
	tests := []struct {
		name     string
		flags    string
		simulate bool
		want     string
	}{
		{name: "default", flags: "", want: "-av"},
		{name: "bare letters", flags: "rv", want: "-rv"},
		{name: "already dashed", flags: "-av", want: "-av"},
		{name: "simulate", flags: "av", simulate: true, want: "-avn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlan([]string{"src"}, "dest", tt.flags, tt.simulate)
			if p.Flags != tt.want {
				t.Errorf("Flags = %q, want %q", p.Flags, tt.want)
			}
		})
	}
}

func TestPlanCommand(t *testing.T) {
	p := NewPlan([]string{"sampleA", "sampleB"}, "/mnt/server/data", "av", false)

	if p.JobID == "" {
		t.Error("Expected a job ID")
	}

	cmd := p.Command()
	want := "rsync -av --progress --exclude rawData --exclude *_DELETE_ME_* sampleA sampleB /mnt/server/data"
	if cmd != want {
		t.Errorf("Command = %q, want %q", cmd, want)
	}
}
