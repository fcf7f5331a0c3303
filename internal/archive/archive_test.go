package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"btt/internal/testutil"
)

func TestPrepareUsesRecipeSampleID(t *testing.T) {
	f := testutil.NewFixture(t)

	job, err := Prepare(f.ValidSample1, true)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if job.SampleName != "sample01" {
		t.Errorf("SampleName = %q, want sample01", job.SampleName)
	}
	if job.ArchiveName != "sample01_rawData.tar.bz" {
		t.Errorf("ArchiveName = %q", job.ArchiveName)
	}
	if job.MetaSourceDir != "" {
		t.Errorf("Expected no uncropped metadata source, got %q", job.MetaSourceDir)
	}
	if job.JobID == "" {
		t.Error("Expected a job ID")
	}
}

func TestPrepareWithoutLbzip2(t *testing.T) {
	f := testutil.NewFixture(t)

	job, err := Prepare(f.ValidSample2, false)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if job.ArchiveName != "sample01_rawData.tar.gz" {
		t.Errorf("ArchiveName = %q, want gzip name", job.ArchiveName)
	}
}

func TestPrepareRequiresRawData(t *testing.T) {
	f := testutil.NewFixture(t)

	// dir1 has stitched images but no rawData.
	if _, err := Prepare(filepath.Join(f.CroppedAcq1, "dir1"), true); err == nil {
		t.Error("Expected error for directory without rawData")
	}
}

func TestPrepareUsesUncroppedRecipe(t *testing.T) {
	// rawData present, recipe only inside the uncropped directory.
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "rawData", "tile_0001.tif"), "")
	uncropped := filepath.Join(dir, "UncroppedStacks_DELETE_ME_DELETE_ME")
	testutil.WriteFile(t, filepath.Join(uncropped, "recipe_x.yml"), "sample:\n  ID: uncropped01\n")
	testutil.WriteFile(t, filepath.Join(uncropped, "scanSettings.mat"), "")

	job, err := Prepare(dir, true)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if job.SampleName != "uncropped01" {
		t.Errorf("SampleName = %q, want uncropped01", job.SampleName)
	}
	if job.MetaSourceDir != uncropped {
		t.Errorf("MetaSourceDir = %q, want %q", job.MetaSourceDir, uncropped)
	}
}

func TestPrepareFallsBackToDirectoryName(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "rawData", "tile_0001.tif"), "")

	job, err := Prepare(dir, false)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	want := filepath.Base(dir) + time.Now().Format("_20060102")
	if job.SampleName != want {
		t.Errorf("SampleName = %q, want %q", job.SampleName, want)
	}
}

func TestCommandArgs(t *testing.T) {
	f := testutil.NewFixture(t)

	job, err := Prepare(f.ValidSample2, true)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	cmd := job.Command()
	if !strings.HasPrefix(cmd, "tar -I lbzip2 -cvf sample01_rawData.tar.bz") {
		t.Errorf("Command = %q", cmd)
	}
	if !strings.Contains(cmd, "scanSettings.mat") {
		t.Errorf("Expected metadata in command, got %q", cmd)
	}
	if !strings.HasSuffix(cmd, "./rawData") {
		t.Errorf("Expected rawData last, got %q", cmd)
	}

	job.UseLbzip2 = false
	if !strings.HasPrefix(job.Command(), "tar -zcvf") {
		t.Errorf("Command = %q", job.Command())
	}
}

func TestMetadataFiles(t *testing.T) {
	f := testutil.NewFixture(t)

	files := MetadataFiles(f.ValidSample2)
	foundSettings, foundRecipe := false, false
	for _, name := range files {
		if name == "scanSettings.mat" {
			foundSettings = true
		}
		if strings.HasPrefix(name, "recipe") && strings.HasSuffix(name, ".yml") {
			foundRecipe = true
		}
	}
	if !foundSettings || !foundRecipe {
		t.Errorf("Expected scan settings and recipe in %v", files)
	}
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "rawData", "tile_0001.tif"), "tile data")
	testutil.WriteFile(t, filepath.Join(dir, "scanSettings.mat"), "settings")

	archivePath := filepath.Join(t.TempDir(), "out_rawData.tar.gz")
	if err := WriteArchive(archivePath, dir); err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}

	// Read back and verify the expected entries are present.
	f, err := os.Open(archivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("Failed to open gzip stream: %v", err)
	}
	tr := tar.NewReader(gz)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read archive: %v", err)
		}
		data, _ := io.ReadAll(tr)
		entries[hdr.Name] = string(data)
	}

	if entries["scanSettings.mat"] != "settings" {
		t.Errorf("Missing or wrong scanSettings.mat entry: %v", entries)
	}
	if entries["rawData/tile_0001.tif"] != "tile data" {
		t.Errorf("Missing or wrong rawData entry: %v", entries)
	}
}

func TestCopyMetadataInAndCleanup(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "rawData", "tile_0001.tif"), "")
	uncropped := filepath.Join(dir, "UncroppedStacks_DELETE_ME_DELETE_ME")
	testutil.WriteFile(t, filepath.Join(uncropped, "recipe_x.yml"), "sample:\n  ID: s\n")
	testutil.WriteFile(t, filepath.Join(uncropped, "scanSettings.mat"), "")

	job, err := Prepare(dir, true)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	copied, err := job.copyMetadataIn()
	if err != nil {
		t.Fatalf("copyMetadataIn failed: %v", err)
	}
	if len(copied) != 2 {
		t.Fatalf("Expected recipe and scan settings copied, got %v", copied)
	}
	for _, p := range copied {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Copied file missing: %v", err)
		}
	}

	removeAll(copied)
	for _, p := range copied {
		if _, err := os.Stat(p); err == nil {
			t.Errorf("Expected %s to be removed", p)
		}
	}
}
