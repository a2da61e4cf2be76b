package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/fileutil"
)

func TestFileExistsNonEmpty(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.mp4")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty file: %v", err)
	}
	if fileutil.FileExistsNonEmpty(empty) {
		t.Fatal("empty file should not count as an artifact")
	}

	full := filepath.Join(dir, "full.mp4")
	if err := os.WriteFile(full, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if !fileutil.FileExistsNonEmpty(full) {
		t.Fatal("non-empty file should count as an artifact")
	}

	if fileutil.FileExistsNonEmpty(filepath.Join(dir, "missing.mp4")) {
		t.Fatal("missing file should not count as an artifact")
	}
	if fileutil.FileExistsNonEmpty(dir) {
		t.Fatal("directory should not count as a file artifact")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "partial.mp4.part")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := fileutil.RemoveIfExists(target); err != nil {
		t.Fatalf("RemoveIfExists failed: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("file should be gone")
	}
	if err := fileutil.RemoveIfExists(target); err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
}

func TestDirHasEntries(t *testing.T) {
	dir := t.TempDir()
	if fileutil.DirHasEntries(dir) {
		t.Fatal("fresh directory should be empty")
	}
	if err := os.WriteFile(filepath.Join(dir, "1-abc.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if !fileutil.DirHasEntries(dir) {
		t.Fatal("directory with a file should report entries")
	}
	if fileutil.DirHasEntries(filepath.Join(dir, "missing")) {
		t.Fatal("missing directory should report no entries")
	}
}
