package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/preflight"
	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Download directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass: %#v", result)
	}

	missing := preflight.CheckDirectoryAccess("Download directory", filepath.Join(dir, "absent"))
	if missing.Passed {
		t.Fatalf("expected missing directory to fail: %#v", missing)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := preflight.CheckDirectoryAccess("Download directory", file)
	if notDir.Passed {
		t.Fatalf("expected plain file to fail: %#v", notDir)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckFreeSpace("Disk space", dir, 0)
	if !result.Passed {
		t.Fatalf("expected zero requirement to pass: %#v", result)
	}

	// No filesystem has an exbibyte free.
	huge := preflight.CheckFreeSpace("Disk space", dir, 1<<30)
	if huge.Passed {
		t.Fatalf("expected absurd requirement to fail: %#v", huge)
	}
}

func TestRunAllReportsMissingDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// NewConfig points at directories that do not exist yet.
	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if preflight.AllPassed(results) {
		t.Fatalf("expected missing directories to fail: %#v", results)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	results = preflight.RunAll(context.Background(), cfg)
	if !preflight.AllPassed(results) {
		t.Fatalf("expected checks to pass after creating directories: %#v", results)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	statuses := preflight.CheckSystemDeps(context.Background(), cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected stubbed binary %s to resolve: %#v", status.Name, status)
		}
	}
}
