// Package fileutil provides small filesystem helpers shared by the planner
// and runner.
package fileutil

import (
	"errors"
	"os"
)

// FileExistsNonEmpty reports whether path names a regular file with content.
func FileExistsNonEmpty(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// DirHasEntries reports whether path names a directory containing at least
// one entry.
func DirHasEntries(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
