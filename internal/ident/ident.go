// Package ident allocates the opaque identifiers that name download jobs,
// their progress entries, and their on-disk artifacts.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// NewJobID returns a 128-bit random identifier suitable for use as a file
// or directory name. Uniqueness is probabilistic; there is no registry.
func NewJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
