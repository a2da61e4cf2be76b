package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks requests rejected before any work starts.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks failures of the extraction process itself:
	// launch failures, nonzero exits, and missing output artifacts.
	ErrExternalTool = errors.New("external tool error")
	// ErrNotFound marks lookups for jobs that were never allocated or have
	// already been evicted.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks jobs terminated by the per-download deadline.
	ErrTimeout = errors.New("timeout")
	// ErrCancelled marks jobs terminated by an explicit cancel request.
	ErrCancelled = errors.New("cancelled")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
