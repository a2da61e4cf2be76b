// Package logging builds the slog loggers used across the daemon and CLI
// and provides the attribute helpers that keep field names consistent.
package logging
