// Package daemon hosts the long-running download service: it enforces
// single-instance execution with a file lock and exposes the HTTP API plus
// the static artifact file server.
package daemon
