// Command mytube is the CLI client for the mytubed daemon.
package main
