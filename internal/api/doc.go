// Package api defines the transport types shared by the daemon's HTTP
// server and the CLI client, plus converters from internal models.
package api
