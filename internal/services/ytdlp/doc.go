// Package ytdlp plans and runs yt-dlp invocations.
//
// The planner maps validated download requests to argument lists and output
// targets; the client executes them, streaming stdout through the progress
// parser and verifying the expected artifact after exit. The yt-dlp output
// format dependency is confined to parser.go.
package ytdlp
