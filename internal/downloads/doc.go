// Package downloads orchestrates the full lifecycle of a download job:
// request validation, job id allocation, yt-dlp invocation planning,
// admission control, execution, and progress plus history bookkeeping.
//
// Start calls are synchronous: they return only after the job has reached a
// terminal state, so the caller's response doubles as the completion signal.
package downloads
