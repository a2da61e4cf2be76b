// Package queue persists the download history ledger in SQLite.
//
// Every accepted job gets a row that follows the job through
// pending -> running -> completed/failed/cancelled. The ledger is additive
// to the in-memory progress store: live polling reads memory, history and
// diagnostics read here.
package queue
