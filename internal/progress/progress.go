// Package progress tracks the latest known state of every download job.
//
// The store holds exactly one snapshot per job: the runner overwrites it as
// output lines arrive, and the API reads it on demand. Entries live only in
// memory; the durable record lives in the history database.
package progress

import (
	"sync"
	"time"
)

// Status represents the lifecycle of a download job.
type Status string

const (
	StatusStarting    Status = "starting"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
	StatusCancelled   Status = "cancelled"
)

// Terminal reports whether a job in this status can still change state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusError, StatusCancelled:
		return true
	}
	return false
}

// Snapshot is the latest known state for a job. Percent is meaningful while
// downloading and after completion; Speed and ETA are raw substrings from
// the extraction process and are only set while downloading.
type Snapshot struct {
	Status    Status    `json:"status"`
	Percent   float64   `json:"percent"`
	Speed     string    `json:"speed,omitempty"`
	ETA       string    `json:"eta,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store maps job ids to their latest snapshot. Each job is written only by
// its own runner goroutine; the lock serializes independent-key access to
// the shared map.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Snapshot
}

// NewStore returns an empty progress store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Snapshot)}
}

// MarkStarting records a freshly launched job at zero percent.
func (s *Store) MarkStarting(id string) {
	s.put(id, Snapshot{Status: StatusStarting})
}

// MarkDownloading overwrites the snapshot with the latest parsed progress
// line. Last write wins; no smoothing.
func (s *Store) MarkDownloading(id string, percent float64, speed, eta string) {
	s.put(id, Snapshot{Status: StatusDownloading, Percent: percent, Speed: speed, ETA: eta})
}

// MarkCompleted transitions the job to its successful terminal state with
// percent forced to 100.
func (s *Store) MarkCompleted(id string) {
	s.put(id, Snapshot{Status: StatusCompleted, Percent: 100})
}

// MarkError transitions the job to its failed terminal state.
func (s *Store) MarkError(id, message string) {
	s.put(id, Snapshot{Status: StatusError, Error: message})
}

// MarkCancelled transitions the job to the cancelled terminal state.
func (s *Store) MarkCancelled(id string) {
	s.put(id, Snapshot{Status: StatusCancelled})
}

func (s *Store) put(id string, snap Snapshot) {
	snap.UpdatedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[id]; ok && current.Status.Terminal() {
		return
	}
	s.entries[id] = snap
}

// Get returns the latest snapshot for id.
func (s *Store) Get(id string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.entries[id]
	return snap, ok
}

// Len returns the number of tracked jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Prune evicts terminal entries whose last update is older than retention
// and returns how many were removed. Live entries are never evicted.
func (s *Store) Prune(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, snap := range s.entries {
		if snap.Status.Terminal() && snap.UpdatedAt.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
