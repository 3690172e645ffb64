package guideline

import (
	"sync"
	"time"

	"github.com/prevalet-health/platform/pkg/common/models"
)

// Snapshot is one immutable, versioned view of the loaded rule set. Reloads
// build a fresh snapshot and swap it in; a snapshot handed to a caller is
// never mutated afterwards, so evaluations in flight keep the rules they
// started with.
type Snapshot struct {
	Version  string                 `json:"version"`
	Rules    []models.GuidelineRule `json:"rules"`
	LoadedAt time.Time              `json:"loaded_at"`
}

// Store caches the rule set in memory. Read-mostly: Get serves the cached
// snapshot under a read lock, Invalidate drops it so the next Get reloads.
type Store struct {
	path string

	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the current snapshot, loading it on first use or after an
// invalidation.
func (s *Store) Get() (Snapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot != nil {
		return *snapshot, nil
	}
	return s.Reload()
}

// Reload loads the rule source and atomically swaps in the new snapshot.
func (s *Store) Reload() (Snapshot, error) {
	rs, err := LoadRules(s.path)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := &Snapshot{
		Version:  rs.Version,
		Rules:    rs.Rules,
		LoadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	return *snapshot, nil
}

// Invalidate drops the cached snapshot. The next Get reloads from source.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}
