// Package store keeps the ordered exercise configurations of a session.
package store

import (
	"sync"
	"time"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/tick"
)

// PollInterval is how often AwaitAtLeast re-checks the store.
const PollInterval = 500 * time.Millisecond

// Store is an append-only list of configurations, deduplicated by exercise ID.
type Store struct {
	mu      sync.RWMutex
	configs []domain.ExerciseConfig
	ids     map[int]struct{}
}

// New constructs an empty store.
func New() *Store {
	return &Store{ids: make(map[int]struct{})}
}

// Add appends cfg unless an entry with the same ID already exists. It reports
// whether the configuration was stored; duplicates are ignored, not merged.
func (s *Store) Add(cfg domain.ExerciseConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[cfg.ID]; ok {
		return false
	}
	s.ids[cfg.ID] = struct{}{}
	s.configs = append(s.configs, cfg.Clone())
	return true
}

// Get returns the configuration at index, or false if it has not arrived yet.
func (s *Store) Get(index int) (domain.ExerciseConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.configs) {
		return domain.ExerciseConfig{}, false
	}
	return s.configs[index].Clone(), true
}

// Len returns the number of stored configurations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.configs)
}

// List returns a copy of all configurations in insertion order.
func (s *Store) List() []domain.ExerciseConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ExerciseConfig, len(s.configs))
	for i, cfg := range s.configs {
		out[i] = cfg.Clone()
	}
	return out
}

// AwaitAtLeast suspends the calling task until the store holds at least n
// configurations. Absence is never an error; the only failure is the task
// being stopped.
func (s *Store) AwaitAtLeast(y *tick.Yielder, n int) error {
	return y.Poll(PollInterval, func() bool { return s.Len() >= n })
}
