// Package recording provides the ordered replay store shared by the capturing
// gateway and the replay handler, and the persisted file format they exchange.
package recording

import (
	"errors"
	"sync"

	"github.com/getmockd/mockgate/pkg/model"
)

// Errors for loading and saving replay files.
var (
	ErrFileNotFound = errors.New("replay file not found")
	ErrCorrupted    = errors.New("replay file corrupted")
	ErrEmptyFile    = errors.New("replay file is empty")
)

// Store is an ordered, append-only list of replays. Order is both capture
// order and match priority; entries are never reordered or deduplicated.
// Store is safe for concurrent Append.
type Store struct {
	mu      sync.Mutex
	replays []model.Replay
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFrom creates a store holding a copy of replays, in order.
func NewStoreFrom(replays []model.Replay) *Store {
	return &Store{replays: append([]model.Replay(nil), replays...)}
}

// Append adds r at the end of the store.
func (s *Store) Append(r model.Replay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replays = append(s.replays, r)
}

// Len returns the number of stored replays.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replays)
}

// Replays returns a copy of the stored replays in order.
func (s *Store) Replays() []model.Replay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Replay(nil), s.replays...)
}
