// internal/store/memory.go
//
// In-memory implementation of the level-session Store interface.
// This is a lightweight persistence layer used for ephemeral level attempts,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores *game.Level objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Errors are returned for missing attempt IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordrise/internal/game"
)

// Store defines the persistence interface for level attempts.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates an attempt's state.
	Save(ctx context.Context, l *game.Level) error

	// Get retrieves an attempt by ID.
	// Returns an error if the attempt is not found.
	Get(ctx context.Context, id string) (*game.Level, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex           // guards levels map
	levels map[string]*game.Level // keyed by Level.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{levels: make(map[string]*game.Level)}
}

// Save adds or updates the attempt in the map.
func (m *memory) Save(ctx context.Context, l *game.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[l.ID] = l
	return nil
}

// Get looks up an attempt by ID.
// Returns a pointer to the stored *game.Level or an error if missing.
func (m *memory) Get(ctx context.Context, id string) (*game.Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.levels[id]; ok {
		return l, nil
	}
	return nil, errors.New("not found")
}
