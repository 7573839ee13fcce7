package memory

import (
	"context"
	"sync"

	"github.com/sputier/docbrowse/state"
)

// MemoryStore is a map-backed state store. Nothing survives the
// process; it exists for tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (ms *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.closed {
		return nil, false, state.ErrClosed
	}

	value, ok := ms.values[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (ms *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.closed {
		return state.ErrClosed
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	ms.values[key] = stored
	return nil
}

func (ms *MemoryStore) Close(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.closed = true
	ms.values = nil
	return nil
}
