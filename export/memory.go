package export

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemorySink is an in-memory Sink for testing.
// Thread-safe for concurrent reads and writes.
type MemorySink struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		blobs: make(map[string][]byte),
	}
}

// Name implements Sink.
func (m *MemorySink) Name() string { return "memory" }

// Put implements Sink.
func (m *MemorySink) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external mutation
	m.blobs[name] = slices.Clone(data)
	return nil
}

// Get returns a copy of a stored blob.
func (m *MemorySink) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

// List returns all blob names with the given prefix, sorted.
func (m *MemorySink) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Len returns the number of stored blobs.
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
