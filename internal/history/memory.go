package history

import (
	"context"
	"sync"
)

// memoryLimit caps the in-memory backend; oldest entries are dropped first.
const memoryLimit = 200

// Memory is the fallback backend when no database is configured. Safe for
// concurrent use.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	entries []Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// Add appends an entry, evicting the oldest once over the cap.
func (m *Memory) Add(_ context.Context, e Entry) (Entry, error) {
	if !e.valid() {
		return Entry{}, ErrIncompleteEntry
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, e)
	if len(m.entries) > memoryLimit {
		m.entries = m.entries[len(m.entries)-memoryLimit:]
	}
	return e, nil
}

// List returns entries newest-first.
func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
