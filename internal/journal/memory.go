package journal

import (
	"context"
	"sync"
)

// Memory is an in-process journal for tests and ephemeral runs.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory constructs an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements Journal.
func (m *Memory) Append(_ context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	m.mu.Lock()
	m.entries = append(m.entries, entries...)
	m.mu.Unlock()
	return nil
}

// Recent implements Journal.
func (m *Memory) Recent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Close implements Journal.
func (m *Memory) Close() error { return nil }

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
