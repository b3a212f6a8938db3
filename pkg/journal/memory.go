package journal

import (
	"context"
	"sync"

	"github.com/vnykmshr/taskpool/pkg/common/validation"
)

const module = "journal"

// MemoryJournal keeps the most recent entries in a fixed-size ring.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewMemory creates a journal retaining up to capacity entries.
func NewMemory(capacity int) (*MemoryJournal, error) {
	if err := validation.ValidatePositive(module, "capacity", capacity); err != nil {
		return nil, err
	}
	return &MemoryJournal{entries: make([]Entry, capacity)}, nil
}

// Record appends e, overwriting the oldest entry when the ring is full.
func (m *MemoryJournal) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = e
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all of them.
func (m *MemoryJournal) Recent(_ context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.next
	if m.full {
		size = len(m.entries)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (m.next - i + len(m.entries)) % len(m.entries)
		out = append(out, m.entries[idx])
	}
	return out, nil
}

// Len returns the number of retained entries.
func (m *MemoryJournal) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.full {
		return len(m.entries)
	}
	return m.next
}
