package hangar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps entries in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry), now: time.Now}
}

func (m *MemoryStore) Put(_ context.Context, e Entry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	if e.Updated.IsZero() {
		e.Updated = m.now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Name] = e
	return nil
}

func (m *MemoryStore) Get(_ context.Context, name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return e, nil
}

// List returns every entry sorted by name.
func (m *MemoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	for _, e := range m.entries {
		if e.Parent == name {
			return fmt.Errorf("%s (parent of %s): %w", name, e.Name, ErrHasChildren)
		}
	}
	delete(m.entries, name)
	return nil
}
