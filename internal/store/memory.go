package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Memory keeps drafts in process. Drafts are stored as JSON so callers never
// share maps with the store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	opts    options
}

type memoryEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// NewMemory creates an in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		opts:    newOptions(opts),
	}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, draft *Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if draft == nil || draft.ID == "" {
		return fmt.Errorf("store: draft id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(draft)
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, draft *Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if draft == nil || draft.ID == "" {
		return fmt.Errorf("store: draft id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.live(draft.ID)
	if !ok {
		return ErrNotFound
	}
	if current.version != draft.Version {
		return ErrConflict
	}
	return m.write(draft)
}

// live returns the unexpired entry for id. Callers hold mu.
func (m *Memory) live(id string) (memoryEntry, bool) {
	entry, ok := m.entries[id]
	if !ok || (!entry.expiresAt.IsZero() && !m.opts.now().Before(entry.expiresAt)) {
		return memoryEntry{}, false
	}
	return entry, true
}

// write stores draft under the next version. Callers hold mu.
func (m *Memory) write(draft *Draft) error {
	now := m.opts.now()
	next := *draft
	next.UpdatedAt = now.UTC()
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("store: marshal draft: %w", err)
	}

	entry := memoryEntry{data: data, version: next.Version}
	if m.opts.ttl > 0 {
		entry.expiresAt = now.Add(m.opts.ttl)
	}
	m.entries[draft.ID] = entry
	draft.UpdatedAt, draft.Version = next.UpdatedAt, next.Version
	return nil
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context, id string) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !m.opts.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	var draft Draft
	if err := json.Unmarshal(entry.data, &draft); err != nil {
		return nil, fmt.Errorf("store: unmarshal draft: %w", err)
	}
	return &draft, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored drafts, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
