package handoff

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*Memory)(nil)

type memoryItem struct {
	payload   []byte
	expiresAt time.Time
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemory returns an empty Memory store using the wall clock.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

// Put stages payload under key. An existing live entry is not overwritten.
func (m *Memory) Put(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.items[key]; ok && m.now().Before(it.expiresAt) {
		return ErrExists
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.items[key] = memoryItem{payload: buf, expiresAt: expiresAt}
	return nil
}

// Take removes and returns the payload for key.
func (m *Memory) Take(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.items, key)
	if !m.now().Before(it.expiresAt) {
		return nil, ErrExpired
	}
	return it.payload, nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *Memory) Sweep(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, it := range m.items {
		if !now.Before(it.expiresAt) {
			delete(m.items, k)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of staged entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
