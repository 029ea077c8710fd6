package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process Store. Values are decoded on Read through their
// JSON tags, so documents written here must use the same names for their
// json and firestore tags.
type Memory struct {
	mu   sync.Mutex
	docs map[string]map[string]map[string]interface{}
	// successful Merge calls
	writes int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]map[string]interface{})}
}

// Merge applies fields over the stored document.
func (m *Memory) Merge(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if collection == "" || key == "" {
		return fmt.Errorf("collection and key must be provided")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.docs[collection]
	if !ok {
		coll = make(map[string]map[string]interface{})
		m.docs[collection] = coll
	}
	doc, ok := coll[key]
	if !ok {
		doc = make(map[string]interface{}, len(fields))
		coll[key] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	m.writes++
	return nil
}

// Read decodes the stored document into dst.
func (m *Memory) Read(ctx context.Context, collection, key string, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, ok := m.Document(collection, key)
	if !ok {
		return ErrNotFound
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode stored document: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode stored document: %w", err)
	}
	return nil
}

// Document returns a shallow copy of the raw stored fields.
func (m *Memory) Document(collection, key string) (map[string]interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[collection][key]
	if !ok {
		return nil, false
	}
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, true
}

// Writes reports how many merge writes succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
