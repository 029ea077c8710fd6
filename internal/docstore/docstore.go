// Package docstore defines the document-store contract used by the wizard and
// the achievements editor, plus an in-memory implementation.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Store is a keyed document store with per-top-level-field merge writes.
//
// Merge replaces every field present in fields and leaves all other fields of
// an existing document untouched. It creates the document if absent.
type Store interface {
	Merge(ctx context.Context, collection, key string, fields map[string]interface{}) error
	Read(ctx context.Context, collection, key string, dst interface{}) error
}
