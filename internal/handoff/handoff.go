// Package handoff passes a typed value from one independently routed flow to
// the next. The producer stages a value and receives a Ticket; the consumer
// presents the Ticket exactly once to claim it. Tickets expire.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultKeyPrefix namespaces the registration-to-portfolio handoff.
const DefaultKeyPrefix = "portfolioUserData"

// DefaultTTL applies when a Channel is built without a positive TTL.
const DefaultTTL = 30 * time.Minute

var (
	// ErrNotFound means the key was never staged or was already claimed.
	ErrNotFound = errors.New("handoff not found")
	// ErrExpired means the value was staged but its ticket has lapsed.
	ErrExpired = errors.New("handoff expired")
	// ErrExists means a value is already staged under the key.
	ErrExists = errors.New("handoff already staged")
)

// Store holds opaque payloads until they are taken or expire.
//
// Take must be read-once: a successful Take removes the payload, and a
// concurrent second Take for the same key reports ErrNotFound.
type Store interface {
	Put(ctx context.Context, key string, payload []byte, expiresAt time.Time) error
	Take(ctx context.Context, key string) ([]byte, error)
}

// Ticket is the caller-owned receipt for a staged value.
type Ticket struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Channel stages and claims values of a single type.
type Channel[T any] struct {
	store  Store
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewChannel builds a Channel over store. Keys are minted as prefix/<uuid>.
func NewChannel[T any](store Store, prefix string, ttl time.Duration) *Channel[T] {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel[T]{store: store, prefix: prefix, ttl: ttl, now: time.Now}
}

// Stage serialises v and stores it under a fresh key.
func (c *Channel[T]) Stage(ctx context.Context, v T) (Ticket, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Ticket{}, fmt.Errorf("failed to encode handoff payload: %w", err)
	}
	t := Ticket{
		Key:       c.prefix + "/" + uuid.NewString(),
		ExpiresAt: c.now().Add(c.ttl).UTC(),
	}
	if err := c.store.Put(ctx, t.Key, payload, t.ExpiresAt); err != nil {
		return Ticket{}, fmt.Errorf("failed to stage %s: %w", t.Key, err)
	}
	return t, nil
}

// Claim returns the value staged for t and consumes it.
func (c *Channel[T]) Claim(ctx context.Context, t Ticket) (T, error) {
	var zero T
	if !strings.HasPrefix(t.Key, c.prefix+"/") {
		return zero, ErrNotFound
	}
	payload, err := c.store.Take(ctx, t.Key)
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return zero, fmt.Errorf("failed to decode handoff payload: %w", err)
	}
	return v, nil
}
