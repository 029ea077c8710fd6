package handoff

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestChannel(ttl time.Duration) (*Channel[profile], *Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemory()
	store.now = clock.Now
	ch := NewChannel[profile](store, "", ttl)
	ch.now = clock.Now
	return ch, store, clock
}

func TestChannel_StageThenClaim(t *testing.T) {
	ctx := context.Background()
	ch, _, clock := newTestChannel(time.Minute)

	ticket, err := ch.Stage(ctx, profile{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.Key, DefaultKeyPrefix+"/"))
	assert.Equal(t, clock.t.Add(time.Minute), ticket.ExpiresAt)

	got, err := ch.Claim(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestChannel_ClaimIsReadOnce(t *testing.T) {
	ctx := context.Background()
	ch, store, _ := newTestChannel(time.Minute)

	ticket, err := ch.Stage(ctx, profile{Name: "x"})
	require.NoError(t, err)

	_, err = ch.Claim(ctx, ticket)
	require.NoError(t, err)
	_, err = ch.Claim(ctx, ticket)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestChannel_ClaimExpired(t *testing.T) {
	ctx := context.Background()
	ch, _, clock := newTestChannel(time.Minute)

	ticket, err := ch.Stage(ctx, profile{Name: "x"})
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = ch.Claim(ctx, ticket)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestChannel_ClaimForeignPrefix(t *testing.T) {
	ch, _, _ := newTestChannel(time.Minute)
	_, err := ch.Claim(context.Background(), Ticket{Key: "other/123"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChannel_DefaultTTL(t *testing.T) {
	ch := NewChannel[profile](NewMemory(), "", 0)
	assert.Equal(t, DefaultTTL, ch.ttl)
	assert.Equal(t, DefaultKeyPrefix, ch.prefix)
}

func TestChannel_ConcurrentClaimsSucceedOnce(t *testing.T) {
	ctx := context.Background()
	ch, _, _ := newTestChannel(time.Minute)
	ticket, err := ch.Stage(ctx, profile{Name: "x"})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ch.Claim(ctx, ticket); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}

func TestMemory_PutDoesNotOverwriteLiveEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, store.Put(ctx, "k", []byte("one"), exp))
	assert.ErrorIs(t, store.Put(ctx, "k", []byte("two"), exp), ErrExists)

	got, err := store.Take(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemory()
	store.now = clock.Now

	require.NoError(t, store.Put(ctx, "old", []byte("a"), clock.t.Add(time.Minute)))
	require.NoError(t, store.Put(ctx, "new", []byte("b"), clock.t.Add(time.Hour)))

	clock.t = clock.t.Add(10 * time.Minute)
	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}
