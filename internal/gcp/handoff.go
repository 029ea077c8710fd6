package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

const (
	handoffPrefix    = "handoff/"
	expiresAtMetaKey = "expires-at"
)

var _ handoff.Store = (*HandoffBucket)(nil)

// HandoffBucket stores handoff payloads as GCS objects. Each key maps to
// handoff/<key>.json with its expiry in object metadata. A claim deletes the
// exact generation it read, so only one claimer can win.
type HandoffBucket struct {
	bucket *storage.BucketHandle
	name   string
	now    func() time.Time
}

// NewHandoffBucket returns a handoff store over bucketName.
func NewHandoffBucket(client *storage.Client, bucketName string) *HandoffBucket {
	return &HandoffBucket{bucket: client.Bucket(bucketName), name: bucketName, now: time.Now}
}

func objectName(key string) string {
	return path.Join(handoffPrefix, key) + ".json"
}

// Put writes payload under key unless something is already staged there.
func (b *HandoffBucket) Put(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	meta := map[string]string{expiresAtMetaKey: expiresAt.UTC().Format(time.RFC3339Nano)}
	err := WriteIfAbsent(ctx, b.bucket.Object(objectName(key)), payload, "application/json", meta)
	if errors.Is(err, ErrObjectExists) {
		return handoff.ErrExists
	}
	return err
}

// Take reads and deletes the payload under key.
func (b *HandoffBucket) Take(ctx context.Context, key string) ([]byte, error) {
	name := objectName(key)
	obj := b.bucket.Object(name)

	attrs, err := obj.Attrs(ctx)
	if isNotFound(err) {
		return nil, handoff.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat gs://%s/%s: %w", b.name, name, err)
	}

	reader, err := obj.Generation(attrs.Generation).NewReader(ctx)
	if isNotFound(err) {
		return nil, handoff.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", b.name, name, err)
	}
	payload, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", b.name, name, err)
	}

	err = obj.If(storage.Conditions{GenerationMatch: attrs.Generation}).Delete(ctx)
	if isNotFound(err) || isPreconditionFailed(err) {
		// another claimer deleted it first
		return nil, handoff.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume gs://%s/%s: %w", b.name, name, err)
	}

	if expired(attrs.Metadata, b.now()) {
		return nil, handoff.ErrExpired
	}
	return payload, nil
}

// Sweep deletes every expired handoff object and reports how many were removed.
func (b *HandoffBucket) Sweep(ctx context.Context) (int, error) {
	logCtx := slog.With("bucket", b.name)
	now := b.now()

	type victim struct {
		name       string
		generation int64
	}
	var victims []victim

	it := b.bucket.Objects(ctx, &storage.Query{Prefix: handoffPrefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to list handoff objects: %w", err)
		}
		if expired(attrs.Metadata, now) {
			victims = append(victims, victim{name: attrs.Name, generation: attrs.Generation})
		}
	}

	var removed atomic.Int64
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(10)
	for _, v := range victims {
		v := v
		eg.Go(func() error {
			err := b.bucket.Object(v.name).If(storage.Conditions{GenerationMatch: v.generation}).Delete(gctx)
			if isNotFound(err) || isPreconditionFailed(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", v.name, err)
			}
			removed.Add(1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logCtx.Error("Handoff sweep incomplete", "error", err, "removed", removed.Load())
		return int(removed.Load()), fmt.Errorf("failed to sweep handoff objects: %w", err)
	}
	logCtx.Info("Handoff sweep complete.", "scanned", len(victims), "removed", removed.Load())
	return int(removed.Load()), nil
}

// expired treats missing or malformed metadata as expired so such objects
// are swept rather than kept forever.
func expired(meta map[string]string, now time.Time) bool {
	exp, err := time.Parse(time.RFC3339Nano, meta[expiresAtMetaKey])
	if err != nil {
		return true
	}
	return !now.Before(exp)
}
