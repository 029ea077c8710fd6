package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/gcp"
	"github.com/Lllllllleong/portfolioflow/internal/handoff"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
)

// BackendConfig selects where documents and handoff payloads live.
type BackendConfig struct {
	ProjectID     string
	StoreBackend  string
	HandoffBucket string
	HandoffTTL    time.Duration
}

// LoadBackendConfig reads the backend settings from the environment.
func LoadBackendConfig() (*BackendConfig, error) {
	ttl, err := time.ParseDuration(gcp.GetEnv("HANDOFF_TTL", handoff.DefaultTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("HANDOFF_TTL is not a duration: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("HANDOFF_TTL must be positive, got %s", ttl)
	}

	config := &BackendConfig{
		ProjectID:     gcp.GetEnv("PROJECT_ID", ""),
		StoreBackend:  gcp.GetEnv("STORE_BACKEND", BackendFirestore),
		HandoffBucket: gcp.GetEnv("HANDOFF_BUCKET", ""),
		HandoffTTL:    ttl,
	}
	switch config.StoreBackend {
	case BackendMemory:
	case BackendFirestore:
		if config.ProjectID == "" {
			return nil, fmt.Errorf("PROJECT_ID environment variable must be set for the firestore backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", config.StoreBackend)
	}
	return config, nil
}

// Sweeper removes expired handoff payloads.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Backend bundles the stores shared by every function in one process.
type Backend struct {
	Docs       docstore.Store
	Handoff    handoff.Store
	HandoffTTL time.Duration
	closers    []func() error
}

// NewMemoryBackend keeps everything in process.
func NewMemoryBackend() *Backend {
	return &Backend{
		Docs:       docstore.NewMemory(),
		Handoff:    handoff.NewMemory(),
		HandoffTTL: handoff.DefaultTTL,
	}
}

// NewBackend creates the clients named by config.
func NewBackend(ctx context.Context, config *BackendConfig) (*Backend, error) {
	b := &Backend{HandoffTTL: config.HandoffTTL}

	switch config.StoreBackend {
	case BackendMemory:
		b.Docs = docstore.NewMemory()
	default:
		client, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
		if err != nil {
			return nil, err
		}
		fs := gcp.NewFirestoreStore(client)
		b.Docs = fs
		b.closers = append(b.closers, fs.Close)
	}

	if config.HandoffBucket == "" {
		b.Handoff = handoff.NewMemory()
	} else {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		b.Handoff = gcp.NewHandoffBucket(storageClient, config.HandoffBucket)
		b.closers = append(b.closers, storageClient.Close)
	}

	slog.Info("Backend ready.", "store", config.StoreBackend, "handoffBucket", config.HandoffBucket, "handoffTtl", config.HandoffTTL.String())
	return b, nil
}

// NewBackendFromEnv is LoadBackendConfig followed by NewBackend.
func NewBackendFromEnv(ctx context.Context) (*Backend, error) {
	config, err := LoadBackendConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewBackend(ctx, config)
}

// Sweep removes expired handoff payloads when the handoff store supports it.
func (b *Backend) Sweep(ctx context.Context) (int, error) {
	s, ok := b.Handoff.(Sweeper)
	if !ok {
		return 0, fmt.Errorf("handoff store %T cannot sweep", b.Handoff)
	}
	return s.Sweep(ctx)
}

// Close releases every client opened by NewBackend.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
