package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
// It centralizes client creation for all services.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

var _ docstore.Store = (*FirestoreStore)(nil)

// FirestoreStore implements docstore.Store on top of Firestore documents.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Merge sets the given top-level fields, leaving all other fields in place.
func (s *FirestoreStore) Merge(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(key).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, key, err)
	}
	return nil
}

// Read decodes the document into dst using its firestore tags.
func (s *FirestoreStore) Read(ctx context.Context, collection, key string, dst interface{}) error {
	snap, err := s.client.Collection(collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, key, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
