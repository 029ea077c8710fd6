package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/gcp"
	"github.com/Lllllllleong/portfolioflow/internal/models"
)

// GCSEvent is the payload of a Cloud Storage object finalize event.
type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// ProfileImageConfig holds configuration for the profile image linker.
type ProfileImageConfig struct {
	UsersCollection string
}

// ProfileImageFunction links uploaded profile images to user documents.
type ProfileImageFunction struct {
	docs   docstore.Store
	config ProfileImageConfig
	now    func() time.Time
}

// NewProfileImage creates a ProfileImageFunction from the environment.
func NewProfileImage(ctx context.Context) (*ProfileImageFunction, error) {
	backend, err := NewBackendFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	config := ProfileImageConfig{
		UsersCollection: gcp.GetEnv("USERS_COLLECTION", models.DefaultUsersCollection),
	}
	return NewProfileImageWithBackend(backend, config), nil
}

// NewProfileImageWithBackend wires the service to an existing backend.
func NewProfileImageWithBackend(b *Backend, config ProfileImageConfig) *ProfileImageFunction {
	if config.UsersCollection == "" {
		config.UsersCollection = models.DefaultUsersCollection
	}
	return &ProfileImageFunction{docs: b.Docs, config: config, now: time.Now}
}

// Process handles one finalized object named <ownerId>/<file>. Objects that
// are not images or not under an owner folder are skipped without error so
// the event is not redelivered.
func (f *ProfileImageFunction) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("bucket", e.Bucket, "object", e.Name)

	ownerID, file, ok := strings.Cut(e.Name, "/")
	if !ok || ownerID == "" || file == "" || strings.HasSuffix(file, "/") {
		logCtx.Info("Skipping object outside an owner folder.")
		return nil
	}
	if !strings.HasPrefix(e.ContentType, "image/") {
		logCtx.Info("Skipping non-image object.", "contentType", e.ContentType)
		return nil
	}

	uri := fmt.Sprintf("gs://%s/%s", e.Bucket, e.Name)
	fields := map[string]interface{}{
		"profileImage": uri,
		"updatedAt":    f.now().UTC(),
	}
	if err := f.docs.Merge(ctx, f.config.UsersCollection, ownerID, fields); err != nil {
		logCtx.Error("Failed to link profile image", "ownerId", ownerID, "error", err)
		return fmt.Errorf("failed to link profile image for %s: %w", ownerID, err)
	}
	logCtx.Info("Profile image linked.", "ownerId", ownerID, "uri", uri)
	return nil
}
