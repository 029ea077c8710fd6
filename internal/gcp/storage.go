package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ErrObjectExists is returned by WriteIfAbsent when the object is already present.
var ErrObjectExists = errors.New("object already exists")

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// WriteIfAbsent writes payload to obj only if it doesn't already exist.
// The precondition failure can surface on copy or on close; both map to
// ErrObjectExists.
func WriteIfAbsent(ctx context.Context, obj *storage.ObjectHandle, payload []byte, contentType string, metadata map[string]string) error {
	writer := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType
	writer.Metadata = metadata

	if _, err := io.Copy(writer, bytes.NewReader(payload)); err != nil {
		_ = writer.Close()
		if isPreconditionFailed(err) {
			return ErrObjectExists
		}
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		if isPreconditionFailed(err) {
			return ErrObjectExists
		}
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

func isNotFound(err error) bool {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
