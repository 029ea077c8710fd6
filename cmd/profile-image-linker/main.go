package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	linkerInstance *services.ProfileImageFunction
	once           sync.Once
	initErr        error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Triggered by google.cloud.storage.object.v1.finalized on the profile images bucket.
	functions.CloudEvent("LinkProfileImage", linkProfileImage)
}

// main is required by the Go Functions Framework.
func main() {}

func linkProfileImage(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		linkerInstance, initErr = services.NewProfileImage(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent services.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "eventId", e.ID(), "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return linkerInstance.Process(ctx, gcsEvent)
}
