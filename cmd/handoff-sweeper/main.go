package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/portfolioflow/internal/services"
)

var (
	backend *services.Backend
	once    sync.Once
	initErr error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Invoked on a schedule to drop handoff objects nobody claimed.
	functions.HTTP("HandleSweepHandoff", handleSweepHandoff)
}

// main is required by the Go Functions Framework.
func main() {}

func handleSweepHandoff(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		backend, initErr = services.NewBackendFromEnv(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	removed, err := backend.Sweep(r.Context())
	if err != nil {
		slog.Error("Handoff sweep failed", "error", err, "removed", removed)
		http.Error(w, "Internal Server Error: sweep failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"removed": removed}); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
