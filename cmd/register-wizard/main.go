package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/Lllllllleong/portfolioflow/internal/web"
)

var (
	registrationInstance *services.RegistrationFunction
	once                 sync.Once
	initErr              error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// "HandleRegistration" is the entry point name configured in GCP.
	functions.HTTP("HandleRegistration", handleRegistration)
}

// main is required by the Go Functions Framework.
func main() {}

func handleRegistration(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		registrationInstance, initErr = services.NewRegistration(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	web.Registration(registrationInstance).ServeHTTP(w, r)
}
