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
	portfolioInstance *services.PortfolioFunction
	once              sync.Once
	initErr           error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	functions.HTTP("HandleClaimPortfolio", handleClaimPortfolio)
}

// main is required by the Go Functions Framework.
func main() {}

func handleClaimPortfolio(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		portfolioInstance, initErr = services.NewPortfolio(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	web.ClaimPortfolio(portfolioInstance).ServeHTTP(w, r)
}
