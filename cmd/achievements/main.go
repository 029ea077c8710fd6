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
	achievementsInstance *services.AchievementsFunction
	once                 sync.Once
	initErr              error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Both entry points share one service instance per function instance.
	functions.HTTP("HandleSaveAchievements", handleSaveAchievements)
	functions.HTTP("HandleLoadAchievements", handleLoadAchievements)
}

// main is required by the Go Functions Framework.
func main() {}

func instance(w http.ResponseWriter) bool {
	once.Do(func() {
		achievementsInstance, initErr = services.NewAchievements(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return false
	}
	return true
}

func handleSaveAchievements(w http.ResponseWriter, r *http.Request) {
	if instance(w) {
		web.SaveAchievements(achievementsInstance).ServeHTTP(w, r)
	}
}

func handleLoadAchievements(w http.ResponseWriter, r *http.Request) {
	if instance(w) {
		web.LoadAchievements(achievementsInstance).ServeHTTP(w, r)
	}
}
