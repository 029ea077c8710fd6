package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/Lllllllleong/portfolioflow/internal/web"
	"github.com/spf13/cobra"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Serve every HTTP function behind one local router",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCommand.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	regConfig, err := services.LoadRegistrationConfig()
	if err != nil {
		return err
	}
	srv := web.NewServer(web.Services{
		Registration: services.NewRegistrationWithBackend(backend, *regConfig),
		Achievements: services.NewAchievementsWithBackend(backend, services.LoadAchievementsConfig()),
		Portfolio:    services.NewPortfolioWithBackend(backend, services.LoadPortfolioConfig()),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(serveAddr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
