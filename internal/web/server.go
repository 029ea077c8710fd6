package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/logging"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services are the handlers' dependencies.
type Services struct {
	Registration *services.RegistrationFunction
	Achievements *services.AchievementsFunction
	Portfolio    *services.PortfolioFunction
}

// Server is the local HTTP server mounting every function under /api.
type Server struct {
	services Services
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server with middleware and routes in place.
func NewServer(svc Services) *Server {
	s := &Server{services: svc, router: chi.NewRouter()}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/registration", Registration(s.services.Registration))

		r.Post("/achievements", SaveAchievements(s.services.Achievements))
		r.Get("/achievements", LoadAchievements(s.services.Achievements))
		r.Get("/achievements/{userId}", LoadAchievements(s.services.Achievements))

		r.Post("/portfolio/claim", ClaimPortfolio(s.services.Portfolio))
	})
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	slog.Info("Starting server.", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
