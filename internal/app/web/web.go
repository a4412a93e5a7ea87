package web

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrapp/internal/client/backend"
	"hrapp/internal/platform/config"
	"hrapp/internal/platform/metrics"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
	"hrapp/internal/transport/http/middleware"
	"hrapp/internal/transport/web/portal"
)

type Deps struct {
	Config  config.Config
	Backend portal.Backend
	Metrics *metrics.Collector
}

// NewRouter builds the portal: login and logout are public, every other view
// sits behind the session guard.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.MetricsEnabled && deps.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), requestctx.RequestID(r.Context()))
		})
	}

	portal.NewHandler(deps.Backend, cfg.CookieSecure).RegisterRoutes(router)
	return router
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateWeb(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := Deps{
		Config:  cfg,
		Backend: backend.New(cfg.APIBaseURL, cfg.APITimeout),
		Metrics: metrics.New(),
	}
	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("portal shutdown failed", "err", err)
		}
	}()

	slog.Info("HR portal listening", "addr", cfg.WebAddr, "api", cfg.APIBaseURL, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("portal failed: %v", err)
	}
}
