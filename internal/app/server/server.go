package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrapp/internal/domain/absence"
	"hrapp/internal/domain/audit"
	"hrapp/internal/domain/auth"
	"hrapp/internal/domain/feedback"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/config"
	cryptoutil "hrapp/internal/platform/crypto"
	"hrapp/internal/platform/db"
	"hrapp/internal/platform/email"
	"hrapp/internal/platform/jobs"
	"hrapp/internal/platform/metrics"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/platform/seed"
	"hrapp/internal/transport/http/api"
	absencehandler "hrapp/internal/transport/http/handlers/absence"
	audithandler "hrapp/internal/transport/http/handlers/audit"
	authhandler "hrapp/internal/transport/http/handlers/auth"
	feedbackhandler "hrapp/internal/transport/http/handlers/feedback"
	profilehandler "hrapp/internal/transport/http/handlers/profile"
	"hrapp/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Jobs   *jobs.Service
	Router http.Handler
	stop   context.CancelFunc
}

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config      config.Config
	Auth        *auth.Service
	Profiles    *profile.Service
	Absences    *absence.Service
	Feedback    *feedback.Service
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
	Metrics     *metrics.Collector
	DB          Pinger
}

// New connects to the database, prepares its schema and wires every service.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	fieldCipher, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	authStore := auth.NewStore(pool)
	profileStore := profile.NewStore(pool, fieldCipher)
	if cfg.RunSeed {
		if err := seed.Seed(ctx, authStore, profileStore, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	profileService := profile.NewService(profileStore)
	deps := Deps{
		Config:      cfg,
		Auth:        auth.NewService(authStore, cfg.JWTSecret),
		Profiles:    profileService,
		Absences:    absence.NewService(absence.NewStore(pool), email.New(cfg)),
		Feedback:    feedback.NewService(feedback.NewStore(pool), profileService),
		Audit:       audit.New(pool),
		Idempotency: middleware.NewIdempotencyStore(pool),
		Metrics:     metrics.New(),
		DB:          pool,
	}

	jobCtx, stop := context.WithCancel(context.Background())
	jobService := jobs.New(pool, authStore, cfg.SessionPurgeInterval)
	jobService.PurgeOnStartup(ctx)
	jobService.Start(jobCtx)

	return &App{
		Config: cfg,
		DB:     pool,
		Jobs:   jobService,
		Router: NewRouter(deps),
		stop:   stop,
	}, nil
}

func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

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
	router.Use(middleware.Auth(deps.Auth))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if deps.DB == nil || deps.DB.Ping(ctx) != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, deps.Metrics.Snapshot(), requestctx.RequestID(r.Context()))
		})
	}

	router.Route("/api", func(r chi.Router) {
		authhandler.NewHandler(deps.Auth).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			profiles := profilehandler.NewHandler(deps.Profiles)
			profiles.Audit = deps.Audit
			profiles.RegisterRoutes(r)

			feedbacks := feedbackhandler.NewHandler(deps.Feedback)
			feedbacks.Audit = deps.Audit
			feedbacks.RegisterRoutes(r)

			absences := absencehandler.NewHandler(deps.Absences, deps.Idempotency)
			absences.Audit = deps.Audit
			absences.RegisterRoutes(r)

			if deps.Audit != nil {
				audithandler.NewHandler(deps.Audit).RegisterRoutes(r)
			}
		})
	})

	return router
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "err", err)
		}
	}()

	slog.Info("HR API listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
