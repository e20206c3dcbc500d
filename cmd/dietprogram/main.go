package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	adapthttp "dietprogram/internal/adapter/http"
	"dietprogram/internal/adapter/memory"
	"dietprogram/internal/adapter/postgres"
	"dietprogram/internal/app"
	"dietprogram/internal/config"
	"dietprogram/internal/domain"
	"dietprogram/internal/logging"
	"dietprogram/internal/metrics"
	"dietprogram/internal/schedule"
	"dietprogram/internal/seed"
)

// store is the full set of repository ports a storage backend provides.
type store interface {
	domain.UserRepository
	domain.FoodRepository
	domain.MealRepository
	domain.DietPlanRepository
	domain.ProgressRepository
	seed.Store
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("dietprogram stopped")
	}
}

// run wires the application and serves until interrupted. Deferred cleanup
// runs before main decides the exit status.
func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db       store
		sessions domain.SessionRepository
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = pg.Close() }()
		db, sessions = pg, postgres.NewSessionRepo(pg)
	default:
		mem := memory.New()
		db, sessions = mem, mem.NewSessionRepo()
		log.Warn("using in-memory storage; data is lost on restart")
	}

	if cfg.SeedCatalog {
		cat, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed catalog: %w", err)
		}
		if _, err := seed.Apply(ctx, db, cat, log); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	m := metrics.New()
	authSvc := app.NewAuthService(db, sessions, cfg.SessionTTL)
	svc := adapthttp.Services{
		Auth:      authSvc,
		Profile:   app.NewProfileService(db),
		Foods:     app.NewFoodService(db),
		Meals:     app.NewMealService(db, db),
		Plans:     app.NewPlanService(db, db),
		Progress:  app.NewProgressService(db),
		Dashboard: app.NewDashboardService(db, db, db),
		Charts:    app.NewChartsService(db, db),
	}

	limiter := adapthttp.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, m)
	server := adapthttp.New(svc, cfg.WebDir, log, m, limiter)

	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return fmt.Errorf("discover oidc provider: %w", err)
		}
		server.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		})
		log.WithField("issuer", cfg.OIDC.Issuer).Info("sso enabled")
	}

	sched := schedule.New(log, time.Minute)
	err := sched.Add(cfg.SessionCleanupSchedule, "purge-sessions", func(ctx context.Context) error {
		n, err := authSvc.PurgeExpiredSessions(ctx)
		if err != nil {
			return err
		}
		m.SessionsPurged(n)
		log.WithField("sessions", n).Debug("expired sessions purged")
		return nil
	})
	if err != nil {
		return fmt.Errorf("schedule session cleanup: %w", err)
	}
	err = sched.Add("@every 10m", "prune-rate-limiters", func(ctx context.Context) error {
		limiter.Prune(cfg.RateLimitWindow)
		return nil
	})
	if err != nil {
		return fmt.Errorf("schedule limiter pruning: %w", err)
	}
	sched.Start()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "storage": cfg.Storage}).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	sched.Stop(shutdownCtx)
	return runErr
}
