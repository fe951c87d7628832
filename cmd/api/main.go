package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/ian-yc-kim/ca-events-svc/internal/app"
	"github.com/ian-yc-kim/ca-events-svc/internal/clock"
	"github.com/ian-yc-kim/ca-events-svc/internal/config"
	"github.com/ian-yc-kim/ca-events-svc/internal/storage/postgres"
	transporthttp "github.com/ian-yc-kim/ca-events-svc/internal/transport/http"
	"github.com/ian-yc-kim/ca-events-svc/migrations"
)

const (
	startupTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.AppEnv == config.EnvProduction {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	repo := postgres.NewEventRepository(pool)
	svc := app.NewEventService(repo, clock.NewSystem(),
		app.WithPaginationLimits(cfg.PaginationDefaultLimit, cfg.PaginationMaxLimit),
		app.WithLogger(log),
	)

	router := transporthttp.NewRouter(svc, log)
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}

	log.Infof("api listening on %s", cfg.Addr())

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("server shutdown error: %v", err)
	}
	log.Info("server stopped")
}
