package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/OlaWorkspace/olla-website-sub000/internal/config"
	"github.com/OlaWorkspace/olla-website-sub000/internal/db"
	"github.com/OlaWorkspace/olla-website-sub000/internal/metrics"
	"github.com/OlaWorkspace/olla-website-sub000/internal/subscription"
)

// The worker runs scheduled maintenance: expiring trials and subscriptions
// whose period has ended. It serves its own /metrics on WORKER_METRICS_ADDR.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if !cfg.IsProduction() {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()

	catalogue, err := subscription.DefaultCatalogue()
	if err != nil {
		logger.Fatal("plan catalogue failed to load", zap.Error(err))
	}
	// Expiry never advances onboarding, so no step recorder is needed.
	subscriptions := subscription.NewService(subscription.NewPostgresRepository(pool), catalogue, nil, logger)

	// ───────────────────────── SCHEDULE ─────────────────────────
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		n, err := subscriptions.ExpireOverdue(sweepCtx)
		if err != nil {
			logger.Error("subscription sweep failed", zap.Error(err))
			return
		}
		logger.Info("subscription sweep finished", zap.Int("expired", n))
	})
	if err != nil {
		logger.Fatal("invalid SWEEP_SCHEDULE", zap.String("schedule", cfg.SweepSchedule), zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ───────────────────────── START ─────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start()
		logger.Info("worker started", zap.String("schedule", cfg.SweepSchedule))
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
