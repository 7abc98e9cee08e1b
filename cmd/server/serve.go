package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/observability"
	"github.com/mamadbah2/farmbook/internal/scheduler"
	"github.com/mamadbah2/farmbook/internal/server/handlers"
	"github.com/mamadbah2/farmbook/internal/server/router"
	"github.com/mamadbah2/farmbook/internal/service/entries"
	"github.com/mamadbah2/farmbook/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the report scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	obs := observability.NewMetrics()
	dashboards := obs.Instrument(a.engine)

	entrySvc := entries.NewService(a.store, a.cfg.Farm.Location(), logger.Named(a.logger, "svc.entries"))
	engine := router.New(
		handlers.NewMetricsHandler(dashboards, a.engine, logger.Named(a.logger, "handlers.metrics")),
		handlers.NewEntriesHandler(entrySvc, logger.Named(a.logger, "handlers.entries")),
		obs.Handler(),
		logger.Named(a.logger, "router"),
	)

	sched := scheduler.NewScheduler(
		a.cfg.Reporting,
		a.cfg.Farm.Location(),
		a.reporting(dashboards),
		a.snapshotSinks(ctx),
		a.reportSender(),
		logger.Named(a.logger, "scheduler"),
	)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.logger.Error("http server crashed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
