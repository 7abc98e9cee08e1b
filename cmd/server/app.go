package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/config"
	"github.com/mamadbah2/farmbook/internal/repository/mongodb"
	"github.com/mamadbah2/farmbook/internal/repository/sheets"
	"github.com/mamadbah2/farmbook/internal/repository/sqlstore"
	"github.com/mamadbah2/farmbook/internal/scheduler"
	"github.com/mamadbah2/farmbook/internal/service/metrics"
	reportingsvc "github.com/mamadbah2/farmbook/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/farmbook/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/farmbook/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmbook/pkg/logger"
)

// app holds the dependencies every subcommand shares.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *sqlstore.Store
	engine *metrics.Engine

	closers []func(context.Context) error
}

func newApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	baseLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(baseLogger)

	store, err := sqlstore.Open(cfg.Database, logger.Named(baseLogger, "repo.sql"))
	if err != nil {
		return nil, err
	}

	engine := metrics.NewEngine(store, metrics.NewStoreSettings(store), metrics.Options{
		EggProduct: cfg.Farm.EggProductName,
		Location:   cfg.Farm.Location(),
	}, logger.Named(baseLogger, "svc.metrics"))
	policies := engine.Policies()
	baseLogger.Debug("metrics engine ready",
		zap.String("egg_product", cfg.Farm.EggProductName),
		zap.Stringer("egg_stock_clamp", policies.EggStock),
		zap.Stringer("headcount_clamp", policies.Headcount),
		zap.Stringer("pond_usage_clamp", policies.PondUsage))

	a := &app{cfg: cfg, logger: baseLogger, store: store, engine: engine}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	return a, nil
}

// snapshotSinks connects the configured archives. A sink that fails to
// connect is skipped with a warning.
func (a *app) snapshotSinks(ctx context.Context) []scheduler.SnapshotSink {
	var sinks []scheduler.SnapshotSink

	if a.cfg.MongoDB.Enabled() {
		repo, err := mongodb.NewSnapshotRepository(ctx, a.cfg.MongoDB, logger.Named(a.logger, "repo.mongodb"))
		if err != nil {
			a.logger.Warn("mongodb archive disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, repo.Close)
			sinks = append(sinks, scheduler.SnapshotSinkFunc{SinkName: "mongodb", Fn: repo.SaveSnapshot})
		}
	}

	if a.cfg.Sheets.Enabled() {
		exporter, err := sheets.NewSnapshotExporter(ctx, a.cfg.Sheets, logger.Named(a.logger, "repo.sheets"))
		if err != nil {
			a.logger.Warn("google sheets export disabled", zap.Error(err))
		} else {
			sinks = append(sinks, scheduler.SnapshotSinkFunc{SinkName: "sheets", Fn: exporter.AppendSnapshot})
		}
	}

	return sinks
}

// reportSender returns nil when WhatsApp is not configured.
func (a *app) reportSender() scheduler.ReportSender {
	if !a.cfg.WhatsApp.Enabled() {
		return nil
	}
	client := whatsappclient.NewClient(a.cfg.WhatsApp)
	return whatsappsvc.NewNotifier(a.cfg.WhatsApp, client, logger.Named(a.logger, "svc.whatsapp"))
}

func (a *app) reporting(dashboards reportingsvc.DashboardSource) *reportingsvc.Service {
	return reportingsvc.NewService(dashboards, a.engine, logger.Named(a.logger, "svc.reporting"))
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Error("failed to release resource", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
