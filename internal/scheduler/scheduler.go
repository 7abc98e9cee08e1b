package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/config"
	"github.com/mamadbah2/farmbook/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter builds snapshots and report text.
type Reporter interface {
	BuildSnapshot(ctx context.Context) (models.DashboardSnapshot, error)
	WeeklyReport(ctx context.Context) (string, error)
}

// SnapshotSink receives daily snapshots.
type SnapshotSink interface {
	Name() string
	Save(ctx context.Context, snap models.DashboardSnapshot) error
}

// SnapshotSinkFunc adapts a function to SnapshotSink.
type SnapshotSinkFunc struct {
	SinkName string
	Fn       func(ctx context.Context, snap models.DashboardSnapshot) error
}

// Name implements SnapshotSink.
func (f SnapshotSinkFunc) Name() string { return f.SinkName }

// Save implements SnapshotSink.
func (f SnapshotSinkFunc) Save(ctx context.Context, snap models.DashboardSnapshot) error {
	return f.Fn(ctx, snap)
}

// ReportSender delivers the weekly report text.
type ReportSender interface {
	SendReport(ctx context.Context, text string) error
}

// Scheduler runs the daily snapshot and weekly report jobs.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	sinks    []SnapshotSink
	sender   ReportSender
	cfg      config.ReportingConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. Schedules are evaluated in
// the farm's timezone. A nil sender disables the weekly report.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, reporter Reporter, sinks []SnapshotSink, sender ReportSender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		sinks:    sinks,
		sender:   sender,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("snapshot_schedule", s.cfg.SnapshotSchedule),
		zap.String("weekly_schedule", s.cfg.WeeklySchedule),
		zap.Int("snapshot_sinks", len(s.sinks)),
		zap.Bool("weekly_report", s.sender != nil))

	if len(s.sinks) > 0 {
		if _, err := s.cron.AddFunc(s.cfg.SnapshotSchedule, s.job("snapshot", s.RunSnapshot)); err != nil {
			return err
		}
	} else {
		s.logger.Warn("no snapshot sink configured, daily snapshot disabled")
	}

	if s.sender != nil {
		if _, err := s.cron.AddFunc(s.cfg.WeeklySchedule, s.job("weekly_report", s.RunWeeklyReport)); err != nil {
			return err
		}
	} else {
		s.logger.Warn("whatsapp not configured, weekly report disabled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunSnapshot builds today's snapshot and hands it to every sink. A failing
// sink does not stop the others.
func (s *Scheduler) RunSnapshot(ctx context.Context) error {
	snap, err := s.reporter.BuildSnapshot(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Save(ctx, snap); err != nil {
			s.logger.Error("snapshot sink failed", zap.String("sink", sink.Name()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		s.logger.Info("snapshot stored", zap.String("sink", sink.Name()), zap.String("date", snap.Date))
	}
	return errors.Join(errs...)
}

// RunWeeklyReport builds the report and sends it.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	if s.sender == nil {
		return errors.New("no report sender configured")
	}
	report, err := s.reporter.WeeklyReport(ctx)
	if err != nil {
		return err
	}
	return s.sender.SendReport(ctx, report)
}

func (s *Scheduler) job(name string, run func(context.Context) error) func() {
	return func() {
		s.logger.Info("job started", zap.String("job", name))
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("job finished", zap.String("job", name))
	}
}
