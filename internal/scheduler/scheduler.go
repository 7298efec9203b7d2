package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/config"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// DailyReporter produces the end-of-day sales summary.
type DailyReporter interface {
	DailySales(ctx context.Context, date time.Time) (*service.DailySalesReport, error)
}

// ExpirySweeper marks stock past its expiry date.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Scheduler runs the store's recurring jobs on UTC cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	reports DailyReporter
	sweeper ExpirySweeper
	cfg     config.SchedulerConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, reports DailyReporter, sweeper ExpirySweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		reports: reports,
		sweeper: sweeper,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop. An invalid schedule is
// an error and nothing is started.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.DailyReportSpec, s.logDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.cfg.DailyReportSpec, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.ExpirySweepSpec, s.sweepExpired); err != nil {
		return fmt.Errorf("schedule expiry sweep %q: %w", s.cfg.ExpirySweepSpec, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("daily_report", s.cfg.DailyReportSpec),
		zap.String("expiry_sweep", s.cfg.ExpirySweepSpec),
	)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler jobs still running at shutdown")
	}
}

func (s *Scheduler) logDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reports.DailySales(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.String("date", report.Date),
		zap.Int("bills", report.BillCount),
		zap.String("revenue", report.TotalRevenue.String()),
		zap.String("discount", report.TotalDiscount.String()),
		zap.Int("items_sold", report.ItemsSold),
	}
	if report.MostPopular != nil {
		fields = append(fields,
			zap.String("most_popular", report.MostPopular.Code),
			zap.Int("most_popular_quantity", report.MostPopular.Quantity),
		)
	}
	s.logger.Info("daily sales report", fields...)
}

func (s *Scheduler) sweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	swept, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("expiry sweep finished", zap.Int("buckets", swept))
}
