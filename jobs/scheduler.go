package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler enqueues the nightly cache warmup on a cron expression.
type Scheduler struct {
	cron   *cron.Cron
	client *Client
	spec   string
	logger *slog.Logger
}

// NewScheduler builds the scheduler. The spec uses standard five-field cron
// syntax, evaluated in UTC.
func NewScheduler(client *Client, spec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		client: client,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the warmup entry and begins ticking.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.enqueueWarmup)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("spec", s.spec))
	return nil
}

// Stop halts the scheduler, waiting for a running entry to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) enqueueWarmup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.client.EnqueueWarmup(ctx, ReportWarmupPayload{}); err != nil {
		s.logger.Error("enqueue warmup", slog.Any("error", err))
		return
	}
	s.logger.Info("warmup enqueued")
}
