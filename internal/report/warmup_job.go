package report

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/cantera-ops/cantera/internal/jobs"
	"github.com/cantera-ops/cantera/jobs"
	"github.com/cantera-ops/cantera/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultWarmupWindowDays = 30

// ReportWarmupJob pre-populates the report cache so the first request after
// an invalidation does not pay the full aggregation cost.
type ReportWarmupJob struct {
	Reports *Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reports *Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: reports,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload jobs.ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WindowDays <= 0 {
		payload.WindowDays = defaultWarmupWindowDays
	}

	tracker := j.metrics().Track(jobs.TaskTypeReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := j.now()
	to := shared.DateOf(now)
	from := shared.DateOf(now.AddDate(0, 0, -payload.WindowDays))

	logger := j.logger().With(slog.String("from", from.String()), slog.String("to", to.String()))
	logger.Info("starting report warmup")

	if _, err := j.Reports.EquipmentPeriod(ctx, from, to); err != nil {
		resultErr = err
		logger.Error("warm period report", slog.Any("error", err))
		return resultErr
	}
	if _, err := j.Reports.PurchaseSummary(ctx); err != nil {
		resultErr = err
		logger.Error("warm purchase summary", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed report warmup", slog.Duration("duration", time.Since(now)))
	return resultErr
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", jobs.TaskTypeReportWarmup))
	}
	return slog.Default().With(slog.String("job", jobs.TaskTypeReportWarmup))
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
