package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReportSnapshot computes one report snapshot.
	TaskTypeReportSnapshot = "report:snapshot"
	// TaskTypeReportWarmup pre-populates the report cache.
	TaskTypeReportWarmup = "report:warmup"
)

// ReportSnapshotPayload identifies the snapshot to process.
type ReportSnapshotPayload struct {
	SnapshotID int64 `json:"snapshot_id"`
}

// NewReportSnapshotTask constructs an Asynq task for snapshot processing.
func NewReportSnapshotTask(payload ReportSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportSnapshot, data), nil
}

// ReportWarmupPayload configures a cache warmup run.
type ReportWarmupPayload struct {
	// WindowDays bounds the period report warmed up, counting back from
	// the current day. Zero means the default window.
	WindowDays int `json:"window_days"`
}

// NewReportWarmupTask constructs an Asynq task for cache warmup.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportWarmup, data), nil
}
