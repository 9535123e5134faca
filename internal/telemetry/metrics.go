// Package telemetry provides OpenTelemetry instrumentation for the rollout server.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// RolloutMetricsMeterName is the name used for the rollout metrics meter
	RolloutMetricsMeterName = "github.com/patchstream/rollout-server/rollout"

	// TaskMetricsMeterName is the name used for the task metrics meter
	TaskMetricsMeterName = "github.com/patchstream/rollout-server/tasks"
)

// Decision attribute values for the per-task decision counter
const (
	// DecisionApproved counts updates approved for the test group
	DecisionApproved = "approved"

	// DecisionPromoted counts updates promoted to production
	DecisionPromoted = "promoted"

	// DecisionBlocked counts updates blocked from promotion
	DecisionBlocked = "blocked"
)

// RolloutMetrics holds the OpenTelemetry instruments for rollout run metrics
type RolloutMetrics struct {
	runDuration metric.Float64Histogram
}

// NewRolloutMetrics creates a new RolloutMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewRolloutMetrics(provider metric.MeterProvider) (*RolloutMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(RolloutMetricsMeterName)

	runDuration, err := meter.Float64Histogram(
		"pst_rollout_run_duration_seconds",
		metric.WithDescription("Duration of rollout runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	return &RolloutMetrics{
		runDuration: runDuration,
	}, nil
}

// RecordRunDuration records the duration of a rollout run for a task
func (m *RolloutMetrics) RecordRunDuration(ctx context.Context, taskName string, duration time.Duration, success bool) {
	if m == nil || m.runDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("task", taskName),
		attribute.Bool("success", success),
	}

	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// TaskMetrics holds the OpenTelemetry instruments for per-task rollout outcomes
type TaskMetrics struct {
	decisionsTotal metric.Int64Counter
	openEntries    metric.Int64Gauge
}

// NewTaskMetrics creates a new TaskMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewTaskMetrics(provider metric.MeterProvider) (*TaskMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(TaskMetricsMeterName)

	decisionsTotal, err := meter.Int64Counter(
		"pst_rollout_decisions_total",
		metric.WithDescription("Number of update decisions made by rollout runs"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	openEntries, err := meter.Int64Gauge(
		"pst_rollout_open_entries",
		metric.WithDescription("Number of open tracking entries per task"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &TaskMetrics{
		decisionsTotal: decisionsTotal,
		openEntries:    openEntries,
	}, nil
}

// RecordDecisions records the number of updates a run decided for a task
func (m *TaskMetrics) RecordDecisions(ctx context.Context, taskName, decision string, count int64) {
	if m == nil || m.decisionsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("task", taskName),
		attribute.String("decision", decision),
	}

	m.decisionsTotal.Add(ctx, count, metric.WithAttributes(attrs...))
}

// RecordOpenEntries records the number of tracking entries still open for a task
func (m *TaskMetrics) RecordOpenEntries(ctx context.Context, taskName string, count int64) {
	if m == nil || m.openEntries == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("task", taskName),
	}

	m.openEntries.Record(ctx, count, metric.WithAttributes(attrs...))
}
