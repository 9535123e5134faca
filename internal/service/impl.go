package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/otel"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/internal/tracking"
)

// rolloutSvc implements the RolloutService interface over the configured
// tasks and their stores
type rolloutSvc struct {
	config    *config.Config
	tracking  tracking.Store
	runStatus status.StatusPersistence
	tracer    trace.Tracer
}

var _ RolloutService = (*rolloutSvc)(nil)

// ServiceOption is a functional option for configuring the service
//
//nolint:revive // This name is fine
type ServiceOption func(*rolloutSvc)

// WithTracer sets the OpenTelemetry tracer used for service spans.
// When unset, span creation is a no-op.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *rolloutSvc) {
		s.tracer = tracer
	}
}

// New creates a rollout service backed by the given configuration and stores
func New(
	cfg *config.Config,
	trackingStore tracking.Store,
	statusPersistence status.StatusPersistence,
	opts ...ServiceOption,
) (RolloutService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if trackingStore == nil {
		return nil, fmt.Errorf("tracking store is required")
	}
	if statusPersistence == nil {
		return nil, fmt.Errorf("status persistence is required")
	}

	s := &rolloutSvc{
		config:    cfg,
		tracking:  trackingStore,
		runStatus: statusPersistence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckReadiness implements RolloutService.CheckReadiness
func (s *rolloutSvc) CheckReadiness(ctx context.Context) error {
	// The API can only serve meaningful data when the status backend is
	// reachable
	if _, err := s.runStatus.LoadAllStatus(ctx); err != nil {
		return fmt.Errorf("status persistence not available: %w", err)
	}
	return nil
}

// ListTasks implements RolloutService.ListTasks
func (s *rolloutSvc) ListTasks(ctx context.Context) ([]TaskStatus, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "service.ListTasks")
	defer span.End()

	statuses, err := s.runStatus.LoadAllStatus(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to load run status: %w", err)
	}

	tasks := make([]TaskStatus, 0, len(s.config.Tasks))
	for i := range s.config.Tasks {
		task := &s.config.Tasks[i]
		lastRun, ok := statuses[task.Name]
		if !ok {
			lastRun = &status.RunStatus{Phase: status.RunPhaseIdle}
		}
		tasks = append(tasks, newTaskStatus(task, lastRun))
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(tasks)))
	return tasks, nil
}

// GetTask implements RolloutService.GetTask
func (s *rolloutSvc) GetTask(ctx context.Context, name string) (*TaskStatus, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "service.GetTask",
		trace.WithAttributes(otel.AttrTaskName.String(name)))
	defer span.End()

	task := s.config.GetTask(name)
	if task == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}

	lastRun, err := s.runStatus.LoadStatus(ctx, name)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to load run status for task '%s': %w", name, err)
	}

	taskStatus := newTaskStatus(task, lastRun)
	return &taskStatus, nil
}

// ListTaskEntries implements RolloutService.ListTaskEntries
func (s *rolloutSvc) ListTaskEntries(ctx context.Context, name string, opts ...Option) ([]tracking.Entry, error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "service.ListTaskEntries",
		trace.WithAttributes(otel.AttrTaskName.String(name)))
	defer span.End()

	options := &ListTaskEntriesOptions{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			otel.RecordError(span, err)
			return nil, err
		}
	}

	if s.config.GetTask(name) == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}

	set, err := s.tracking.Load(ctx, name)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to load tracking data for task '%s': %w", name, err)
	}

	entries := make([]tracking.Entry, 0, len(set.Entries))
	for _, entry := range set.Entries {
		if options.Status != "" && entry.Status != options.Status {
			continue
		}
		entries = append(entries, entry)
	}

	if options.Status != "" {
		span.SetAttributes(otel.AttrEntryStatus.String(string(options.Status)))
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(entries)))
	return entries, nil
}
