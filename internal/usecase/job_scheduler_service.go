package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/probegapp/probeg/internal/domain/jobscheduler"
	"github.com/probegapp/probeg/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

// JobQueue hands a job payload to the external queue. The queue calls
// the job path back on the API with the same payload.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

const (
	jobNameCollectEvents = "collect-events"
	jobNameSyncProtocols = "sync-protocols"

	jobPathCollectEvents = "/v1/internal/jobs/collect-events"
	jobPathSyncProtocols = "/v1/internal/jobs/sync-protocols"
)

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type JobSchedulerConfig struct {
	CollectInterval      time.Duration
	ProtocolSyncInterval time.Duration
}

// JobSchedulerService enqueues the recurring collection and protocol
// sync jobs. The deduplication ID is bucketed to the job interval, so a
// restarted scheduler cannot double-enqueue within one window; the
// queue drops the second publish.
type JobSchedulerService struct {
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobSchedulerConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewJobSchedulerService(
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobSchedulerConfig,
	logger *logging.Logger,
) *JobSchedulerService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CollectInterval <= 0 {
		cfg.CollectInterval = 6 * time.Hour
	}
	if cfg.ProtocolSyncInterval <= 0 {
		cfg.ProtocolSyncInterval = 12 * time.Hour
	}

	return &JobSchedulerService{
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// EnqueueCollectEvents schedules one calendar collection pass.
func (s *JobSchedulerService) EnqueueCollectEvents(ctx context.Context) (string, error) {
	return s.enqueue(ctx, jobNameCollectEvents, jobPathCollectEvents, nil, 0, s.cfg.CollectInterval)
}

// EnqueueProtocolSync schedules one protocol sync pass, optionally
// narrowed to the named source families.
func (s *JobSchedulerService) EnqueueProtocolSync(ctx context.Context, sources []string, limit int) (string, error) {
	return s.enqueue(ctx, jobNameSyncProtocols, jobPathSyncProtocols, sources, limit, s.cfg.ProtocolSyncInterval)
}

// Run drives the periodic enqueue loop until ctx is cancelled. A
// failing tick is logged and the loop keeps going.
func (s *JobSchedulerService) Run(ctx context.Context) {
	collect := time.NewTicker(s.cfg.CollectInterval)
	defer collect.Stop()
	syncTicker := time.NewTicker(s.cfg.ProtocolSyncInterval)
	defer syncTicker.Stop()

	s.logger.InfoContext(ctx, "job scheduler started",
		"collect_interval", s.cfg.CollectInterval,
		"protocol_sync_interval", s.cfg.ProtocolSyncInterval,
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "job scheduler stopped")
			return
		case <-collect.C:
			if _, err := s.EnqueueCollectEvents(ctx); err != nil {
				s.logger.ErrorContext(ctx, "enqueue collect-events failed", "error", err)
			}
		case <-syncTicker.C:
			if _, err := s.EnqueueProtocolSync(ctx, nil, 0); err != nil {
				s.logger.ErrorContext(ctx, "enqueue sync-protocols failed", "error", err)
			}
		}
	}
}

func (s *JobSchedulerService) enqueue(
	ctx context.Context,
	jobName, jobPath string,
	sources []string,
	limit int,
	window time.Duration,
) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobSchedulerService.enqueue")
	defer span.End()

	now := s.now().UTC()
	target := "all"
	if len(sources) > 0 {
		target = strings.Join(sources, ",")
	}
	bucket := now.Truncate(window)
	dispatchID := sanitizeDedupID(jobName + "-" + target + "-" + bucket.Format("20060102T150405Z"))

	payload := map[string]any{"dispatch_id": dispatchID}
	if len(sources) > 0 {
		payload["sources"] = sources
	}
	if limit > 0 {
		payload["limit"] = limit
	}

	if err := s.queue.Enqueue(ctx, jobPath, payload, 0, dispatchID); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", jobName, err)
	}

	if s.dispatchRepo != nil {
		event := jobscheduler.DispatchEvent{
			DispatchID: dispatchID,
			JobName:    jobName,
			JobPath:    jobPath,
			Target:     target,
			Status:     jobscheduler.StatusSent,
			Payload:    payload,
			OccurredAt: now,
		}
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			event.TraceID = spanCtx.TraceID().String()
			event.SpanID = spanCtx.SpanID().String()
		}
		if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "record job dispatch failed",
				"dispatch_id", dispatchID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "job enqueued",
		"job", jobName, "dispatch_id", dispatchID, "target", target)
	return dispatchID, nil
}

func sanitizeDedupID(raw string) string {
	return dedupUnsafeCharRegex.ReplaceAllString(raw, "_")
}
