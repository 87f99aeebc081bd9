package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"

	"github.com/probegapp/probeg/internal/domain/jobscheduler"
	"github.com/probegapp/probeg/internal/usecase"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type internalJobSyncRequest struct {
	// DispatchID ties this run to a scheduler message; manual runs leave
	// it empty and get a synthetic one.
	DispatchID string `json:"dispatch_id,omitempty"`
	// Sources narrows a protocol sync to the named source families.
	Sources []string `json:"sources,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// RunCollectEventsJob triggers one calendar collection pass across every
// configured source.
func (h *Handler) RunCollectEventsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCollectEventsJob")
	defer span.End()

	if h.collector == nil {
		writeError(ctx, w, fmt.Errorf("%w: collection service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.collector.CollectEvents(ctx)
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, jobscheduler.DispatchEvent{
			JobName:      "collect-events",
			JobPath:      "/v1/internal/jobs/collect-events",
			Target:       jobTarget(req),
			Status:       jobscheduler.StatusFailed,
			Payload:      buildInternalJobPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run collect events job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, jobscheduler.DispatchEvent{
		JobName:    "collect-events",
		JobPath:    "/v1/internal/jobs/collect-events",
		Target:     jobTarget(req),
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildInternalJobPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunSyncProtocolsJob triggers one protocol sync pass over races that
// carry a protocol URL.
func (h *Handler) RunSyncProtocolsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncProtocolsJob")
	defer span.End()

	if h.protocolSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: protocol sync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeInternalJobSyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.protocolSync.SyncProtocols(ctx, usecase.ProtocolSyncInput{
		Sources: req.Sources,
		Limit:   req.Limit,
	})
	if err != nil {
		h.recordInternalJobDispatch(ctx, req, jobscheduler.DispatchEvent{
			JobName:      "sync-protocols",
			JobPath:      "/v1/internal/jobs/sync-protocols",
			Target:       jobTarget(req),
			Status:       jobscheduler.StatusFailed,
			Payload:      buildInternalJobPayload(req),
			ErrorMessage: err.Error(),
			OccurredAt:   time.Now().UTC(),
		})
		h.logger.WarnContext(ctx, "run sync protocols job failed", "sources", strings.Join(req.Sources, ","), "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordInternalJobDispatch(ctx, req, jobscheduler.DispatchEvent{
		JobName:    "sync-protocols",
		JobPath:    "/v1/internal/jobs/sync-protocols",
		Target:     jobTarget(req),
		Status:     jobscheduler.StatusCompleted,
		Payload:    buildInternalJobPayload(req),
		OccurredAt: time.Now().UTC(),
	})

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeInternalJobSyncRequest(r *http.Request) (internalJobSyncRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobSyncRequest
	if err := decoder.Decode(&req); err != nil {
		if isEmptyBody(err) {
			return internalJobSyncRequest{}, nil
		}
		return internalJobSyncRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}

func (h *Handler) recordInternalJobDispatch(ctx context.Context, req internalJobSyncRequest, event jobscheduler.DispatchEvent) {
	if h.jobDispatchRepo == nil {
		return
	}

	dispatchID := strings.TrimSpace(req.DispatchID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(event.JobName, event.Target, event.OccurredAt)
	}
	event.DispatchID = dispatchID

	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID

	if err := h.jobDispatchRepo.UpsertEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "record internal job dispatch failed",
			"dispatch_id", event.DispatchID,
			"job_name", event.JobName,
			"status", event.Status,
			"error", err,
		)
	}
}

func buildInternalJobPayload(req internalJobSyncRequest) map[string]any {
	payload := map[string]any{}
	if len(req.Sources) > 0 {
		payload["sources"] = req.Sources
	}
	if req.Limit > 0 {
		payload["limit"] = req.Limit
	}
	if strings.TrimSpace(req.DispatchID) != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func jobTarget(req internalJobSyncRequest) string {
	if len(req.Sources) == 0 {
		return "all"
	}
	return strings.Join(req.Sources, ",")
}

func buildManualDispatchID(jobName, target string, now time.Time) string {
	jobName = sanitizeDispatchPart(jobName)
	target = sanitizeDispatchPart(target)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + jobName + "-" + target + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
