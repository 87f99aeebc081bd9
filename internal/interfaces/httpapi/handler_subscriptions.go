package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/subscription"
	"github.com/probegapp/probeg/internal/usecase"
)

type subscriptionDTO struct {
	ID        string `json:"id"`
	RunnerID  string `json:"runner_id"`
	RaceID    string `json:"race_id"`
	CreatedAt string `json:"created_at"`
}

type subscribeRequest struct {
	RunnerID string `json:"runner_id" validate:"required"`
	RaceID   string `json:"race_id" validate:"required"`
}

func subscriptionToDTO(ctx context.Context, item subscription.Subscription) subscriptionDTO {
	_ = ctx

	return subscriptionDTO{
		ID:        item.ID,
		RunnerID:  item.RunnerID,
		RaceID:    item.RaceID,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Subscribe")
	defer span.End()

	var request subscribeRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, request); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.subscriptions.Subscribe(ctx, request.RunnerID, request.RaceID)
	if err != nil {
		h.logger.WarnContext(ctx, "subscribe failed",
			"runner_id", request.RunnerID, "race_id", request.RaceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, subscriptionToDTO(ctx, item))
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Unsubscribe")
	defer span.End()

	runnerID := strings.TrimSpace(r.PathValue("runnerID"))
	raceID := strings.TrimSpace(r.PathValue("raceID"))
	if err := h.subscriptions.Unsubscribe(ctx, runnerID, raceID); err != nil {
		h.logger.WarnContext(ctx, "unsubscribe failed",
			"runner_id", runnerID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

func (h *Handler) ListRunnerSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRunnerSubscriptions")
	defer span.End()

	runnerID := strings.TrimSpace(r.PathValue("runnerID"))
	subscriptions, err := h.subscriptions.ListForRunner(ctx, runnerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list subscriptions failed", "runner_id", runnerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]subscriptionDTO, 0, len(subscriptions))
	for _, item := range subscriptions {
		items = append(items, subscriptionToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
