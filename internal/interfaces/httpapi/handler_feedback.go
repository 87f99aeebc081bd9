package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/feedback"
	"github.com/probegapp/probeg/internal/usecase"
)

type feedbackDTO struct {
	ID        string `json:"id"`
	ChatID    int64  `json:"chat_id,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type submitFeedbackRequest struct {
	ChatID  int64  `json:"chat_id,omitempty"`
	Message string `json:"message" validate:"required"`
}

func feedbackToDTO(item feedback.Feedback) feedbackDTO {
	return feedbackDTO{
		ID:        item.ID,
		ChatID:    item.ChatID,
		Message:   item.Message,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitFeedback")
	defer span.End()

	var request submitFeedbackRequest
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

	item, err := h.feedback.Submit(ctx, request.ChatID, request.Message)
	if err != nil {
		h.logger.WarnContext(ctx, "submit feedback failed", "chat_id", request.ChatID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, feedbackToDTO(item))
}

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeedback")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	entries, err := h.feedback.List(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list feedback failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]feedbackDTO, 0, len(entries))
	for _, item := range entries {
		items = append(items, feedbackToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
