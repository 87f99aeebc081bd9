package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/submission"
	"github.com/probegapp/probeg/internal/usecase"
)

type submissionDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	Location      string `json:"location,omitempty"`
	WebsiteURL    string `json:"website_url,omitempty"`
	Status        string `json:"status"`
	ReviewedBy    string `json:"reviewed_by,omitempty"`
	Comment       string `json:"comment,omitempty"`
	CreatedRaceID string `json:"created_race_id,omitempty"`
	CreatedAt     string `json:"created_at"`
	ReviewedAt    string `json:"reviewed_at,omitempty"`
}

type submitRaceRequest struct {
	ChatID     int64  `json:"chat_id,omitempty"`
	Name       string `json:"name" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Location   string `json:"location,omitempty"`
	WebsiteURL string `json:"website_url,omitempty"`
}

type reviewSubmissionRequest struct {
	Comment string `json:"comment,omitempty"`
}

func submissionToDTO(item submission.Submission) submissionDTO {
	dto := submissionDTO{
		ID:            item.ID,
		Name:          item.Name,
		Date:          item.Date.UTC().Format("2006-01-02"),
		Location:      item.Location,
		WebsiteURL:    item.WebsiteURL,
		Status:        item.Status,
		ReviewedBy:    item.ReviewedBy,
		Comment:       item.Comment,
		CreatedRaceID: item.CreatedRaceID,
		CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.ReviewedAt != nil {
		dto.ReviewedAt = item.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func (h *Handler) SubmitRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRace")
	defer span.End()

	var request submitRaceRequest
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

	date, err := time.Parse("2006-01-02", strings.TrimSpace(request.Date))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	item, err := h.submissions.Submit(ctx, usecase.SubmitRaceInput{
		ChatID:     request.ChatID,
		Name:       request.Name,
		Date:       date,
		Location:   request.Location,
		WebsiteURL: request.WebsiteURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit race failed", "name", request.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionToDTO(item))
}

func (h *Handler) ListPendingSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingSubmissions")
	defer span.End()

	submissions, err := h.submissions.ListPending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending submissions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]submissionDTO, 0, len(submissions))
	for _, item := range submissions {
		items = append(items, submissionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	h.reviewSubmission(w, r, "httpapi.Handler.ApproveSubmission", h.submissions.Approve)
}

func (h *Handler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	h.reviewSubmission(w, r, "httpapi.Handler.RejectSubmission", h.submissions.Reject)
}

func (h *Handler) reviewSubmission(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	review func(ctx context.Context, submissionID, reviewedBy, comment string) (submission.Submission, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var request reviewSubmissionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil && !isEmptyBody(err) {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err))
		return
	}

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	item, err := review(ctx, submissionID, principal.UserID, request.Comment)
	if err != nil {
		h.logger.WarnContext(ctx, "submission review failed",
			"submission_id", submissionID, "reviewed_by", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}
