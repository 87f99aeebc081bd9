package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/claim"
	"github.com/probegapp/probeg/internal/usecase"
)

type claimDTO struct {
	ID         string `json:"id"`
	ResultID   string `json:"result_id"`
	RunnerID   string `json:"runner_id"`
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewed_by,omitempty"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
	ReviewedAt string `json:"reviewed_at,omitempty"`
}

type submitClaimRequest struct {
	ResultID string `json:"result_id" validate:"required"`
	RunnerID string `json:"runner_id" validate:"required"`
	ChatID   int64  `json:"chat_id,omitempty"`
}

type reviewClaimRequest struct {
	Comment string `json:"comment,omitempty"`
}

func claimToDTO(ctx context.Context, item claim.Claim) claimDTO {
	_ = ctx

	dto := claimDTO{
		ID:         item.ID,
		ResultID:   item.ResultID,
		RunnerID:   item.RunnerID,
		Status:     item.Status,
		ReviewedBy: item.ReviewedBy,
		Comment:    item.Comment,
		CreatedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.ReviewedAt != nil {
		dto.ReviewedAt = item.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitClaim")
	defer span.End()

	var request submitClaimRequest
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

	item, err := h.claims.Submit(ctx, request.ResultID, request.RunnerID, request.ChatID)
	if err != nil {
		h.logger.WarnContext(ctx, "submit claim failed",
			"result_id", request.ResultID, "runner_id", request.RunnerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, claimToDTO(ctx, item))
}

func (h *Handler) ListPendingClaims(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingClaims")
	defer span.End()

	claims, err := h.claims.ListPending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list pending claims failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]claimDTO, 0, len(claims))
	for _, item := range claims {
		items = append(items, claimToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	h.reviewClaim(w, r, "httpapi.Handler.ApproveClaim", h.claims.Approve)
}

func (h *Handler) RejectClaim(w http.ResponseWriter, r *http.Request) {
	h.reviewClaim(w, r, "httpapi.Handler.RejectClaim", h.claims.Reject)
}

// reviewClaim is shared by approve and reject: the moderator identity
// comes from the verified principal, never from the request body.
func (h *Handler) reviewClaim(
	w http.ResponseWriter,
	r *http.Request,
	spanName string,
	review func(ctx context.Context, claimID, reviewedBy, comment string) (claim.Claim, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var request reviewClaimRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil && !isEmptyBody(err) {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err))
		return
	}

	claimID := strings.TrimSpace(r.PathValue("claimID"))
	item, err := review(ctx, claimID, principal.UserID, request.Comment)
	if err != nil {
		h.logger.WarnContext(ctx, "claim review failed",
			"claim_id", claimID, "reviewed_by", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, claimToDTO(ctx, item))
}
