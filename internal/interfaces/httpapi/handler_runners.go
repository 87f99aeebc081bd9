package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/usecase"
)

type runnerDTO struct {
	ID         string `json:"id"`
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	Gender     string `json:"gender,omitempty"`
	City       string `json:"city,omitempty"`
	Club       string `json:"club,omitempty"`
	ChatLinked bool   `json:"chat_linked"`
}

type personalBestDTO struct {
	Distance      string `json:"distance"`
	FinishSeconds int    `json:"finish_seconds"`
	FinishDisplay string `json:"finish_display,omitempty"`
	RaceID        string `json:"race_id"`
	RaceName      string `json:"race_name,omitempty"`
}

type registerRunnerRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	FullName   string `json:"full_name" validate:"required"`
	BirthDate  string `json:"birth_date,omitempty"`
	Gender     string `json:"gender,omitempty"`
	City       string `json:"city,omitempty"`
}

type registerRunnerDTO struct {
	Runner  runnerDTO `json:"runner"`
	Created bool      `json:"created"`
}

func runnerToDTO(ctx context.Context, item runner.Runner) runnerDTO {
	_ = ctx

	dto := runnerDTO{
		ID:         item.ID,
		LastName:   item.LastName,
		FirstName:  item.FirstName,
		MiddleName: item.MiddleName,
		Gender:     item.Gender,
		City:       item.City,
		Club:       item.Club,
		ChatLinked: item.IsChatLinked(),
	}
	if item.BirthDate != nil {
		dto.BirthDate = item.BirthDate.UTC().Format("2006-01-02")
	}
	return dto
}

func personalBestToDTO(ctx context.Context, item result.PersonalBest) personalBestDTO {
	_ = ctx

	return personalBestDTO{
		Distance:      item.Distance,
		FinishSeconds: item.FinishSeconds,
		FinishDisplay: item.FinishDisplay,
		RaceID:        item.RaceID,
		RaceName:      item.RaceName,
	}
}

func (h *Handler) GetRunner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRunner")
	defer span.End()

	runnerID := strings.TrimSpace(r.PathValue("runnerID"))
	item, err := h.runnerQuery.GetByID(ctx, runnerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runnerToDTO(ctx, item))
}

func (h *Handler) ListRunnerResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRunnerResults")
	defer span.End()

	runnerID := strings.TrimSpace(r.PathValue("runnerID"))
	results, err := h.runnerQuery.Results(ctx, runnerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list runner results failed", "runner_id", runnerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]resultDTO, 0, len(results))
	for _, item := range results {
		items = append(items, resultToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListRunnerPersonalBests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRunnerPersonalBests")
	defer span.End()

	runnerID := strings.TrimSpace(r.PathValue("runnerID"))
	bests, err := h.runnerQuery.PersonalBests(ctx, runnerID)
	if err != nil {
		h.logger.WarnContext(ctx, "list personal bests failed", "runner_id", runnerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]personalBestDTO, 0, len(bests))
	for _, item := range bests {
		items = append(items, personalBestToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// RegisterRunnerFromChat is the bot-facing registration endpoint. It is
// idempotent per chat identity.
func (h *Handler) RegisterRunnerFromChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterRunnerFromChat")
	defer span.End()

	var request registerRunnerRequest
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

	input := usecase.RegisterInput{
		TelegramID: request.TelegramID,
		FullName:   request.FullName,
		Gender:     request.Gender,
		City:       request.City,
	}
	if raw := strings.TrimSpace(request.BirthDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: birth_date must use YYYY-MM-DD", usecase.ErrInvalidInput))
			return
		}
		parsed = parsed.UTC()
		input.BirthDate = &parsed
	}

	item, created, err := h.profiles.RegisterFromChat(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "register from chat failed", "telegram_id", request.TelegramID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, registerRunnerDTO{Runner: runnerToDTO(ctx, item), Created: created})
}
