package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/probegapp/probeg/internal/domain/jobscheduler"
	"github.com/probegapp/probeg/internal/platform/logging"
	"github.com/probegapp/probeg/internal/usecase"
)

type Handler struct {
	raceQuery       *usecase.RaceQueryService
	runnerQuery     *usecase.RunnerQueryService
	claims          *usecase.ClaimService
	subscriptions   *usecase.SubscriptionService
	profiles        *usecase.ProfileService
	importer        *usecase.ImportService
	collector       *usecase.CollectionService
	protocolSync    *usecase.ProtocolSyncService
	submissions     *usecase.SubmissionService
	feedback        *usecase.FeedbackService
	jobDispatchRepo jobscheduler.Repository
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	raceQuery *usecase.RaceQueryService,
	runnerQuery *usecase.RunnerQueryService,
	claims *usecase.ClaimService,
	subscriptions *usecase.SubscriptionService,
	profiles *usecase.ProfileService,
	importer *usecase.ImportService,
	collector *usecase.CollectionService,
	protocolSync *usecase.ProtocolSyncService,
	submissions *usecase.SubmissionService,
	feedback *usecase.FeedbackService,
	jobDispatchRepo jobscheduler.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		raceQuery:       raceQuery,
		runnerQuery:     runnerQuery,
		claims:          claims,
		subscriptions:   subscriptions,
		profiles:        profiles,
		importer:        importer,
		collector:       collector,
		protocolSync:    protocolSync,
		submissions:     submissions,
		feedback:        feedback,
		jobDispatchRepo: jobDispatchRepo,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
