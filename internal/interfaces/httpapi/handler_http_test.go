package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/probegapp/probeg/internal/domain/jobscheduler"
	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/domain/runner"
	"github.com/probegapp/probeg/internal/domain/user"
	"github.com/probegapp/probeg/internal/infrastructure/repository/memory"
	idgen "github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
	"github.com/probegapp/probeg/internal/usecase"
)

const testJobToken = "test-job-token"

type staticVerifier struct{}

func (staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != "moderator-token" {
		return user.Principal{}, usecase.ErrUnauthorized
	}
	return user.Principal{UserID: "mod-1", Email: "mod@example.com"}, nil
}

type recordingDispatchRepo struct {
	events []jobscheduler.DispatchEvent
}

func (r *recordingDispatchRepo) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.events = append(r.events, event)
	return nil
}

type routerFixture struct {
	router     http.Handler
	runnerRepo *memory.RunnerRepository
	resultRepo *memory.ResultRepository
}

func newRouterFixture(t *testing.T, races []race.Race, results []result.Result) *routerFixture {
	t.Helper()

	logger := logging.NewNop()
	idGen := idgen.NewRandomGenerator()

	runnerRepo := memory.NewRunnerRepository(nil)
	raceRepo := memory.NewRaceRepository(races)
	resultRepo := memory.NewResultRepository(results)
	claimRepo := memory.NewClaimRepository()
	subscriptionRepo := memory.NewSubscriptionRepository()
	organizerRepo := memory.NewOrganizerRepository(idGen)

	importSvc := usecase.NewImportService(runnerRepo, raceRepo, resultRepo, organizerRepo, idGen, logger)
	handler := NewHandler(
		usecase.NewRaceQueryService(raceRepo, resultRepo, nil, logger),
		usecase.NewRunnerQueryService(runnerRepo, resultRepo, logger),
		usecase.NewClaimService(claimRepo, resultRepo, runnerRepo, idGen, nil, logger),
		usecase.NewSubscriptionService(subscriptionRepo, raceRepo, runnerRepo, idGen, logger),
		usecase.NewProfileService(runnerRepo, idGen, logger),
		importSvc,
		usecase.NewCollectionService(nil, raceRepo, organizerRepo, idGen, logger),
		usecase.NewProtocolSyncService(raceRepo, subscriptionRepo, runnerRepo, importSvc, nil, nil, usecase.ProtocolSyncConfig{}, logger),
		usecase.NewSubmissionService(memory.NewSubmissionRepository(), raceRepo, idGen, nil, logger),
		usecase.NewFeedbackService(memory.NewFeedbackRepository(), idGen, logger),
		&recordingDispatchRepo{},
		logger,
	)

	router := NewRouter(handler, staticVerifier{}, slog.New(slog.DiscardHandler), false, nil, testJobToken)
	return &routerFixture{router: router, runnerRepo: runnerRepo, resultRepo: resultRepo}
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		APIVersion string         `json:"apiVersion"`
		Data       map[string]any `json:"data"`
	}
	if err := sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected apiVersion %q", envelope.APIVersion)
	}
	return envelope.Data
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t, nil, nil)
	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestRouter_ListUpcomingRaces(t *testing.T) {
	t.Parallel()

	future := time.Now().UTC().AddDate(0, 1, 0)
	fixture := newRouterFixture(t, []race.Race{
		{ID: "race-1", Name: "Весенний забег", Date: future, Source: "RussiaRunning", IsActive: true},
	}, nil)

	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/races/upcoming", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0]["name"] != "Весенний забег" {
		t.Fatalf("unexpected upcoming races: %v", envelope.Data)
	}
}

func TestRouter_RegisterRunnerRequiresJobToken(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t, nil, nil)
	body := `{"telegram_id": 777, "full_name": "Иванов Пётр"}`

	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/runners/register-from-chat", strings.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without token status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/runners/register-from-chat", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("with token status = %d body = %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	runnerData, _ := data["runner"].(map[string]any)
	if runnerData == nil || runnerData["last_name"] != "Иванов" {
		t.Fatalf("unexpected runner payload: %v", data)
	}
}

func TestRouter_ClaimModerationFlow(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t, nil, nil)
	ctx := context.Background()

	claimant, err := fixture.runnerRepo.Create(ctx, runnerFixture("run-claimant"))
	if err != nil {
		t.Fatalf("seed claimant: %v", err)
	}
	holder, err := fixture.runnerRepo.Create(ctx, runnerFixture("run-holder"))
	if err != nil {
		t.Fatalf("seed holder: %v", err)
	}
	stored, _, err := fixture.resultRepo.Upsert(ctx, result.Result{
		ID: "res-1", RunnerID: holder.ID, RaceID: "race-1", Distance: "10 км",
	})
	if err != nil {
		t.Fatalf("seed result: %v", err)
	}

	submitBody := `{"result_id": "` + stored.ID + `", "runner_id": "` + claimant.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/claims", strings.NewReader(submitBody))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body = %s", rec.Code, rec.Body.String())
	}
	claimID, _ := decodeData(t, rec)["id"].(string)
	if claimID == "" {
		t.Fatal("submit response missing claim id")
	}

	// Approval needs a moderator bearer token, not the bot token.
	req = httptest.NewRequest(http.MethodPost, "/v1/claims/"+claimID+"/approve", nil)
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("approve without auth status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/claims/"+claimID+"/approve", nil)
	req.Header.Set("Authorization", "Bearer moderator-token")
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d body = %s", rec.Code, rec.Body.String())
	}
	approved := decodeData(t, rec)
	if approved["status"] != "approved" || approved["reviewed_by"] != "mod-1" {
		t.Fatalf("unexpected approved claim: %v", approved)
	}

	reassigned, found, err := fixture.resultRepo.GetByID(ctx, stored.ID)
	if err != nil || !found {
		t.Fatalf("reload result: found=%t err=%v", found, err)
	}
	if reassigned.RunnerID != claimant.ID {
		t.Fatalf("approval must reassign the result, still owned by %q", reassigned.RunnerID)
	}

	// A second review attempt conflicts.
	req = httptest.NewRequest(http.MethodPost, "/v1/claims/"+claimID+"/reject", nil)
	req.Header.Set("Authorization", "Bearer moderator-token")
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-review status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RaceSubmissionFlow(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t, nil, nil)

	body := `{"chat_id": 777, "name": "Ночной забег", "date": "2026-09-12", "location": "Казань"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/race-submissions", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d body = %s", rec.Code, rec.Body.String())
	}
	submitted := decodeData(t, rec)
	submissionID, _ := submitted["id"].(string)
	if submissionID == "" || submitted["status"] != "pending" {
		t.Fatalf("unexpected submission payload: %v", submitted)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/race-submissions/"+submissionID+"/approve", nil)
	req.Header.Set("Authorization", "Bearer moderator-token")
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d body = %s", rec.Code, rec.Body.String())
	}
	approved := decodeData(t, rec)
	raceID, _ := approved["created_race_id"].(string)
	if approved["status"] != "approved" || raceID == "" {
		t.Fatalf("unexpected approved submission: %v", approved)
	}

	// The published race is visible through the public calendar.
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/races/"+raceID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get published race status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_FeedbackFlow(t *testing.T) {
	t.Parallel()

	fixture := newRouterFixture(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", strings.NewReader(`{"chat_id": 777, "message": "Добавьте фильтр по региону"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit feedback status = %d body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/feedback?limit=5", nil)
	req.Header.Set("Authorization", "Bearer moderator-token")
	rec = httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list feedback status = %d body = %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := sonic.ConfigDefault.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0]["message"] != "Добавьте фильтр по региону" {
		t.Fatalf("unexpected feedback listing: %v", envelope.Data)
	}
}

func runnerFixture(id string) runner.Runner {
	return runner.Runner{
		ID:        id,
		LastName:  "Иванов",
		FirstName: "Пётр",
	}
}
