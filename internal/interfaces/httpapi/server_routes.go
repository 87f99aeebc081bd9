package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/races", handler.SearchRaces)
	mux.HandleFunc("GET /v1/races/upcoming", handler.ListUpcomingRaces)
	mux.HandleFunc("GET /v1/races/{raceID}", handler.GetRace)
	mux.HandleFunc("GET /v1/races/{raceID}/results", handler.ListRaceResults)
	mux.HandleFunc("GET /v1/runners/{runnerID}", handler.GetRunner)
	mux.HandleFunc("GET /v1/runners/{runnerID}/results", handler.ListRunnerResults)
	mux.HandleFunc("GET /v1/runners/{runnerID}/personal-bests", handler.ListRunnerPersonalBests)
	mux.HandleFunc("GET /v1/runners/{runnerID}/subscriptions", handler.ListRunnerSubscriptions)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	// Claim moderation requires a verified principal; the reviewer
	// identity on the stored claim comes from the token.
	mux.Handle("GET /v1/claims/pending", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingClaims)))
	mux.Handle("POST /v1/claims/{claimID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveClaim)))
	mux.Handle("POST /v1/claims/{claimID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectClaim)))
	mux.Handle("GET /v1/race-submissions/pending", RequireAuth(verifier, http.HandlerFunc(handler.ListPendingSubmissions)))
	mux.Handle("POST /v1/race-submissions/{submissionID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveSubmission)))
	mux.Handle("POST /v1/race-submissions/{submissionID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectSubmission)))
	mux.Handle("GET /v1/feedback", RequireAuth(verifier, http.HandlerFunc(handler.ListFeedback)))
}

// registerBotRoutes serves the chat bot backend. The bot authenticates
// with the shared internal token, not per-user bearer tokens.
func registerBotRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/claims", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SubmitClaim)))
	mux.Handle("POST /v1/runners/register-from-chat", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RegisterRunnerFromChat)))
	mux.Handle("POST /v1/subscriptions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.Subscribe)))
	mux.Handle("DELETE /v1/subscriptions/{runnerID}/{raceID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.Unsubscribe)))
	mux.Handle("POST /v1/race-submissions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SubmitRace)))
	mux.Handle("POST /v1/feedback", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SubmitFeedback)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/collect-events", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCollectEventsJob)))
	mux.Handle("POST /v1/internal/jobs/sync-protocols", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncProtocolsJob)))
	mux.Handle("POST /v1/internal/ingestion/protocols", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestProtocol)))
}
