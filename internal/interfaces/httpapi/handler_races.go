package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/usecase"
)

type raceDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Date        string            `json:"date"`
	Location    string            `json:"location,omitempty"`
	Organizer   string            `json:"organizer,omitempty"`
	RaceType    string            `json:"race_type,omitempty"`
	Distances   []raceDistanceDTO `json:"distances,omitempty"`
	WebsiteURL  string            `json:"website_url,omitempty"`
	ProtocolURL string            `json:"protocol_url,omitempty"`
	Source      string            `json:"source,omitempty"`
}

type raceDistanceDTO struct {
	Name      string `json:"name"`
	Elevation int    `json:"elevation,omitempty"`
}

type raceSearchDTO struct {
	Races         []raceDTO `json:"races"`
	Total         int       `json:"total"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

type resultDTO struct {
	ID             string `json:"id"`
	RunnerID       string `json:"runner_id"`
	RaceID         string `json:"race_id"`
	Distance       string `json:"distance"`
	FinishSeconds  *int   `json:"finish_seconds"`
	FinishDisplay  string `json:"finish_display,omitempty"`
	Place          *int   `json:"place"`
	GenderPlace    *int   `json:"gender_place,omitempty"`
	GroupPlace     *int   `json:"group_place,omitempty"`
	TotalFinishers *int   `json:"total_finishers,omitempty"`
	AgeGroup       string `json:"age_group,omitempty"`
}

func raceToDTO(ctx context.Context, item race.Race) raceDTO {
	_ = ctx

	distances := make([]raceDistanceDTO, 0, len(item.Distances))
	for _, d := range item.Distances {
		distances = append(distances, raceDistanceDTO{Name: d.Name, Elevation: d.Elevation})
	}
	return raceDTO{
		ID:          item.ID,
		Name:        item.Name,
		Date:        item.Date.UTC().Format("2006-01-02"),
		Location:    item.Location,
		Organizer:   item.Organizer,
		RaceType:    item.RaceType,
		Distances:   distances,
		WebsiteURL:  item.WebsiteURL,
		ProtocolURL: item.ProtocolURL,
		Source:      item.Source,
	}
}

func resultToDTO(ctx context.Context, item result.Result) resultDTO {
	_ = ctx

	return resultDTO{
		ID:             item.ID,
		RunnerID:       item.RunnerID,
		RaceID:         item.RaceID,
		Distance:       item.Distance,
		FinishSeconds:  item.FinishSeconds,
		FinishDisplay:  item.FinishDisplay,
		Place:          item.Place,
		GenderPlace:    item.GenderPlace,
		GroupPlace:     item.GroupPlace,
		TotalFinishers: item.TotalFinishers,
		AgeGroup:       item.AgeGroup,
	}
}

func (h *Handler) SearchRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchRaces")
	defer span.End()

	query := r.URL.Query()
	input := usecase.RaceSearchInput{
		Query:     strings.TrimSpace(query.Get("q")),
		RaceType:  strings.TrimSpace(query.Get("type")),
		Location:  strings.TrimSpace(query.Get("location")),
		PageToken: strings.TrimSpace(query.Get("page_token")),
	}

	if raw := strings.TrimSpace(query.Get("date_from")); raw != "" {
		parsed, err := parseQueryDate(raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		input.DateFrom = &parsed
	}
	if raw := strings.TrimSpace(query.Get("date_to")); raw != "" {
		parsed, err := parseQueryDate(raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		input.DateTo = &parsed
	}
	if raw := strings.TrimSpace(query.Get("has_protocol")); raw != "" {
		input.HasProtocol = raw == "true" || raw == "1"
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		input.Limit = limit
	}

	out, err := h.raceQuery.Search(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "search races failed", "query", input.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]raceDTO, 0, len(out.Races))
	for _, item := range out.Races {
		items = append(items, raceToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, raceSearchDTO{
		Races:         items,
		Total:         out.Total,
		NextPageToken: out.NextPageToken,
	})
}

func (h *Handler) ListUpcomingRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingRaces")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	races, err := h.raceQuery.ListUpcoming(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming races failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]raceDTO, 0, len(races))
	for _, item := range races {
		items = append(items, raceToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	item, err := h.raceQuery.GetByID(ctx, raceID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(ctx, item))
}

func (h *Handler) ListRaceResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaceResults")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	results, err := h.raceQuery.Results(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "list race results failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]resultDTO, 0, len(results))
	for _, item := range results {
		items = append(items, resultToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseQueryDate(raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dates must use YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	return parsed.UTC(), nil
}
