package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/race"
	"github.com/probegapp/probeg/internal/domain/result"
	"github.com/probegapp/probeg/internal/platform/cache"
	"github.com/probegapp/probeg/internal/platform/logging"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// RaceQueryService serves race listings. The upcoming listing is the
// hot path for the bot and sits behind a short TTL cache; search goes
// straight to the repository.
type RaceQueryService struct {
	raceRepo   race.Repository
	resultRepo result.Repository
	store      *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewRaceQueryService(raceRepo race.Repository, resultRepo result.Repository, store *cache.Store, logger *logging.Logger) *RaceQueryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RaceQueryService{
		raceRepo:   raceRepo,
		resultRepo: resultRepo,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

type RaceSearchInput struct {
	Query       string
	RaceType    string
	Location    string
	DateFrom    *time.Time
	DateTo      *time.Time
	HasProtocol bool
	Limit       int
	PageToken   string
}

type RaceSearchOutput struct {
	Races         []race.Race `json:"races"`
	Total         int         `json:"total"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// pageToken carries the filter alongside the offset so that a stale or
// foreign token cannot silently page through a different query.
type pageToken struct {
	Query       string     `json:"q,omitempty"`
	RaceType    string     `json:"type,omitempty"`
	Location    string     `json:"loc,omitempty"`
	DateFrom    *time.Time `json:"from,omitempty"`
	DateTo      *time.Time `json:"to,omitempty"`
	HasProtocol bool       `json:"proto,omitempty"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
}

func (s *RaceQueryService) Search(ctx context.Context, input RaceSearchInput) (RaceSearchOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceQueryService.Search")
	defer span.End()

	filter := race.SearchFilter{
		Query:       strings.TrimSpace(input.Query),
		RaceType:    strings.TrimSpace(input.RaceType),
		Location:    strings.TrimSpace(input.Location),
		DateFrom:    input.DateFrom,
		DateTo:      input.DateTo,
		HasProtocol: input.HasProtocol,
		Limit:       normalizeSearchLimit(input.Limit),
	}

	if token := strings.TrimSpace(input.PageToken); token != "" {
		decoded, err := decodePageToken(token)
		if err != nil {
			return RaceSearchOutput{}, fmt.Errorf("%w: malformed page token", ErrInvalidInput)
		}
		filter = race.SearchFilter{
			Query:       decoded.Query,
			RaceType:    decoded.RaceType,
			Location:    decoded.Location,
			DateFrom:    decoded.DateFrom,
			DateTo:      decoded.DateTo,
			HasProtocol: decoded.HasProtocol,
			Limit:       normalizeSearchLimit(decoded.Limit),
			Offset:      decoded.Offset,
		}
	}

	items, total, err := s.raceRepo.Search(ctx, filter)
	if err != nil {
		return RaceSearchOutput{}, fmt.Errorf("search races: %w", err)
	}

	out := RaceSearchOutput{Races: items, Total: total}
	nextOffset := filter.Offset + len(items)
	if nextOffset < total {
		token, err := encodePageToken(pageToken{
			Query:       filter.Query,
			RaceType:    filter.RaceType,
			Location:    filter.Location,
			DateFrom:    filter.DateFrom,
			DateTo:      filter.DateTo,
			HasProtocol: filter.HasProtocol,
			Limit:       filter.Limit,
			Offset:      nextOffset,
		})
		if err != nil {
			return RaceSearchOutput{}, fmt.Errorf("encode page token: %w", err)
		}
		out.NextPageToken = token
	}
	return out, nil
}

// ListUpcoming returns races dated today or later, via the TTL cache.
func (s *RaceQueryService) ListUpcoming(ctx context.Context, limit int) ([]race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceQueryService.ListUpcoming")
	defer span.End()

	limit = normalizeSearchLimit(limit)
	cacheKey := fmt.Sprintf("races:upcoming:%d", limit)
	if s.store != nil {
		if cached, ok := s.store.Get(ctx, cacheKey); ok {
			if items, ok := cached.([]race.Race); ok {
				return items, nil
			}
		}
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	items, err := s.raceRepo.ListUpcoming(ctx, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming races: %w", err)
	}
	if s.store != nil {
		s.store.Set(ctx, cacheKey, items)
	}
	return items, nil
}

func (s *RaceQueryService) GetByID(ctx context.Context, raceID string) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceQueryService.GetByID")
	defer span.End()

	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return race.Race{}, fmt.Errorf("%w: race_id is required", ErrInvalidInput)
	}
	item, found, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return race.Race{}, fmt.Errorf("get race: %w", err)
	}
	if !found {
		return race.Race{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}
	return item, nil
}

// Results lists every imported finish of one race.
func (s *RaceQueryService) Results(ctx context.Context, raceID string) ([]result.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceQueryService.Results")
	defer span.End()

	if _, err := s.GetByID(ctx, raceID); err != nil {
		return nil, err
	}
	items, err := s.resultRepo.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("list race results: %w", err)
	}
	return items, nil
}

func normalizeSearchLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func encodePageToken(token pageToken) (string, error) {
	raw, err := sonic.Marshal(token)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodePageToken(encoded string) (pageToken, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return pageToken{}, err
	}
	var token pageToken
	if err := sonic.Unmarshal(raw, &token); err != nil {
		return pageToken{}, err
	}
	if token.Offset < 0 {
		return pageToken{}, fmt.Errorf("negative offset")
	}
	return token, nil
}
