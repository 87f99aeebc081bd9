package russiarunning

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/probegapp/probeg/internal/domain/calendar"
	"github.com/probegapp/probeg/internal/platform/logging"
	"github.com/probegapp/probeg/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://russiarunning.com"
	eventsListPath = "/api/events/list/ru"
	sourceName     = "RussiaRunning"
	defaultTake    = 500
)

var errTransient = crerr.New("russiarunning transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Take           int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls the upcoming-event listing from the RussiaRunning JSON
// API. It implements calendar.Source.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	take           int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	take := cfg.Take
	if take <= 0 {
		take = defaultTake
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		take:           take,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Name() string {
	return sourceName
}

type eventsRequest struct {
	Take     int            `json:"Take"`
	DateFrom string         `json:"DateFrom"`
	Filters  map[string]any `json:"Filters"`
}

type eventsEnvelope struct {
	Items []eventItem `json:"Items"`
}

type eventItem struct {
	Name      string         `json:"Name"`
	StartDate string         `json:"StartDate"`
	City      string         `json:"City"`
	Location  string         `json:"Location"`
	URL       string         `json:"Url"`
	TypeName  string         `json:"TypeName"`
	Distances []distanceItem `json:"Distances"`
}

type distanceItem struct {
	Name          string  `json:"Name"`
	Length        float64 `json:"Length"`
	ElevationGain int     `json:"ElevationGain"`
}

// FetchUpcoming posts the listing query and converts the response items
// into raw events. Concurrent calls collapse onto one in-flight request.
func (c *Client) FetchUpcoming(ctx context.Context) ([]calendar.RawEvent, error) {
	out, err, _ := c.flight.Do("events-list", func() (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				return nil, crerr.Wrap(err, "russiarunning circuit open")
			}
		}

		var envelope eventsEnvelope
		err := c.postJSON(ctx, eventsListPath, eventsRequest{Take: c.take, Filters: map[string]any{}}, &envelope)
		if c.circuitEnabled {
			if err != nil && crerr.Is(err, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		if err != nil {
			return nil, err
		}
		return envelope, nil
	})
	if err != nil {
		return nil, err
	}

	envelope, ok := out.(eventsEnvelope)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	events := make([]calendar.RawEvent, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		events = append(events, c.toRawEvent(item))
	}
	c.logger.InfoContext(ctx, "russiarunning listing fetched", "events", len(events))
	return events, nil
}

func (c *Client) toRawEvent(item eventItem) calendar.RawEvent {
	distances := make([]calendar.Distance, 0, len(item.Distances))
	for _, distance := range item.Distances {
		distances = append(distances, calendar.Distance{
			Name:      distance.Name,
			Elevation: distance.ElevationGain,
		})
	}

	location := item.City
	if location == "" {
		location = item.Location
	}

	return calendar.RawEvent{
		Name:       item.Name,
		Date:       item.StartDate,
		Location:   location,
		RaceType:   classifyRaceType(item.TypeName),
		Distances:  distances,
		WebsiteURL: c.baseURL + item.URL,
	}
}

func classifyRaceType(typeName string) string {
	lowered := strings.ToLower(typeName)
	switch {
	case strings.Contains(lowered, "трейл"), strings.Contains(lowered, "trail"):
		return "трейл"
	case strings.Contains(lowered, "кросс"):
		return "кросс"
	case strings.Contains(lowered, "стадион"):
		return "стадион"
	default:
		return "шоссе"
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, target any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal request payload")
	}
	fullURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return crerr.Wrap(err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				if err := sonic.Unmarshal(raw, target); err != nil {
					return crerr.Wrap(err, "decode listing payload")
				}
				return nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errTransient, resp.StatusCode)
			default:
				return fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "russiarunning request failed", "url", fullURL, "error", lastErr)
	return lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
