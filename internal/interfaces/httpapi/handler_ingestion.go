package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/probegapp/probeg/internal/domain/protocol"
	"github.com/probegapp/probeg/internal/usecase"
)

type ingestProtocolRequest struct {
	RaceName        string            `json:"race_name" validate:"required"`
	RaceDate        string            `json:"race_date" validate:"required"`
	Location        string            `json:"location,omitempty"`
	Organizer       string            `json:"organizer,omitempty"`
	RaceType        string            `json:"race_type,omitempty"`
	WebsiteURL      string            `json:"website_url,omitempty"`
	ProtocolURL     string            `json:"protocol_url,omitempty"`
	Source          string            `json:"source,omitempty"`
	DefaultDistance string            `json:"default_distance,omitempty"`
	Rows            []protocol.RawRow `json:"rows" validate:"required,min=1"`
}

// IngestProtocol accepts already-extracted protocol rows and runs them
// through the import pipeline. Used by the scheduler callback and by
// manual backfills.
func (h *Handler) IngestProtocol(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestProtocol")
	defer span.End()

	var request ingestProtocolRequest
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

	raceDate, err := time.Parse("2006-01-02", strings.TrimSpace(request.RaceDate))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: race_date must use YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	stats, err := h.importer.ImportProtocol(ctx, usecase.ImportInput{
		RaceName:        request.RaceName,
		RaceDate:        raceDate.UTC(),
		Location:        request.Location,
		Organizer:       request.Organizer,
		RaceType:        request.RaceType,
		WebsiteURL:      request.WebsiteURL,
		ProtocolURL:     request.ProtocolURL,
		Source:          request.Source,
		DefaultDistance: request.DefaultDistance,
		Rows:            request.Rows,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "protocol ingestion failed",
			"race_name", request.RaceName, "rows", len(request.Rows), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}
