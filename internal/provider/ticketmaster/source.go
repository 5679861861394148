package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"concert_syncer/internal/domain"
	"concert_syncer/internal/normalize"
)

const SourceID = domain.SourceTicketMaster

// classification narrows the Discovery API to classical events; the API
// treats it as a keyword match over genre names.
const classification = "classical"

// Config holds TicketMaster adapter configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Source fetches events from the TicketMaster Discovery API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger.With("provider", SourceID),
	}
}

// Name returns the provider identifier.
func (s *Source) Name() string {
	return SourceID
}

// Fetch queries the Discovery API for classical events matching the
// request and maps them into canonical concerts.
func (s *Source) Fetch(ctx context.Context, req domain.SyncRequest) ([]domain.Concert, error) {
	if s.apiKey == "" {
		return nil, &domain.ProviderError{Provider: SourceID, Err: domain.ErrMissingCredential}
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("classificationName", classification)
	if req.Location != "" {
		params.Set("city", req.Location)
	}
	if !req.DateFrom.IsZero() {
		params.Set("startDateTime", req.DateFrom.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if !req.DateTo.IsZero() {
		params.Set("endDateTime", req.DateTo.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if req.Limit > 0 {
		params.Set("size", strconv.Itoa(req.Limit))
	}

	reqURL := fmt.Sprintf("%s/discovery/v2/events.json?%s", s.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Provider:   SourceID,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status"),
		}
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("decode response: %w", err)}
	}

	if apiResp.Embedded == nil {
		s.logger.Debug("no events in response")
		return nil, nil
	}

	s.logger.Debug("fetched events", "count", len(apiResp.Embedded.Events))

	return s.transform(apiResp.Embedded.Events), nil
}

func (s *Source) transform(events []Event) []domain.Concert {
	concerts := make([]domain.Concert, 0, len(events))

	for _, e := range events {
		date, err := time.Parse("2006-01-02", e.Dates.Start.LocalDate)
		if err != nil {
			s.logger.Warn("dropping event without parseable date",
				"external_id", e.ID,
				"date", e.Dates.Start.LocalDate,
			)
			continue
		}

		venue := normalize.FallbackVenue
		location := normalize.JoinLocation()
		if e.Embedded != nil && len(e.Embedded.Venues) > 0 {
			v := e.Embedded.Venues[0]
			if v.Name != "" {
				venue = v.Name
			}
			location = normalize.JoinLocation(v.City.Name, v.State.Name, v.Country.Name)
		}

		var startTime *string
		if len(e.Dates.Start.LocalTime) >= 5 {
			startTime = normalize.Optional(e.Dates.Start.LocalTime[:5])
		}

		var genres []string
		for _, c := range e.Classifications {
			if c.Genre != nil {
				genres = append(genres, c.Genre.Name)
			}
			if c.SubGenre != nil {
				genres = append(genres, c.SubGenre.Name)
			}
		}

		externalID := normalize.ExternalEventID(SourceID, e.ID)

		concerts = append(concerts, domain.Concert{
			Title:           e.Name,
			Venue:           venue,
			Location:        location,
			ConcertDate:     date,
			StartTime:       startTime,
			Program:         normalize.Optional(e.Info),
			TicketURL:       e.URL,
			PriceRange:      formatPriceRange(e.PriceRanges),
			Tags:            normalize.SeedTags(genres...),
			Source:          SourceID,
			ExternalEventID: &externalID,
		})
	}

	return concerts
}

// formatPriceRange renders the first price range as a display string.
// Formats are provider-specific and deliberately not normalized.
func formatPriceRange(ranges []PriceRange) *string {
	if len(ranges) == 0 {
		return nil
	}
	r := ranges[0]
	s := fmt.Sprintf("%.2f - %.2f %s", r.Min, r.Max, r.Currency)
	return &s
}
