package eventbrite

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

const SourceID = domain.SourceEventbrite

// classicalQuery is the keyword filter applied server-side. Eventbrite has
// no first-class classical-music category, so relevance is heuristic.
const classicalQuery = "classical music"

// Config holds Eventbrite adapter configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Source fetches events from the Eventbrite search API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		logger:  logger.With("provider", SourceID),
	}
}

// Name returns the provider identifier.
func (s *Source) Name() string {
	return SourceID
}

// Fetch searches Eventbrite for classical events in the request window and
// maps them into canonical concerts.
func (s *Source) Fetch(ctx context.Context, req domain.SyncRequest) ([]domain.Concert, error) {
	if s.token == "" {
		return nil, &domain.ProviderError{Provider: SourceID, Err: domain.ErrMissingCredential}
	}

	params := url.Values{}
	params.Set("q", classicalQuery)
	params.Set("expand", "venue")
	if req.Location != "" {
		params.Set("location.address", req.Location)
	}
	if !req.DateFrom.IsZero() {
		params.Set("start_date.range_start", req.DateFrom.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if !req.DateTo.IsZero() {
		params.Set("start_date.range_end", req.DateTo.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if req.Limit > 0 {
		params.Set("page_size", strconv.Itoa(req.Limit))
	}

	reqURL := fmt.Sprintf("%s/v3/events/search/?%s", s.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.token)

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

	s.logger.Debug("fetched events", "count", len(apiResp.Events))

	return s.transform(apiResp.Events), nil
}

func (s *Source) transform(events []Event) []domain.Concert {
	concerts := make([]domain.Concert, 0, len(events))

	for _, e := range events {
		start, err := time.Parse("2006-01-02T15:04:05", e.Start.Local)
		if err != nil {
			s.logger.Warn("dropping event without parseable start",
				"external_id", e.ID,
				"start", e.Start.Local,
			)
			continue
		}

		venue := normalize.FallbackVenue
		location := normalize.JoinLocation()
		if e.Venue != nil {
			if e.Venue.Name != "" {
				venue = e.Venue.Name
			}
			location = normalize.JoinLocation(e.Venue.Address.City, e.Venue.Address.Region, e.Venue.Address.Country)
		}

		var price *string
		if e.IsFree {
			free := "Free"
			price = &free
		}

		externalID := normalize.ExternalEventID(SourceID, e.ID)

		concerts = append(concerts, domain.Concert{
			Title:           e.Name.Text,
			Venue:           venue,
			Location:        location,
			ConcertDate:     time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
			StartTime:       normalize.TimeOfDay(start),
			Program:         normalize.Optional(e.Description.Text),
			TicketURL:       e.URL,
			PriceRange:      price,
			Tags:            normalize.SeedTags("classical"),
			Source:          SourceID,
			ExternalEventID: &externalID,
		})
	}

	return concerts
}
