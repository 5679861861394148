package bachtrack

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"concert_syncer/internal/domain"
	"concert_syncer/internal/normalize"
)

const SourceID = domain.SourceBachtrack

// Config holds Bachtrack adapter configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Source fetches classical concert listings from the Bachtrack API.
// Bachtrack lists classical music exclusively, so no keyword filter is
// needed on the query.
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

// Fetch queries Bachtrack listings for the request window and maps them
// into canonical concerts.
func (s *Source) Fetch(ctx context.Context, req domain.SyncRequest) ([]domain.Concert, error) {
	if s.apiKey == "" {
		return nil, &domain.ProviderError{Provider: SourceID, Err: domain.ErrMissingCredential}
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	if req.Location != "" {
		params.Set("location", req.Location)
	}
	if !req.DateFrom.IsZero() {
		params.Set("date_from", req.DateFrom.Format("2006-01-02"))
	}
	if !req.DateTo.IsZero() {
		params.Set("date_to", req.DateTo.Format("2006-01-02"))
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	reqURL := fmt.Sprintf("%s/listings.json?%s", s.baseURL, params.Encode())

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

	s.logger.Debug("fetched listings", "count", len(apiResp.Listings))

	return s.transform(apiResp.Listings), nil
}

func (s *Source) transform(listings []Listing) []domain.Concert {
	concerts := make([]domain.Concert, 0, len(listings))

	for _, l := range listings {
		date, err := time.Parse("2006-01-02", l.Date)
		if err != nil {
			s.logger.Warn("dropping listing without parseable date",
				"external_id", l.ID,
				"date", l.Date,
			)
			continue
		}

		venue := normalize.FallbackVenue
		location := normalize.JoinLocation()
		if l.Venue != nil {
			if l.Venue.Name != "" {
				venue = l.Venue.Name
			}
			location = normalize.JoinLocation(l.Venue.City, l.Venue.Country)
		}

		externalID := normalize.ExternalEventID(SourceID, l.ID)

		var soloists *string
		if len(l.Performers.Soloists) > 0 {
			soloists = normalize.Optional(strings.Join(l.Performers.Soloists, ", "))
		}

		concerts = append(concerts, domain.Concert{
			Title:           l.Title,
			Venue:           venue,
			Location:        location,
			ConcertDate:     date,
			StartTime:       normalize.Optional(l.Time),
			Orchestra:       normalize.Optional(l.Performers.Orchestra),
			Conductor:       normalize.Optional(l.Performers.Conductor),
			Soloists:        soloists,
			Program:         normalize.Optional(l.Programme),
			TicketURL:       l.URL,
			PriceRange:      normalize.Optional(l.Price),
			Tags:            normalize.SeedTags(l.Genres...),
			Source:          SourceID,
			ExternalEventID: &externalID,
		})
	}

	return concerts
}
