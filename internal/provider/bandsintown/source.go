package bandsintown

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"concert_syncer/internal/domain"
	"concert_syncer/internal/normalize"
)

const SourceID = domain.SourceBandsintown

// Config holds Bandsintown adapter configuration.
type Config struct {
	BaseURL string
	AppID   string
	Timeout time.Duration
}

// Source fetches events from the Bandsintown artist events API.
//
// Bandsintown cannot discover events by location alone: the API is keyed
// by artist name. A request without artists therefore yields zero results
// rather than an error. Classical relevance comes from the curated artist
// list supplied by the caller, not from a provider-side filter.
type Source struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		appID:   cfg.AppID,
		logger:  logger.With("provider", SourceID),
	}
}

// Name returns the provider identifier.
func (s *Source) Name() string {
	return SourceID
}

// Fetch queries events for each requested artist. Limit caps the total
// number of events requested across artists: remaining artists are not
// queried once the cap is reached.
func (s *Source) Fetch(ctx context.Context, req domain.SyncRequest) ([]domain.Concert, error) {
	if len(req.Artists) == 0 {
		s.logger.Debug("no artists requested, skipping fetch")
		return nil, nil
	}
	if s.appID == "" {
		return nil, &domain.ProviderError{Provider: SourceID, Err: domain.ErrMissingCredential}
	}

	var concerts []domain.Concert
	seen := make(map[string]bool)
	for _, artist := range req.Artists {
		if req.Limit > 0 && len(concerts) >= req.Limit {
			break
		}

		events, err := s.fetchArtist(ctx, artist, req)
		if err != nil {
			return nil, err
		}

		concerts = append(concerts, s.transform(artist, events, seen)...)
	}

	return concerts, nil
}

func (s *Source) fetchArtist(ctx context.Context, artist string, req domain.SyncRequest) ([]Event, error) {
	params := url.Values{}
	params.Set("app_id", s.appID)
	if !req.DateFrom.IsZero() && !req.DateTo.IsZero() {
		params.Set("date", fmt.Sprintf("%s,%s",
			req.DateFrom.Format("2006-01-02"),
			req.DateTo.Format("2006-01-02"),
		))
	}

	reqURL := fmt.Sprintf("%s/artists/%s/events?%s", s.baseURL, url.PathEscape(artist), params.Encode())

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
			Err:        fmt.Errorf("unexpected status for artist %q", artist),
		}
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("decode response: %w", err)}
	}

	s.logger.Debug("fetched artist events", "artist", artist, "count", len(events))

	return events, nil
}

// transform maps raw events to canonical concerts. seen carries event ids
// already returned for an earlier artist in the same fetch: a co-billed
// event appears in every lineup member's feed and must yield one record,
// attributed to the first artist that returned it.
func (s *Source) transform(artist string, events []Event, seen map[string]bool) []domain.Concert {
	concerts := make([]domain.Concert, 0, len(events))

	for _, e := range events {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true

		dt, err := time.Parse("2006-01-02T15:04:05", e.Datetime)
		if err != nil {
			s.logger.Warn("dropping event without parseable datetime",
				"external_id", e.ID,
				"datetime", e.Datetime,
			)
			continue
		}

		venue := e.Venue.Name
		if venue == "" {
			venue = normalize.FallbackVenue
		}

		title := e.Title
		if title == "" {
			title = fmt.Sprintf("%s at %s", artist, venue)
		}

		externalID := normalize.ExternalEventID(SourceID, e.ID)

		var soloists *string
		if len(e.Lineup) > 0 {
			soloists = normalize.Optional(strings.Join(e.Lineup, ", "))
		}

		concerts = append(concerts, domain.Concert{
			Title:           title,
			Venue:           venue,
			Location:        normalize.JoinLocation(e.Venue.City, e.Venue.Region, e.Venue.Country),
			ConcertDate:     time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC),
			StartTime:       normalize.TimeOfDay(dt),
			Orchestra:       normalize.Optional(artist),
			Soloists:        soloists,
			Program:         normalize.Optional(e.Description),
			TicketURL:       e.URL,
			Tags:            normalize.SeedTags(),
			Source:          SourceID,
			ExternalEventID: &externalID,
		})
	}

	return concerts
}
