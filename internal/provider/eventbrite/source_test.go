package eventbrite

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concert_syncer/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

const searchResponse = `{
	"pagination": {"object_count": 2, "page_size": 100, "has_more_items": false},
	"events": [
		{
			"id": "778899",
			"name": {"text": "Candlelight: Vivaldi's Four Seasons"},
			"description": {"text": "String quartet performs Vivaldi by candlelight"},
			"url": "https://eventbrite.com/e/778899",
			"start": {"timezone": "America/New_York", "local": "2024-03-20T19:00:00", "utc": "2024-03-20T23:00:00Z"},
			"is_free": false,
			"venue": {"name": "St. Ann's Church", "address": {"city": "Brooklyn", "region": "NY", "country": "US"}}
		},
		{
			"id": "778900",
			"name": {"text": "Free Community Recital"},
			"url": "https://eventbrite.com/e/778900",
			"start": {"local": "2024-03-21T00:00:00"},
			"is_free": true
		}
	]
}`

func TestFetch_MapsSearchResults(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"q":                      r.URL.Query().Get("q"),
			"location.address":       r.URL.Query().Get("location.address"),
			"start_date.range_start": r.URL.Query().Get("start_date.range_start"),
			"start_date.range_end":   r.URL.Query().Get("start_date.range_end"),
			"page_size":              r.URL.Query().Get("page_size"),
			"expand":                 r.URL.Query().Get("expand"),
		}
		_, _ = w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, Token: "tok", Timeout: time.Second}, testLogger())

	concerts, err := src.Fetch(context.Background(), domain.SyncRequest{
		Location: "New York",
		DateFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Limit:    100,
	})
	require.NoError(t, err)
	require.Len(t, concerts, 2)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "classical music", gotQuery["q"])
	assert.Equal(t, "New York", gotQuery["location.address"])
	assert.Equal(t, "2024-03-01T00:00:00Z", gotQuery["start_date.range_start"])
	assert.Equal(t, "2024-03-31T00:00:00Z", gotQuery["start_date.range_end"])
	assert.Equal(t, "100", gotQuery["page_size"])
	assert.Equal(t, "venue", gotQuery["expand"])

	first := concerts[0]
	assert.Equal(t, "Candlelight: Vivaldi's Four Seasons", first.Title)
	assert.Equal(t, "St. Ann's Church", first.Venue)
	assert.Equal(t, "Brooklyn, NY, US", first.Location)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), first.ConcertDate)
	require.NotNil(t, first.StartTime)
	assert.Equal(t, "19:00", *first.StartTime)
	require.NotNil(t, first.Program)
	assert.Nil(t, first.PriceRange)
	assert.Equal(t, []string{"concert", "live-music", "classical"}, first.Tags)
	require.NotNil(t, first.ExternalEventID)
	assert.Equal(t, "eventbrite_778899", *first.ExternalEventID)
	assert.Equal(t, domain.SourceEventbrite, first.Source)
}

func TestFetch_FreeEventAndMissingVenue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, Token: "tok", Timeout: time.Second}, testLogger())

	concerts, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)
	require.Len(t, concerts, 2)

	free := concerts[1]
	assert.Equal(t, "TBA", free.Venue)
	assert.Equal(t, "TBA", free.Location)
	assert.Nil(t, free.StartTime)
	require.NotNil(t, free.PriceRange)
	assert.Equal(t, "Free", *free.PriceRange)
}

func TestFetch_MissingToken(t *testing.T) {
	src := New(Config{BaseURL: "http://unused", Timeout: time.Second}, testLogger())

	_, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, Token: "bad", Timeout: time.Second}, testLogger())

	_, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
}
