package bachtrack

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

const listingsResponse = `{
	"total": 2,
	"listings": [
		{
			"id": "12345",
			"title": "Beethoven Symphony No. 9",
			"date": "2024-03-15",
			"time": "19:30",
			"venue": {"name": "Musikverein", "city": "Vienna", "country": "Austria"},
			"performers": {
				"orchestra": "Vienna Philharmonic",
				"conductor": "Riccardo Muti",
				"soloists": ["Anna Netrebko", "Jonas Kaufmann"]
			},
			"programme": "Symphony No. 9 in D minor, Op. 125",
			"url": "https://bachtrack.com/listing/12345",
			"price": "EUR 45-180",
			"genres": ["Orchestral", "Choral"]
		},
		{
			"id": "12346",
			"title": "Chamber Recital",
			"date": "2024-03-16",
			"url": "https://bachtrack.com/listing/12346"
		}
	]
}`

func TestFetch_MapsListings(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"apikey":    r.URL.Query().Get("apikey"),
			"location":  r.URL.Query().Get("location"),
			"date_from": r.URL.Query().Get("date_from"),
			"date_to":   r.URL.Query().Get("date_to"),
			"limit":     r.URL.Query().Get("limit"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingsResponse))
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: time.Second}, testLogger())

	concerts, err := src.Fetch(context.Background(), domain.SyncRequest{
		Location: "Vienna",
		DateFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Limit:    50,
	})
	require.NoError(t, err)
	require.Len(t, concerts, 2)

	assert.Equal(t, "test-key", gotQuery["apikey"])
	assert.Equal(t, "Vienna", gotQuery["location"])
	assert.Equal(t, "2024-03-01", gotQuery["date_from"])
	assert.Equal(t, "2024-03-31", gotQuery["date_to"])
	assert.Equal(t, "50", gotQuery["limit"])

	first := concerts[0]
	assert.Equal(t, "Beethoven Symphony No. 9", first.Title)
	assert.Equal(t, "Musikverein", first.Venue)
	assert.Equal(t, "Vienna, Austria", first.Location)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), first.ConcertDate)
	require.NotNil(t, first.StartTime)
	assert.Equal(t, "19:30", *first.StartTime)
	require.NotNil(t, first.Orchestra)
	assert.Equal(t, "Vienna Philharmonic", *first.Orchestra)
	require.NotNil(t, first.Conductor)
	assert.Equal(t, "Riccardo Muti", *first.Conductor)
	require.NotNil(t, first.Soloists)
	assert.Equal(t, "Anna Netrebko, Jonas Kaufmann", *first.Soloists)
	require.NotNil(t, first.PriceRange)
	assert.Equal(t, "EUR 45-180", *first.PriceRange)
	assert.Equal(t, []string{"concert", "live-music", "orchestral", "choral"}, first.Tags)
	assert.Equal(t, domain.SourceBachtrack, first.Source)
	require.NotNil(t, first.ExternalEventID)
	assert.Equal(t, "bachtrack_12345", *first.ExternalEventID)
}

func TestFetch_MissingVenueAndPerformers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingsResponse))
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second}, testLogger())

	concerts, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)
	require.Len(t, concerts, 2)

	bare := concerts[1]
	assert.Equal(t, "TBA", bare.Venue)
	assert.Equal(t, "TBA", bare.Location)
	assert.Nil(t, bare.StartTime)
	assert.Nil(t, bare.Orchestra)
	assert.Nil(t, bare.Conductor)
	assert.Nil(t, bare.Soloists)
	assert.Nil(t, bare.Program)
	assert.Nil(t, bare.PriceRange)
	assert.Equal(t, []string{"concert", "live-music"}, bare.Tags)
}

func TestFetch_DropsUnparseableDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"listings": [{"id": "1", "title": "No Date"}]}`))
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second}, testLogger())

	concerts, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)
	assert.Empty(t, concerts)
}

func TestFetch_MissingAPIKey(t *testing.T) {
	src := New(Config{BaseURL: "http://unused", Timeout: time.Second}, testLogger())

	_, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, domain.SourceBachtrack, provErr.Provider)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	src := New(Config{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second}, testLogger())

	_, err := src.Fetch(context.Background(), domain.SyncRequest{})
	require.Error(t, err)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusForbidden, provErr.StatusCode)
}
