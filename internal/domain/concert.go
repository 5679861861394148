package domain

import "time"

// Provider source identifiers. "user" marks manually created concerts,
// which are never touched by the sync pipeline.
const (
	SourceBachtrack    = "bachtrack"
	SourceBandsintown  = "bandsintown"
	SourceEventbrite   = "eventbrite"
	SourceTicketMaster = "ticketmaster"
	SourceUser         = "user"
)

type Concert struct {
	ID              int64
	Title           string
	Venue           string
	Location        string // free-text city/region/country, "TBA" when unknown
	ConcertDate     time.Time
	StartTime       *string // "HH:MM", nil when the provider gave no time
	Orchestra       *string
	Conductor       *string
	Soloists        *string // comma-joined
	Program         *string
	TicketURL       string
	PriceRange      *string // display string, format varies per provider
	Tags            []string
	Source          string
	ExternalEventID *string // "{source}_{nativeID}", nil for user concerts
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SyncState struct {
	ID           int64     `db:"id"`
	Provider     string    `db:"provider"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	TotalSynced  int64     `db:"total_synced"`
}
