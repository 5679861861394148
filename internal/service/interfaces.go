package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"concert_syncer/internal/domain"
)

// Provider is one external concert source. Fetch returns canonical
// concerts; provider-specific shapes never leak past the adapter.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, req domain.SyncRequest) ([]domain.Concert, error)
}

type ConcertStore interface {
	UpsertBatch(ctx context.Context, concerts []domain.Concert) (int, error)
	GetExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SyncStateStore interface {
	Get(ctx context.Context, provider string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, concert *domain.Concert, isNew bool) error
	Close() error
}

// Tagger is the AI tag-generation boundary. Best-effort only: a failure
// falls back to static defaults and never fails a sync.
type Tagger interface {
	GenerateTags(ctx context.Context, description string) ([]string, error)
}
