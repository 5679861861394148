package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"concert_syncer/internal/domain"
)

type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

func (s *SyncStateStore) Get(ctx context.Context, provider string) (*domain.SyncState, error) {
	var state domain.SyncState
	query := `
		SELECT id, provider, last_synced_at, total_synced
		FROM sync_state
		WHERE provider = $1`

	err := s.db.GetContext(ctx, &state, query, provider)
	if err == sql.ErrNoRows {
		// Return empty state for providers that have never synced
		return &domain.SyncState{
			Provider:     provider,
			LastSyncedAt: time.Time{},
			TotalSynced:  0,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SyncStateStore) Update(ctx context.Context, state *domain.SyncState) error {
	query := `
		INSERT INTO sync_state (provider, last_synced_at, total_synced)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			total_synced = EXCLUDED.total_synced`

	_, err := s.db.ExecContext(ctx, query,
		state.Provider,
		state.LastSyncedAt,
		state.TotalSynced,
	)
	return err
}
