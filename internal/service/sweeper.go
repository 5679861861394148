package service

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper evicts provider-synced concerts whose date has aged past the
// retention window. It runs before each scheduled multi-provider sync;
// a failed sweep is best-effort cleanup and never blocks the sync.
type Sweeper struct {
	concerts ConcertStore
	logger   *slog.Logger
}

func NewSweeper(concerts ConcertStore, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		concerts: concerts,
		logger:   logger,
	}
}

// Sweep deletes concerts dated strictly before today minus retentionDays.
// Concert dates are stored at midnight UTC, so the cutoff is taken at
// midnight too; a concert exactly retentionDays old is kept no matter what
// time of day the sweep runs.
func (s *Sweeper) Sweep(ctx context.Context, retentionDays int) (int64, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, -retentionDays)

	deleted, err := s.concerts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("retention sweep completed",
		"retention_days", retentionDays,
		"cutoff", cutoff.Format("2006-01-02"),
		"deleted", deleted,
	)

	return deleted, nil
}
