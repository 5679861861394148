package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"concert_syncer/internal/config"
	"concert_syncer/internal/domain"
	"concert_syncer/internal/normalize"
)

// fallbackTags are applied when AI tag generation fails.
var fallbackTags = []string{"Classical", "Live Performance"}

// Orchestrator runs one or more provider adapters for a sync request,
// persists their normalized output and reports a single aggregated
// outcome. One flaky provider never blocks the others.
type Orchestrator struct {
	providers []Provider
	byName    map[string]Provider
	concerts  ConcertStore
	syncState SyncStateStore
	txManager TransactionManager
	publisher Publisher // optional
	tagger    Tagger    // optional
	sweeper   *Sweeper
	logger    *slog.Logger
	config    config.SyncConfig
}

func NewOrchestrator(
	providers []Provider,
	concerts ConcertStore,
	syncState SyncStateStore,
	txManager TransactionManager,
	publisher Publisher,
	tagger Tagger,
	sweeper *Sweeper,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *Orchestrator {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Orchestrator{
		providers: providers,
		byName:    byName,
		concerts:  concerts,
		syncState: syncState,
		txManager: txManager,
		publisher: publisher,
		tagger:    tagger,
		sweeper:   sweeper,
		logger:    logger,
		config:    cfg,
	}
}

// RunSync executes each requested provider independently and aggregates
// the outcome. Success is false only when every provider failed; partial
// failure still reports success so one broken integration does not block
// the rest.
func (o *Orchestrator) RunSync(ctx context.Context, providers []Provider, req domain.SyncRequest) *domain.SyncResult {
	startTime := time.Now()

	result := &domain.SyncResult{}
	var failed []string

	for _, p := range providers {
		count, err := o.syncProvider(ctx, p, req)
		result.Providers = append(result.Providers, domain.ProviderResult{
			Provider: p.Name(),
			Synced:   count,
			Err:      err,
		})
		if err != nil {
			o.logger.Error("provider sync failed", "provider", p.Name(), "error", err)
			failed = append(failed, p.Name())
			continue
		}
		result.SyncedCount += count
	}

	result.Success = len(failed) < len(providers) || len(providers) == 0
	result.Duration = time.Since(startTime)
	result.Message = o.buildMessage(result, failed, len(providers))

	o.logger.Info("sync run completed",
		"providers", len(providers),
		"failed", len(failed),
		"synced", result.SyncedCount,
		"duration", result.Duration,
	)

	return result
}

func (o *Orchestrator) buildMessage(result *domain.SyncResult, failed []string, requested int) string {
	if requested > 0 && len(failed) == requested {
		return "sync failed for all providers, check configuration"
	}
	msg := fmt.Sprintf("synced %d concerts", result.SyncedCount)
	if len(failed) > 0 {
		msg += "; failed providers: " + strings.Join(failed, ", ")
	}
	return msg
}

func (o *Orchestrator) syncProvider(ctx context.Context, p Provider, req domain.SyncRequest) (int, error) {
	if req.Limit <= 0 {
		req.Limit = defaultLimit(p.Name())
	}

	o.logger.Info("starting provider sync",
		"provider", p.Name(),
		"location", req.Location,
		"limit", req.Limit,
	)

	concerts, err := p.Fetch(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("fetch concerts: %w", err)
	}

	concerts = o.validate(p.Name(), concerts)
	o.enrichTags(ctx, concerts)

	if len(concerts) == 0 {
		if err := o.updateSyncState(ctx, p.Name(), 0); err != nil {
			o.logger.Warn("update sync state failed", "provider", p.Name(), "error", err)
		}
		return 0, nil
	}

	ids := make([]string, len(concerts))
	for i := range concerts {
		ids[i] = *concerts[i].ExternalEventID
	}
	existing, err := o.concerts.GetExistingExternalIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("check existing concerts: %w", err)
	}

	var count int
	err = o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		count, err = o.concerts.UpsertBatch(txCtx, concerts)
		if err != nil {
			return fmt.Errorf("upsert concerts: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if o.publisher != nil {
		for i := range concerts {
			c := &concerts[i]
			isNew := !existing[*c.ExternalEventID]
			if err := o.publisher.Publish(ctx, c, isNew); err != nil {
				o.logger.Warn("publish failed",
					"provider", p.Name(),
					"external_event_id", *c.ExternalEventID,
					"error", err,
				)
			}
		}
	}

	if err := o.updateSyncState(ctx, p.Name(), count); err != nil {
		o.logger.Warn("update sync state failed", "provider", p.Name(), "error", err)
	}

	return count, nil
}

// validate drops records the upsert path cannot handle: records without a
// concert date are unrecoverable, records without an external id (or
// user-authored ones) must never reach the dedup path.
func (o *Orchestrator) validate(provider string, concerts []domain.Concert) []domain.Concert {
	kept := make([]domain.Concert, 0, len(concerts))
	for _, c := range concerts {
		switch {
		case c.ConcertDate.IsZero():
			o.logger.Warn("dropping concert", "provider", provider, "reason", domain.ErrMissingDate)
		case c.ExternalEventID == nil || *c.ExternalEventID == "":
			o.logger.Warn("dropping concert", "provider", provider, "reason", domain.ErrMissingExternalID)
		case c.Source == domain.SourceUser:
			o.logger.Warn("dropping user-authored concert from sync batch", "provider", provider)
		default:
			kept = append(kept, c)
		}
	}
	return kept
}

// enrichTags asks the tagger for labels derived from the program text.
// On failure the static fallback labels are appended instead; the seeded
// defaults always survive.
func (o *Orchestrator) enrichTags(ctx context.Context, concerts []domain.Concert) {
	if o.tagger == nil {
		return
	}
	for i := range concerts {
		c := &concerts[i]
		if c.Program == nil {
			continue
		}
		generated, err := o.tagger.GenerateTags(ctx, *c.Program)
		if err != nil {
			o.logger.Debug("tag generation failed, using fallback", "error", err)
			generated = fallbackTags
		}
		c.Tags = normalize.SeedTags(append(c.Tags, generated...)...)
	}
}

func (o *Orchestrator) updateSyncState(ctx context.Context, provider string, count int) error {
	state, err := o.syncState.Get(ctx, provider)
	if err != nil {
		return err
	}
	state.Provider = provider
	state.LastSyncedAt = time.Now()
	state.TotalSynced += int64(count)
	return o.syncState.Update(ctx, state)
}

// defaultLimit is the per-provider request cap applied when the caller
// does not set one.
func defaultLimit(provider string) int {
	switch provider {
	case domain.SourceEventbrite, domain.SourceTicketMaster:
		return 100
	default:
		return 50
	}
}

// SyncBachtrack syncs from Bachtrack only.
func (o *Orchestrator) SyncBachtrack(ctx context.Context, req domain.SyncRequest) *domain.SyncResult {
	return o.syncOne(ctx, domain.SourceBachtrack, req)
}

// SyncBandsintown syncs from Bandsintown only. The request must carry an
// explicit artist list; without one the provider returns nothing.
func (o *Orchestrator) SyncBandsintown(ctx context.Context, req domain.SyncRequest) *domain.SyncResult {
	return o.syncOne(ctx, domain.SourceBandsintown, req)
}

// SyncEventbrite syncs from Eventbrite only.
func (o *Orchestrator) SyncEventbrite(ctx context.Context, req domain.SyncRequest) *domain.SyncResult {
	return o.syncOne(ctx, domain.SourceEventbrite, req)
}

// SyncTicketMaster syncs from TicketMaster only.
func (o *Orchestrator) SyncTicketMaster(ctx context.Context, req domain.SyncRequest) *domain.SyncResult {
	return o.syncOne(ctx, domain.SourceTicketMaster, req)
}

func (o *Orchestrator) syncOne(ctx context.Context, name string, req domain.SyncRequest) *domain.SyncResult {
	p, ok := o.byName[name]
	if !ok {
		return &domain.SyncResult{
			Success: false,
			Message: fmt.Sprintf("provider %s is not configured", name),
		}
	}
	return o.RunSync(ctx, []Provider{p}, req)
}

// RunDailySync sweeps the retention window and then syncs all configured
// providers over a forward-looking window, using the curated artist list
// for Bandsintown. Sweep failure is logged and does not block the sync.
func (o *Orchestrator) RunDailySync(ctx context.Context) *domain.SyncResult {
	if o.sweeper != nil {
		if _, err := o.sweeper.Sweep(ctx, o.config.RetentionDays); err != nil {
			o.logger.Error("retention sweep failed", "error", err)
		}
	}

	now := time.Now().UTC()
	req := domain.SyncRequest{
		DateFrom: now,
		DateTo:   now.AddDate(0, o.config.WindowMonths, 0),
		Artists:  o.config.BandsintownArtists,
	}

	return o.RunSync(ctx, o.providers, req)
}
