package domain

import "time"

// SyncRequest describes one orchestrated sync run. Zero time values mean
// "no bound". Artists is consumed by Bandsintown only; the other providers
// ignore it.
type SyncRequest struct {
	Location string
	DateFrom time.Time
	DateTo   time.Time
	Artists  []string
	Limit    int
}

// ProviderResult is one provider's contribution to a sync run.
type ProviderResult struct {
	Provider string
	Synced   int
	Err      error
}

// SyncResult is the single outcome returned to callers. Success is false
// only when every requested provider failed.
type SyncResult struct {
	Success     bool
	SyncedCount int
	Message     string
	Providers   []ProviderResult
	Duration    time.Duration
}
