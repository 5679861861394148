package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means the provider's API key is not configured.
	// It is scoped to a single provider and never fatal for a sync run.
	ErrMissingCredential = errors.New("missing provider credential")

	// ErrMissingDate marks a provider record without a parseable date.
	// Such records are dropped from the batch, not fatal for the batch.
	ErrMissingDate = errors.New("record has no concert date")

	// ErrMissingExternalID marks a record that cannot participate in the
	// dedup/upsert path.
	ErrMissingExternalID = errors.New("record has no external event id")
)

// ProviderError wraps a failed call to an external event API.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failed batch write. The whole batch fails as one;
// retry is left to the next scheduled run.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
