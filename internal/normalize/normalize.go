// Package normalize holds the canonical mapping rules shared by all
// provider adapters: external-id construction, location joining, time
// extraction and tag normalization. Everything here is pure.
package normalize

import (
	"fmt"
	"strings"
	"time"
)

// FallbackVenue is used when a provider supplies no venue information.
const FallbackVenue = "TBA"

// DefaultTags seed every ingested concert. AI tag enrichment may append to
// them later but never removes them at ingestion time.
var DefaultTags = []string{"concert", "live-music"}

// ExternalEventID builds the stable dedup key for a provider record.
// The same (source, nativeID) pair must always yield the same key; it is
// the only thing preventing duplicate rows across repeated syncs.
func ExternalEventID(source, nativeID string) string {
	return fmt.Sprintf("%s_%s", source, nativeID)
}

// JoinLocation joins non-empty geographic parts (city, region, country)
// with commas, falling back to "TBA" when the provider gave nothing.
func JoinLocation(parts ...string) string {
	var kept []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return FallbackVenue
	}
	return strings.Join(kept, ", ")
}

// TimeOfDay extracts the "HH:MM" component from a combined date-time.
// Exact midnight is treated as date-only, since providers that omit the
// time report midnight.
func TimeOfDay(t time.Time) *string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return nil
	}
	s := t.Format("15:04")
	return &s
}

// Tag lower-cases and hyphenates a provider label so tags from different
// providers compare equal.
func Tag(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(label), "-")
}

// SeedTags returns the default tag set followed by the normalized extras,
// with duplicates and empties removed. Order is stable.
func SeedTags(extras ...string) []string {
	tags := make([]string, 0, len(DefaultTags)+len(extras))
	seen := make(map[string]bool, len(DefaultTags)+len(extras))

	for _, t := range DefaultTags {
		seen[t] = true
		tags = append(tags, t)
	}
	for _, e := range extras {
		t := Tag(e)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// Optional maps a provider string field to the canonical pointer form:
// absent or blank data becomes nil, never an empty string, so downstream
// consumers see one representation of "unknown".
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
