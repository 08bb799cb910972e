package domain

import "time"

// SearchEvent records one served query for downstream analytics.
type SearchEvent struct {
	ID          string       `json:"id"`
	Query       string       `json:"query"`
	Origin      *Coordinates `json:"origin,omitempty"`
	CacheHit    bool         `json:"cache_hit"`
	ResultCount int          `json:"result_count"`

	// Sources maps each provider that ran to the number of candidates it
	// contributed. Empty on cache hits.
	Sources map[Source]int `json:"sources,omitempty"`
	// FailedSources lists providers that returned an error.
	FailedSources []Source `json:"failed_sources,omitempty"`

	DurationMillis int64     `json:"duration_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}
