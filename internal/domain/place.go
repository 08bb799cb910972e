package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Source tags the provider that produced a Place.
type Source string

const (
	SourceGoogleAutocomplete Source = "google_autocomplete"
	SourceGoogleTextSearch   Source = "google_textsearch"
	SourceGoogleNearby       Source = "google_nearby"
	SourceOlaMaps            Source = "olamaps"
	SourceNominatim          Source = "nominatim"
)

var sourcePriority = map[Source]int{
	SourceGoogleAutocomplete: 0,
	SourceGoogleTextSearch:   1,
	SourceGoogleNearby:       2,
	SourceOlaMaps:            3,
	SourceNominatim:          4,
}

// Priority returns the fixed tie-break rank for the source. Lower ranks sort
// first; unknown sources rank after every known one.
func (s Source) Priority() int {
	if p, ok := sourcePriority[s]; ok {
		return p
	}
	return len(sourcePriority)
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the pair lies within the WGS-84 range.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Query is a single search request as seen by providers.
type Query struct {
	Text string
	// Origin is the caller's position, nil when the caller supplied none.
	Origin *Coordinates
}

// OriginOr returns the caller's origin, or fallback when none was supplied.
func (q Query) OriginOr(fallback Coordinates) Coordinates {
	if q.Origin != nil {
		return *q.Origin
	}
	return fallback
}

// Place is the canonical, provider-independent search candidate.
type Place struct {
	Source     Source   `json:"source"`
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Formatted  string   `json:"formatted"`
	Locality   string   `json:"locality"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Confidence float64  `json:"confidence"`

	// Distance is a ranking input only and is never serialized.
	Distance *float64 `json:"-"`

	syntheticID bool
}

// EnsureID synthesizes a PlaceID when the provider supplied none. Synthesized
// IDs are unique within a batch but not stable across requests.
func (p *Place) EnsureID() {
	if strings.TrimSpace(p.PlaceID) != "" {
		return
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	p.PlaceID = fmt.Sprintf("%s_%d_%s", p.Source, clock.Now().UnixMilli(), random)
	p.syntheticID = true
}

// HasProviderID reports whether PlaceID came from the upstream provider.
func (p Place) HasProviderID() bool {
	return p.PlaceID != "" && !p.syntheticID
}

// HasCoordinates reports whether the record carries a position.
func (p Place) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// WithDistance returns a copy with Distance measured from origin. The copy is
// unchanged when origin is nil or the record has no position.
func (p Place) WithDistance(origin *Coordinates) Place {
	if origin == nil || !p.HasCoordinates() {
		return p
	}
	d := DistanceKm(origin.Lat, origin.Lng, *p.Lat, *p.Lng)
	p.Distance = &d
	return p
}

// Public returns the copy served to callers, with internal ranking inputs removed.
func (p Place) Public() Place {
	p.Distance = nil
	return p
}

// Float returns a pointer to v, for optional coordinate fields.
func Float(v float64) *float64 {
	return &v
}
