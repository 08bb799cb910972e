package domain

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm_OneDegreeOfLatitude(t *testing.T) {
	assert.Equal(t, 111.19, DistanceKm(0, 0, 1, 0))
}

func TestDistanceKm_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(12.97, 77.59, 12.97, 77.59))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(12.9716, 77.5946, 12.2958, 76.6394)
	b := DistanceKm(12.2958, 76.6394, 12.9716, 77.5946)
	assert.Equal(t, a, b)
	assert.InDelta(t, 128, a, 3, "Bengaluru to Mysuru")
}

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		signals  Signals
		inLocale bool
		want     float64
	}{
		{"all signals capped", 0.9, Signals{Formatted: true, Locality: true, City: true}, true, 1.0},
		{"one signal", 0.8, Signals{Formatted: true}, true, 0.85},
		{"no signals in locale", 0.6, Signals{}, true, 0.6},
		{"unconfirmed high base capped", 0.9, Signals{}, false, 0.5},
		{"unconfirmed with signals still capped", 0.9, Signals{Formatted: true, City: true}, false, 0.5},
		{"unconfirmed low base lowered", 0.6, Signals{}, false, 0.4},
		{"floor at zero", 0.1, Signals{}, false, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreConfidence(tt.base, tt.signals, tt.inLocale), 1e-9)
		})
	}
}

func TestLocaleMatcher_MatchesCode(t *testing.T) {
	m := NewLocaleMatcher("in", []string{"India", " Bharat "})

	assert.Equal(t, "IN", m.Code())
	assert.True(t, m.MatchesCode("IN"))
	assert.True(t, m.MatchesCode("in"))
	assert.True(t, m.MatchesCode("India"))
	assert.True(t, m.MatchesCode("bharat"))
	assert.False(t, m.MatchesCode("US"))
	assert.False(t, m.MatchesCode(""))
}

func TestLocaleMatcher_Mentions(t *testing.T) {
	m := NewLocaleMatcher("IN", []string{"India"})

	assert.True(t, m.Mentions("Koramangala, Bengaluru, Karnataka, India"))
	assert.True(t, m.Mentions("", "MG Road, INDIA"))
	assert.True(t, m.Mentions("Bengaluru, India, 560001"))
	assert.True(t, m.Mentions("(India)"))
	assert.False(t, m.Mentions("Indianapolis, Indiana, USA"))
	assert.False(t, m.Mentions("Colombo, Sri Lanka"))
	assert.False(t, m.Mentions())
}

func TestLocaleMatcher_NoNames(t *testing.T) {
	m := NewLocaleMatcher("IN", nil)

	assert.True(t, m.MatchesCode("in"))
	assert.False(t, m.Mentions("Bengaluru, India"))
}

func TestSourcePriority(t *testing.T) {
	ordered := []Source{
		SourceGoogleAutocomplete,
		SourceGoogleTextSearch,
		SourceGoogleNearby,
		SourceOlaMaps,
		SourceNominatim,
		Source("mystery"),
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Priority(), ordered[i].Priority(), "%s before %s", ordered[i-1], ordered[i])
	}
}

func TestPlace_EnsureID_Synthesizes(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	p := Place{Source: SourceNominatim, Name: "Cubbon Park"}
	p.EnsureID()

	prefix := "nominatim_" + strconv.FormatInt(fakeClock.Now().UnixMilli(), 10) + "_"
	require.True(t, strings.HasPrefix(p.PlaceID, prefix), p.PlaceID)
	assert.Len(t, strings.TrimPrefix(p.PlaceID, prefix), 8)
	assert.False(t, p.HasProviderID())

	other := Place{Source: SourceNominatim}
	other.EnsureID()
	assert.NotEqual(t, p.PlaceID, other.PlaceID)
}

func TestPlace_EnsureID_KeepsProviderID(t *testing.T) {
	p := Place{Source: SourceGoogleTextSearch, PlaceID: "ChIJ123"}
	p.EnsureID()

	assert.Equal(t, "ChIJ123", p.PlaceID)
	assert.True(t, p.HasProviderID())
}

func TestPlace_WithDistance(t *testing.T) {
	origin := &Coordinates{Lat: 0, Lng: 0}
	p := Place{Lat: Float(1), Lng: Float(0)}

	withDist := p.WithDistance(origin)
	require.NotNil(t, withDist.Distance)
	assert.Equal(t, 111.19, *withDist.Distance)
	assert.Nil(t, p.Distance, "original record must not change")

	assert.Nil(t, p.WithDistance(nil).Distance)
	assert.Nil(t, Place{}.WithDistance(origin).Distance, "no coordinates, no distance")
	assert.Nil(t, withDist.Public().Distance)
}

func TestQuery_OriginOr(t *testing.T) {
	fallback := Coordinates{Lat: 12.9716, Lng: 77.5946}

	assert.Equal(t, fallback, Query{Text: "mg road"}.OriginOr(fallback))

	own := Coordinates{Lat: 19.07, Lng: 72.87}
	assert.Equal(t, own, Query{Text: "mg road", Origin: &own}.OriginOr(fallback))
}

func TestValidateQuery(t *testing.T) {
	text, err := ValidateQuery("  Indiranagar ")
	require.NoError(t, err)
	assert.Equal(t, "Indiranagar", text)

	for _, bad := range []string{"", "   ", "a", " b "} {
		_, err := ValidateQuery(bad)
		require.Error(t, err, "%q", bad)
		assert.True(t, errors.Is(err, ErrInvalidQuery))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "q", verr.Field)
	}
}
