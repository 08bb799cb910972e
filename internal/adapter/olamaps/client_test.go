package olamaps

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey           = "ola-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:        testKey,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		baseURL:       baseURL,
		locale:        domain.NewLocaleMatcher("IN", []string{"India", "Bharat"}),
		defaultOrigin: domain.Coordinates{Lat: 12.9716, Lng: 77.5946},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

const mgRoadResponse = `{
  "status": "ok",
  "predictions": [
    {
      "place_id": "ola-platform:mgroad",
      "description": "MG Road, Shanthala Nagar, Ashok Nagar, Bengaluru, Karnataka, 560001, India",
      "structured_formatting": {
        "main_text": "MG Road",
        "secondary_text": "Shanthala Nagar, Ashok Nagar, Bengaluru, Karnataka, 560001, India"
      },
      "terms": [
        {"offset": 0, "value": "MG Road"},
        {"offset": 9, "value": "Shanthala Nagar"},
        {"offset": 26, "value": "Ashok Nagar"},
        {"offset": 39, "value": "Bengaluru"},
        {"offset": 50, "value": "Karnataka"},
        {"offset": 61, "value": "560001"},
        {"offset": 69, "value": "India"}
      ],
      "geometry": {"location": {"lat": 12.9755, "lng": 77.6066}}
    },
    {
      "place_id": "ola-platform:nowhere",
      "description": "Unresolved Prediction",
      "geometry": {"location": {"lat": 0, "lng": 0}}
    },
    {
      "description": "Cubbon Park, Bengaluru",
      "name": "Cubbon Park",
      "lat": 12.9763,
      "lng": 77.5929
    }
  ]
}`

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/autocomplete", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("api_key"))
		assert.Equal(t, "mg road", r.URL.Query().Get("input"))
		assert.Equal(t, "12.970000,77.590000", r.URL.Query().Get("location"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(mgRoadResponse))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	places, err := c.Search(context.Background(), domain.Query{
		Text:   "mg road",
		Origin: &domain.Coordinates{Lat: 12.97, Lng: 77.59},
	})
	require.NoError(t, err)
	require.Len(t, places, 2, "the 0,0 prediction is dropped")

	mg := places[0]
	assert.Equal(t, domain.SourceOlaMaps, mg.Source)
	assert.Equal(t, "ola-platform:mgroad", mg.PlaceID)
	assert.Equal(t, "MG Road", mg.Name)
	assert.Equal(t, "Shanthala Nagar, Ashok Nagar, Bengaluru, Karnataka, 560001, India", mg.Address)
	assert.Equal(t, "MG Road, Shanthala Nagar, Ashok Nagar, Bengaluru, Karnataka, 560001, India", mg.Formatted)
	assert.Equal(t, "Ashok Nagar", mg.Locality)
	assert.Equal(t, "Bengaluru", mg.City)
	assert.Equal(t, "Karnataka", mg.State)
	assert.InDelta(t, 12.9755, *mg.Lat, 1e-9)
	assert.InDelta(t, 77.6066, *mg.Lng, 1e-9)
	assert.InDelta(t, 0.9, mg.Confidence, 1e-9)

	park := places[1]
	assert.Equal(t, "Cubbon Park", park.Name)
	assert.Equal(t, "Cubbon Park, Bengaluru", park.Address)
	assert.InDelta(t, 12.9763, *park.Lat, 1e-9)
	assert.False(t, park.HasProviderID(), "missing place_id is synthesized")
	assert.NotEmpty(t, park.PlaceID)
	assert.LessOrEqual(t, park.Confidence, 0.5, "no country signal in the record")
}

func TestSearch_UsesDefaultOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12.971600,77.594600", r.URL.Query().Get("location"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"status":"zero_results","predictions":[]}`))
	}))
	defer srv.Close()

	places, err := testClient(srv.URL).Search(context.Background(), domain.Query{Text: "zzzz"})
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearch_ErrorStatusInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Status: "REQUEST_DENIED", ErrorMessage: "invalid key"}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), domain.Query{Text: "koramangala"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), domain.Query{Text: "koramangala"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSearch_MissingCredentials(t *testing.T) {
	c := testClient("http://127.0.0.1:0")
	c.apiKey = ""

	_, err := c.Search(context.Background(), domain.Query{Text: "koramangala"})
	assert.True(t, errors.Is(err, domain.ErrMissingCredentials))
	assert.False(t, c.Configured())
}

func TestBreadcrumbs(t *testing.T) {
	c := testClient("")

	tests := []struct {
		name                  string
		place                 string
		terms                 []string
		locality, city, state string
	}{
		{"full", "Forum Mall", []string{"Forum Mall", "Koramangala", "Bengaluru", "Karnataka", "India"}, "Koramangala", "Bengaluru", "Karnataka"},
		{"city and state", "Mysuru", []string{"Mysuru", "Karnataka", "India"}, "", "", "Karnataka"},
		{"postcode skipped", "Church St", []string{"Church St", "Bengaluru", "Karnataka", "560 001"}, "", "Bengaluru", "Karnataka"},
		{"empty", "", nil, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locality, city, state := c.breadcrumbs(tt.place, tt.terms)
			assert.Equal(t, tt.locality, locality)
			assert.Equal(t, tt.city, city)
			assert.Equal(t, tt.state, state)
		})
	}
}

func TestIsInTargetCountry_TermsSignal(t *testing.T) {
	c := testClient("")
	p := prediction{Description: "Lalbagh, Bengaluru"}

	assert.False(t, c.isInTargetCountry(p, []string{"Lalbagh", "Bengaluru"}))
	assert.True(t, c.isInTargetCountry(p, []string{"Lalbagh", "Bengaluru", "IN"}))
}
