package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/place-search/internal/domain"
)

const (
	defaultBaseURL = "https://places.googleapis.com/v1"

	// Bias radii in meters.
	textSearchRadius = 50000.0
	nearbyRadius     = 5000.0

	maxResultCount = 10

	placeFieldMask = "places.id,places.displayName,places.formattedAddress,places.shortFormattedAddress," +
		"places.location,places.addressComponents,places.plusCode"
	suggestionFieldMask = "suggestions.placePrediction.placeId,suggestions.placePrediction.text," +
		"suggestions.placePrediction.structuredFormat"
)

// Base confidences per endpoint.
const (
	autocompleteConfidence = 0.90
	textSearchConfidence   = 0.80
	nearbyConfidence       = 0.75
)

// Client talks to the Google Places API (New). One Client backs the
// autocomplete, text search, and nearby providers.
type Client struct {
	apiKey        string
	httpClient    *http.Client
	baseURL       string
	locale        *domain.LocaleMatcher
	defaultOrigin domain.Coordinates
	logger        *slog.Logger
}

// NewClient creates a Google Places client. An empty apiKey is allowed; every
// search then fails with domain.ErrMissingCredentials.
func NewClient(apiKey string, timeout time.Duration, locale *domain.LocaleMatcher, defaultOrigin domain.Coordinates, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:       defaultBaseURL,
		locale:        locale,
		defaultOrigin: defaultOrigin,
		logger:        logger,
	}
}

// Providers returns the three Google-backed providers in priority order.
func (c *Client) Providers() []domain.Provider {
	return []domain.Provider{
		&Autocomplete{client: c},
		&TextSearch{client: c},
		&Nearby{client: c},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (a *Autocomplete) Configured() bool { return a.client.Configured() }

func (t *TextSearch) Configured() bool { return t.client.Configured() }

func (n *Nearby) Configured() bool { return n.client.Configured() }

// Autocomplete serves place predictions. Predictions carry no coordinates.
type Autocomplete struct {
	client *Client
}

func (*Autocomplete) Source() domain.Source { return domain.SourceGoogleAutocomplete }

func (*Autocomplete) MinQueryLength() int { return domain.MinQueryLength }

// Search returns place predictions biased toward the query origin.
func (a *Autocomplete) Search(ctx context.Context, q domain.Query) ([]domain.Place, error) {
	c := a.client
	origin := q.OriginOr(c.defaultOrigin)
	body := autocompleteRequest{
		Input:        q.Text,
		LocationBias: circleBias(origin, textSearchRadius),
	}
	if code := c.locale.Code(); code != "" {
		body.IncludedRegionCodes = []string{strings.ToLower(code)}
	}

	var resp autocompleteResponse
	if err := c.post(ctx, ":autocomplete", suggestionFieldMask, body, &resp); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		if s.PlacePrediction == nil {
			continue
		}
		places = append(places, c.fromPrediction(*s.PlacePrediction))
	}
	return places, nil
}

// TextSearch resolves free-text queries into fully addressed places.
type TextSearch struct {
	client *Client
}

func (*TextSearch) Source() domain.Source { return domain.SourceGoogleTextSearch }

func (*TextSearch) MinQueryLength() int { return domain.MinQueryLength }

// Search runs a text search biased toward the query origin.
func (t *TextSearch) Search(ctx context.Context, q domain.Query) ([]domain.Place, error) {
	c := t.client
	body := textSearchRequest{
		TextQuery:      q.Text,
		MaxResultCount: maxResultCount,
		LocationBias:   circleBias(q.OriginOr(c.defaultOrigin), textSearchRadius),
	}
	if code := c.locale.Code(); code != "" {
		body.RegionCode = strings.ToLower(code)
	}
	return c.searchText(ctx, body, domain.SourceGoogleTextSearch, textSearchConfidence)
}

// Nearby ranks text search matches by distance from the caller. It only runs
// when the caller supplied a position.
type Nearby struct {
	client *Client
}

func (*Nearby) Source() domain.Source { return domain.SourceGoogleNearby }

func (*Nearby) MinQueryLength() int { return 3 }

// RequiresOrigin reports that Nearby is skipped for coordinate-less queries.
func (*Nearby) RequiresOrigin() bool { return true }

// Search returns no places, and makes no call, for queries without an origin.
func (n *Nearby) Search(ctx context.Context, q domain.Query) ([]domain.Place, error) {
	if q.Origin == nil {
		return nil, nil
	}
	c := n.client
	body := textSearchRequest{
		TextQuery:      q.Text,
		MaxResultCount: maxResultCount,
		RankPreference: "DISTANCE",
		LocationBias:   circleBias(*q.Origin, nearbyRadius),
	}
	return c.searchText(ctx, body, domain.SourceGoogleNearby, nearbyConfidence)
}

func (c *Client) searchText(ctx context.Context, body textSearchRequest, source domain.Source, base float64) ([]domain.Place, error) {
	var resp textSearchResponse
	if err := c.post(ctx, ":searchText", placeFieldMask, body, &resp); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		places = append(places, c.fromPlace(p, source, base))
	}
	return places, nil
}

func (c *Client) post(ctx context.Context, method, fieldMask string, payload, out any) error {
	if c.apiKey == "" {
		return domain.ErrMissingCredentials
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places"+method, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places%s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("google places API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	c.logger.Debug("google places response", "method", method)
	return nil
}

func circleBias(center domain.Coordinates, radius float64) *locationBias {
	return &locationBias{Circle: circle{
		Center: latLng{Latitude: center.Lat, Longitude: center.Lng},
		Radius: radius,
	}}
}
