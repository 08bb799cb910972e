package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/place-search/internal/domain"
)

const (
	baseConfidence = 0.60
	minQueryLength = 3
	resultLimit    = 10

	// Half-width in degrees of the viewbox placed around the origin.
	viewboxSpan = 0.5
)

// Client implements domain.Provider using the OpenStreetMap Nominatim search
// API. Requests share one token bucket so the process stays within the
// public instance usage policy.
type Client struct {
	baseURL       string
	userAgent     string
	httpClient    *http.Client
	limiter       *rate.Limiter
	locale        *domain.LocaleMatcher
	defaultOrigin domain.Coordinates
	logger        *slog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
	Locale        *domain.LocaleMatcher
	DefaultOrigin domain.Coordinates
	Logger        *slog.Logger
}

// NewClient creates a Nominatim client.
func NewClient(opts Options) *Client {
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:       rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		locale:        opts.Locale,
		defaultOrigin: opts.DefaultOrigin,
		logger:        opts.Logger,
	}
}

func (*Client) Source() domain.Source { return domain.SourceNominatim }

func (*Client) MinQueryLength() int { return minQueryLength }

// Search queries /search with address details, preferring results inside a
// viewbox around the query origin.
func (c *Client) Search(ctx context.Context, q domain.Query) ([]domain.Place, error) {
	origin := q.OriginOr(c.defaultOrigin)
	params := url.Values{
		"q":              {q.Text},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {strconv.Itoa(resultLimit)},
		"viewbox":        {viewbox(origin)},
	}
	if code := c.locale.Code(); code != "" {
		params.Set("countrycodes", strings.ToLower(code))
	}

	// Wait is bounded by ctx, so a saturated bucket fails like a timeout.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		places = append(places, c.fromResult(r))
	}
	return places, nil
}

func viewbox(c domain.Coordinates) string {
	// left,top,right,bottom
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f",
		c.Lng-viewboxSpan, c.Lat+viewboxSpan, c.Lng+viewboxSpan, c.Lat-viewboxSpan)
}
