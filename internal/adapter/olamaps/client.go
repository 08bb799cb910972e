package olamaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/place-search/internal/domain"
)

const (
	defaultBaseURL = "https://api.olamaps.io/places/v1"
	baseConfidence = 0.75
	minQueryLength = 3
)

// Client implements domain.Provider using the Ola Maps autocomplete API.
type Client struct {
	apiKey        string
	httpClient    *http.Client
	baseURL       string
	locale        *domain.LocaleMatcher
	defaultOrigin domain.Coordinates
	logger        *slog.Logger
}

// NewClient creates an Ola Maps client. An empty apiKey is allowed; every
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

func (*Client) Source() domain.Source { return domain.SourceOlaMaps }

func (*Client) MinQueryLength() int { return minQueryLength }

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search returns autocomplete predictions biased toward the query origin.
func (c *Client) Search(ctx context.Context, q domain.Query) ([]domain.Place, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	origin := q.OriginOr(c.defaultOrigin)
	params := url.Values{
		"input":    {q.Text},
		"location": {fmt.Sprintf("%.6f,%.6f", origin.Lat, origin.Lng)},
		"api_key":  {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/autocomplete?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ola maps API error: status %d: %s", resp.StatusCode, body)
	}

	var olaResp response
	if err := json.NewDecoder(resp.Body).Decode(&olaResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch strings.ToLower(olaResp.Status) {
	case "ok", "zero_results":
	default:
		return nil, fmt.Errorf("ola maps API error: status %q: %s", olaResp.Status, olaResp.ErrorMessage)
	}

	places := make([]domain.Place, 0, len(olaResp.Predictions))
	dropped := 0
	for _, p := range olaResp.Predictions {
		place, ok := c.fromPrediction(p)
		if !ok {
			dropped++
			continue
		}
		places = append(places, place)
	}
	if dropped > 0 {
		c.logger.Debug("ola maps predictions without coordinates dropped", "count", dropped)
	}
	return places, nil
}
