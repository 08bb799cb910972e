package app

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/place-search/internal/adapter/google"
	"github.com/couchcryptid/place-search/internal/adapter/nominatim"
	"github.com/couchcryptid/place-search/internal/adapter/olamaps"
	"github.com/couchcryptid/place-search/internal/config"
	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/couchcryptid/place-search/internal/observability"
	"github.com/couchcryptid/place-search/internal/search"
)

// Providers builds every place provider in priority order: Google
// autocomplete, text search, nearby, then Ola Maps, then Nominatim.
func Providers(cfg *config.Config, logger *slog.Logger) []domain.Provider {
	locale := domain.NewLocaleMatcher(cfg.TargetCountryCode, cfg.TargetCountryNames)
	origin := domain.Coordinates{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}

	g := google.NewClient(cfg.GooglePlacesAPIKey, cfg.ProviderTimeout, locale, origin, logger.With("provider", "google"))
	ola := olamaps.NewClient(cfg.OlaMapsAPIKey, cfg.ProviderTimeout, locale, origin, logger.With("provider", "olamaps"))
	osm := nominatim.NewClient(nominatim.Options{
		BaseURL:       cfg.NominatimBaseURL,
		UserAgent:     cfg.NominatimUserAgent,
		Timeout:       cfg.ProviderTimeout,
		RatePerSecond: cfg.NominatimRatePerSecond,
		Locale:        locale,
		DefaultOrigin: origin,
		Logger:        logger.With("provider", "nominatim"),
	})

	if !g.Configured() {
		logger.Warn("GOOGLE_PLACES_API_KEY not set, google providers disabled")
	}
	if !ola.Configured() {
		logger.Warn("OLA_MAPS_API_KEY not set, ola maps provider disabled")
	}

	providers := g.Providers()
	return append(providers, ola, osm)
}

// NewService wires the query facade from configuration. publisher may be nil.
func NewService(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, publisher search.EventPublisher) *search.Service {
	clock := clockwork.NewRealClock()
	return search.NewService(search.Options{
		Aggregator: search.NewAggregator(Providers(cfg, logger), cfg.ProviderTimeout, logger, metrics),
		Cache:      search.NewCache(cfg.CacheTTL, cfg.CacheSweepThreshold, clock, metrics),
		Publisher:  publisher,
		MaxResults: cfg.MaxResults,
		Clock:      clock,
		Logger:     logger,
		Metrics:    metrics,
	})
}
