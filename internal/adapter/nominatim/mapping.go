package nominatim

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/place-search/internal/domain"
)

func (c *Client) fromResult(r result) domain.Place {
	a := r.Address
	place := domain.Place{
		Source:    domain.SourceNominatim,
		PlaceID:   r.PlaceID.String(),
		Name:      firstNonEmpty(r.Name, firstSegment(r.DisplayName)),
		Address:   r.DisplayName,
		Formatted: r.DisplayName,
		Locality:  firstNonEmpty(a.Suburb, a.Neighbourhood, a.Quarter),
		City:      firstNonEmpty(a.City, a.Town, a.Village, a.County),
		State:     strings.TrimSpace(a.State),
	}

	lat, latErr := strconv.ParseFloat(r.Lat, 64)
	lng, lngErr := strconv.ParseFloat(r.Lon, 64)
	if latErr == nil && lngErr == nil {
		place.Lat = domain.Float(lat)
		place.Lng = domain.Float(lng)
	} else {
		c.logger.Debug("nominatim result without usable coordinates", "place_id", place.PlaceID)
	}

	place.Confidence = domain.ScoreConfidence(baseConfidence, domain.Signals{
		Formatted: place.Formatted != "",
		Locality:  place.Locality != "",
		City:      place.City != "",
	}, c.isInTargetCountry(r))
	place.EnsureID()
	return place
}

// isInTargetCountry checks address.country_code, then display_name, then
// the address.country name.
func (c *Client) isInTargetCountry(r result) bool {
	if code := strings.TrimSpace(r.Address.CountryCode); code != "" {
		return c.locale.MatchesCode(code)
	}
	if c.locale.Mentions(r.DisplayName) {
		return true
	}
	return c.locale.MatchesCode(r.Address.Country) || c.locale.Mentions(r.Address.Country)
}

func firstSegment(displayName string) string {
	name, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
