package olamaps

import (
	"strings"
	"unicode"

	"github.com/couchcryptid/place-search/internal/domain"
)

// fromPrediction maps one prediction. It reports false for records positioned
// at 0,0, which this provider emits for predictions it cannot geocode.
func (c *Client) fromPrediction(p prediction) (domain.Place, bool) {
	lat, lng := p.coordinates()
	if lat == 0 && lng == 0 {
		return domain.Place{}, false
	}

	terms := p.termValues()
	place := domain.Place{
		Source:    domain.SourceOlaMaps,
		PlaceID:   p.PlaceID,
		Name:      firstNonEmpty(p.StructuredFormatting.MainText, p.Name, first(terms)),
		Address:   firstNonEmpty(p.StructuredFormatting.SecondaryText, p.FormattedAddress, p.Description),
		Formatted: firstNonEmpty(p.FormattedAddress, p.Description),
		Lat:       domain.Float(lat),
		Lng:       domain.Float(lng),
	}
	place.Locality, place.City, place.State = c.breadcrumbs(place.Name, terms)

	place.Confidence = domain.ScoreConfidence(baseConfidence, domain.Signals{
		Formatted: place.Formatted != "",
		Locality:  place.Locality != "",
		City:      place.City != "",
	}, c.isInTargetCountry(p, terms))
	place.EnsureID()
	return place, true
}

// isInTargetCountry checks the address text, then the description terms.
func (c *Client) isInTargetCountry(p prediction, terms []string) bool {
	if c.locale.Mentions(p.FormattedAddress, p.Description, p.StructuredFormatting.SecondaryText) {
		return true
	}
	for _, t := range terms {
		if c.locale.MatchesCode(t) {
			return true
		}
	}
	return false
}

// breadcrumbs reads administrative levels from the tail of the description
// terms, which run from most to least specific: "..., locality, city, state,
// postcode, country". Postcodes and the country term are skipped.
func (c *Client) breadcrumbs(name string, terms []string) (locality, city, state string) {
	var admin []string
	for _, t := range terms {
		if t == "" || isPostcode(t) || c.locale.MatchesCode(t) {
			continue
		}
		admin = append(admin, t)
	}
	// The first term is the place itself.
	if len(admin) > 0 && strings.EqualFold(admin[0], name) {
		admin = admin[1:]
	}

	n := len(admin)
	if n >= 1 {
		state = admin[n-1]
	}
	if n >= 2 {
		city = admin[n-2]
	}
	if n >= 3 {
		locality = admin[n-3]
	}
	return locality, city, state
}

func isPostcode(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
