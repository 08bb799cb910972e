package google

import (
	"strings"

	"github.com/couchcryptid/place-search/internal/domain"
)

// Component type preferences, most specific first.
var (
	localityTypes = []string{"sublocality_level_1", "sublocality", "neighborhood"}
	cityTypes     = []string{"locality", "administrative_area_level_3", "administrative_area_level_2"}
	stateTypes    = []string{"administrative_area_level_1"}
	countryTypes  = []string{"country"}
)

func (c *Client) fromPrediction(p placePrediction) domain.Place {
	name := p.StructuredFormat.MainText.Text
	if name == "" {
		name = p.Text.Text
	}
	place := domain.Place{
		Source:    domain.SourceGoogleAutocomplete,
		PlaceID:   p.PlaceID,
		Name:      name,
		Address:   p.StructuredFormat.SecondaryText.Text,
		Formatted: p.Text.Text,
	}
	inCountry := c.locale.Mentions(p.Text.Text, p.StructuredFormat.SecondaryText.Text)
	place.Confidence = domain.ScoreConfidence(autocompleteConfidence, domain.Signals{
		Formatted: place.Formatted != "",
	}, inCountry)
	place.EnsureID()
	return place
}

func (c *Client) fromPlace(p placeResult, source domain.Source, base float64) domain.Place {
	address := p.ShortFormattedAddress
	if address == "" {
		address = p.FormattedAddress
	}
	place := domain.Place{
		Source:    source,
		PlaceID:   p.ID,
		Name:      p.DisplayName.Text,
		Address:   address,
		Formatted: p.FormattedAddress,
		Locality:  componentLong(p.AddressComponents, localityTypes),
		City:      componentLong(p.AddressComponents, cityTypes),
		State:     componentLong(p.AddressComponents, stateTypes),
	}
	if p.Location != nil {
		place.Lat = domain.Float(p.Location.Latitude)
		place.Lng = domain.Float(p.Location.Longitude)
	}
	place.Confidence = domain.ScoreConfidence(base, domain.Signals{
		Formatted: place.Formatted != "",
		Locality:  place.Locality != "",
		City:      place.City != "",
	}, c.isInTargetCountry(p))
	place.EnsureID()
	return place
}

// isInTargetCountry checks the country component, then the address text,
// then the plus code locality string.
func (c *Client) isInTargetCountry(p placeResult) bool {
	if code := componentShort(p.AddressComponents, countryTypes); code != "" {
		return c.locale.MatchesCode(code)
	}
	if c.locale.Mentions(p.FormattedAddress, p.ShortFormattedAddress) {
		return true
	}
	return p.PlusCode != nil && c.locale.Mentions(p.PlusCode.CompoundCode)
}

// componentLong returns the long text of the first component matching the
// earliest type in prefs.
func componentLong(components []addressComponent, prefs []string) string {
	if ac, ok := findComponent(components, prefs); ok {
		return ac.LongText
	}
	return ""
}

func componentShort(components []addressComponent, prefs []string) string {
	if ac, ok := findComponent(components, prefs); ok {
		if ac.ShortText != "" {
			return ac.ShortText
		}
		return ac.LongText
	}
	return ""
}

func findComponent(components []addressComponent, prefs []string) (addressComponent, bool) {
	for _, want := range prefs {
		for _, ac := range components {
			for _, t := range ac.Types {
				if t == want && strings.TrimSpace(ac.LongText) != "" {
					return ac, true
				}
			}
		}
	}
	return addressComponent{}, false
}
