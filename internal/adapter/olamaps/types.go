package olamaps

import "strings"

// Ola Maps autocomplete response types.

type response struct {
	Predictions  []prediction `json:"predictions"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

type prediction struct {
	PlaceID              string `json:"place_id"`
	Reference            string `json:"reference"`
	Description          string `json:"description"`
	Name                 string `json:"name"`
	FormattedAddress     string `json:"formatted_address"`
	StructuredFormatting struct {
		MainText      string `json:"main_text"`
		SecondaryText string `json:"secondary_text"`
	} `json:"structured_formatting"`
	Terms    []term    `json:"terms"`
	Geometry *geometry `json:"geometry"`

	// Some responses carry the position at the top level instead.
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type term struct {
	Offset int    `json:"offset"`
	Value  string `json:"value"`
}

type geometry struct {
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

func (p prediction) coordinates() (lat, lng float64) {
	if p.Geometry != nil && p.Geometry.Location != nil {
		return p.Geometry.Location.Lat, p.Geometry.Location.Lng
	}
	if p.Lat != nil && p.Lng != nil {
		return *p.Lat, *p.Lng
	}
	return 0, 0
}

func (p prediction) termValues() []string {
	values := make([]string, 0, len(p.Terms))
	for _, t := range p.Terms {
		values = append(values, strings.TrimSpace(t.Value))
	}
	return values
}
