package nominatim

import "encoding/json"

// Nominatim jsonv2 search response types.

type result struct {
	PlaceID     json.Number `json:"place_id"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Address     address     `json:"address"`
}

type address struct {
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	Quarter       string `json:"quarter"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	County        string `json:"county"`
	State         string `json:"state"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}
