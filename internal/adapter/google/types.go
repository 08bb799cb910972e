package google

// Places API (New) request and response types.

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type autocompleteRequest struct {
	Input               string        `json:"input"`
	LocationBias        *locationBias `json:"locationBias,omitempty"`
	IncludedRegionCodes []string      `json:"includedRegionCodes,omitempty"`
}

type textSearchRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
	RankPreference string        `json:"rankPreference,omitempty"`
	RegionCode     string        `json:"regionCode,omitempty"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type autocompleteResponse struct {
	Suggestions []suggestion `json:"suggestions"`
}

type suggestion struct {
	PlacePrediction *placePrediction `json:"placePrediction"`
}

type formattableText struct {
	Text string `json:"text"`
}

type placePrediction struct {
	PlaceID          string          `json:"placeId"`
	Text             formattableText `json:"text"`
	StructuredFormat struct {
		MainText      formattableText `json:"mainText"`
		SecondaryText formattableText `json:"secondaryText"`
	} `json:"structuredFormat"`
}

type textSearchResponse struct {
	Places []placeResult `json:"places"`
}

type placeResult struct {
	ID                    string             `json:"id"`
	DisplayName           formattableText    `json:"displayName"`
	FormattedAddress      string             `json:"formattedAddress"`
	ShortFormattedAddress string             `json:"shortFormattedAddress"`
	Location              *latLng            `json:"location"`
	AddressComponents     []addressComponent `json:"addressComponents"`
	PlusCode              *plusCode          `json:"plusCode"`
}

type addressComponent struct {
	LongText  string   `json:"longText"`
	ShortText string   `json:"shortText"`
	Types     []string `json:"types"`
}

type plusCode struct {
	GlobalCode   string `json:"globalCode"`
	CompoundCode string `json:"compoundCode"`
}
