package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/place-search/internal/domain"
)

type searchResponse struct {
	Results []domain.Place `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSearch serves GET ?q=&lat=&lng=. Only a bad q is a client error;
// everything else degrades to an empty result list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	origin := parseOrigin(params.Get("lat"), params.Get("lng"))

	places, err := s.searcher.Query(r.Context(), params.Get("q"), origin)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
			return
		}
		s.logger.Error("search failed", "error", err, "request_id", RequestID(r.Context()))
		places = nil
	}
	if places == nil {
		places = []domain.Place{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: places})
}

// parseOrigin returns nil unless both values parse and lie in range.
func parseOrigin(latStr, lngStr string) *domain.Coordinates {
	latStr, lngStr = strings.TrimSpace(latStr), strings.TrimSpace(lngStr)
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	c := domain.Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil
	}
	return &c
}
