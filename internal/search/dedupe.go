package search

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/place-search/internal/domain"
)

// Dedupe drops every record whose identity key was already seen, keeping the
// first occurrence. Fields are never merged across duplicates.
func Dedupe(places []domain.Place) []domain.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		key := identityKey(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// identityKey is the provider place ID when one was supplied, otherwise the
// name and position.
func identityKey(p domain.Place) string {
	if p.HasProviderID() {
		return "id:" + p.PlaceID
	}
	var b strings.Builder
	b.WriteString("pos:")
	b.WriteString(p.Name)
	b.WriteByte('|')
	b.WriteString(formatCoord(p.Lat))
	b.WriteByte('|')
	b.WriteString(formatCoord(p.Lng))
	return b.String()
}

func formatCoord(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
