package search

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/place-search/internal/domain"
)

// Rank returns a stably sorted copy of places: known distances first in
// ascending order, then descending confidence, then source priority.
func Rank(places []domain.Place) []domain.Place {
	out := slices.Clone(places)
	slices.SortStableFunc(out, comparePlaces)
	return out
}

func comparePlaces(a, b domain.Place) int {
	switch {
	case a.Distance != nil && b.Distance == nil:
		return -1
	case a.Distance == nil && b.Distance != nil:
		return 1
	case a.Distance != nil:
		if c := cmp.Compare(*a.Distance, *b.Distance); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return cmp.Compare(a.Source.Priority(), b.Source.Priority())
}
