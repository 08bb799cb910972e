package search_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/couchcryptid/place-search/internal/search"
	"github.com/couchcryptid/place-search/internal/observability"
)

// --- fakes ---

type fakeProvider struct {
	source         domain.Source
	minLen         int
	places         []domain.Place
	err            error
	delay          time.Duration
	panics         bool
	requiresOrigin bool
	hook           func(ctx context.Context)

	calls atomic.Int32
}

func (f *fakeProvider) Source() domain.Source { return f.source }

func (f *fakeProvider) MinQueryLength() int {
	if f.minLen == 0 {
		return domain.MinQueryLength
	}
	return f.minLen
}

func (f *fakeProvider) RequiresOrigin() bool { return f.requiresOrigin }

func (f *fakeProvider) Search(ctx context.Context, _ domain.Query) ([]domain.Place, error) {
	f.calls.Add(1)
	if f.hook != nil {
		f.hook(ctx)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics {
		panic("provider exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.places, nil
}

type unconfiguredProvider struct {
	fakeProvider
}

func (*unconfiguredProvider) Configured() bool { return false }

// --- helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func newAggregator(timeout time.Duration, providers ...domain.Provider) *search.Aggregator {
	return search.NewAggregator(providers, timeout, testLogger(), testMetrics())
}

func place(src domain.Source, id, name string, lat, lng, confidence float64) domain.Place {
	return domain.Place{
		Source:     src,
		PlaceID:    id,
		Name:       name,
		Formatted:  name + ", Bengaluru, Karnataka, India",
		City:       "Bengaluru",
		Lat:        domain.Float(lat),
		Lng:        domain.Float(lng),
		Confidence: confidence,
	}
}

func withDistance(p domain.Place, km float64) domain.Place {
	p.Distance = domain.Float(km)
	return p
}

func sources(places []domain.Place) []domain.Source {
	out := make([]domain.Source, len(places))
	for i, p := range places {
		out[i] = p.Source
	}
	return out
}

func ids(places []domain.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.PlaceID
	}
	return out
}
