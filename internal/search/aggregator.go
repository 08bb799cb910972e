package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/couchcryptid/place-search/internal/observability"
)

// Outcome is the settled result of one provider call.
type Outcome struct {
	Source domain.Source
	Places []domain.Place
	// Err is set when the provider failed. Places is then empty.
	Err error
	// Skipped is set when the provider was not called for this query.
	Skipped  bool
	Duration time.Duration
}

// Succeeded reports whether the provider ran and returned without error.
func (o Outcome) Succeeded() bool {
	return !o.Skipped && o.Err == nil
}

// originRequirer is implemented by providers that only search around a
// caller-supplied position.
type originRequirer interface {
	RequiresOrigin() bool
}

// configurable is implemented by providers that need credentials.
type configurable interface {
	Configured() bool
}

// Aggregator fans a query out to every provider and waits for all of them.
type Aggregator struct {
	providers []domain.Provider
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
}

// NewAggregator creates an Aggregator. Provider order is significant: it is
// the concatenation order, so earlier providers win deduplication.
func NewAggregator(providers []domain.Provider, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("place-search/aggregator"),
	}
}

// Aggregate calls every provider concurrently, each under its own timeout,
// and returns one Outcome per provider in provider order. Cancelling ctx does
// not cancel in-flight provider calls. Every returned place carries its
// provider's Source and a PlaceID, even when a provider left them empty.
func (a *Aggregator) Aggregate(ctx context.Context, q domain.Query) []Outcome {
	parent := context.WithoutCancel(ctx)
	outcomes := make([]Outcome, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Go(func() {
			outcomes[i] = a.call(parent, p, q)
		})
	}
	wg.Wait()
	return outcomes
}

// Ready reports whether at least one provider can serve queries.
func (a *Aggregator) Ready() bool {
	for _, p := range a.providers {
		c, ok := p.(configurable)
		if !ok || c.Configured() {
			return true
		}
	}
	return false
}

func (a *Aggregator) call(parent context.Context, p domain.Provider, q domain.Query) (out Outcome) {
	out.Source = p.Source()
	if a.skip(p, q) {
		out.Skipped = true
		a.metrics.ProviderRequests.WithLabelValues(string(out.Source), "skipped").Inc()
		return out
	}

	ctx, cancel := context.WithTimeout(parent, a.timeout)
	defer cancel()
	ctx, span := a.tracer.Start(ctx, "provider.Search", trace.WithAttributes(
		attribute.String("provider.source", string(out.Source)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Places = nil
			out.Err = fmt.Errorf("provider %s panicked: %v", out.Source, r)
		}
		out.Duration = time.Since(start)
		a.observe(span, out)
	}()

	places, err := p.Search(ctx, q)
	if err != nil {
		out.Err = err
		return out
	}

	out.Places = make([]domain.Place, 0, len(places))
	for _, place := range places {
		if place.Source == "" {
			place.Source = out.Source
		}
		// Built-in adapters already assign IDs; this covers providers that do not.
		place.EnsureID()
		out.Places = append(out.Places, place.WithDistance(q.Origin))
	}
	return out
}

func (a *Aggregator) skip(p domain.Provider, q domain.Query) bool {
	if utf8.RuneCountInString(q.Text) < p.MinQueryLength() {
		return true
	}
	if r, ok := p.(originRequirer); ok && r.RequiresOrigin() && q.Origin == nil {
		return true
	}
	return false
}

func (a *Aggregator) observe(span trace.Span, out Outcome) {
	source := string(out.Source)
	a.metrics.ProviderDuration.WithLabelValues(source).Observe(out.Duration.Seconds())

	if out.Err != nil {
		a.logger.Warn("provider search failed", "source", source, "error", out.Err, "duration", out.Duration)
		a.metrics.ProviderRequests.WithLabelValues(source, "error").Inc()
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, "provider search failed")
		return
	}

	outcome := "success"
	if len(out.Places) == 0 {
		outcome = "empty"
	}
	a.metrics.ProviderRequests.WithLabelValues(source, outcome).Inc()
	a.metrics.ProviderResults.WithLabelValues(source).Add(float64(len(out.Places)))
	span.SetAttributes(attribute.Int("provider.results", len(out.Places)))
	span.SetStatus(codes.Ok, "")
}

// Merge concatenates outcome places in provider order. Failed and skipped
// providers contribute nothing.
func Merge(outcomes []Outcome) []domain.Place {
	n := 0
	for _, o := range outcomes {
		n += len(o.Places)
	}
	merged := make([]domain.Place, 0, n)
	for _, o := range outcomes {
		merged = append(merged, o.Places...)
	}
	return merged
}
