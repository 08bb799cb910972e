package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/couchcryptid/place-search/internal/observability"
)

const publishTimeout = 5 * time.Second

// EventPublisher receives one SearchEvent per served query.
type EventPublisher interface {
	PublishSearch(ctx context.Context, event domain.SearchEvent) error
}

// Service is the query facade: validate, serve from cache, or aggregate,
// deduplicate, rank, and truncate.
type Service struct {
	aggregator *Aggregator
	cache      *Cache
	publisher  EventPublisher
	maxResults int
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics

	publishing sync.WaitGroup
}

// Options configures a Service. Publisher may be nil.
type Options struct {
	Aggregator *Aggregator
	Cache      *Cache
	Publisher  EventPublisher
	MaxResults int
	Clock      clockwork.Clock
	Logger     *slog.Logger
	Metrics    *observability.Metrics
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		aggregator: opts.Aggregator,
		cache:      opts.Cache,
		publisher:  opts.Publisher,
		maxResults: opts.MaxResults,
		clock:      clock,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// Query returns ranked places for text. The only error it returns is a
// *domain.ValidationError; provider and internal failures yield an empty list.
// An origin outside the WGS-84 range is ignored.
func (s *Service) Query(ctx context.Context, text string, origin *domain.Coordinates) ([]domain.Place, error) {
	start := s.clock.Now()

	trimmed, err := domain.ValidateQuery(text)
	if err != nil {
		s.metrics.Queries.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if origin != nil && !origin.Valid() {
		origin = nil
	}

	q := domain.Query{Text: trimmed, Origin: origin}
	key := CacheKey(trimmed, origin)

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.Queries.WithLabelValues("hit").Inc()
		s.finish(ctx, q, cached, nil, true, start)
		return cached, nil
	}

	results, outcomes, ok := s.resolve(ctx, q)
	switch {
	case !ok:
		s.metrics.Queries.WithLabelValues("failed").Inc()
	case anySucceeded(outcomes):
		s.cache.Set(key, results)
		s.metrics.Queries.WithLabelValues("miss").Inc()
	default:
		// Every provider failed; serve empty without pinning it in the cache.
		s.metrics.Queries.WithLabelValues("failed").Inc()
	}
	s.finish(ctx, q, results, outcomes, false, start)
	return results, nil
}

// resolve runs the miss path. ok is false when it panicked.
func (s *Service) resolve(ctx context.Context, q domain.Query) (results []domain.Place, outcomes []Outcome, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search pipeline panicked", "query", q.Text, "panic", r)
			results, outcomes, ok = []domain.Place{}, nil, false
		}
	}()

	outcomes = s.aggregator.Aggregate(ctx, q)
	ranked := Rank(Dedupe(Merge(outcomes)))
	if len(ranked) > s.maxResults {
		ranked = ranked[:s.maxResults]
	}

	results = make([]domain.Place, len(ranked))
	for i, p := range ranked {
		results[i] = p.Public()
	}
	return results, outcomes, true
}

// CheckReadiness returns nil when at least one provider can serve queries.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.aggregator.Ready() {
		return errors.New("no place provider is configured")
	}
	return nil
}

// Close waits for in-flight event publishes to finish.
func (s *Service) Close() {
	s.publishing.Wait()
}

func (s *Service) finish(ctx context.Context, q domain.Query, results []domain.Place, outcomes []Outcome, hit bool, start time.Time) {
	elapsed := s.clock.Since(start)
	s.metrics.QueryDuration.Observe(elapsed.Seconds())
	s.metrics.ResultsServed.Observe(float64(len(results)))
	s.logger.Debug("query served",
		"query", q.Text,
		"cache_hit", hit,
		"results", len(results),
		"duration", elapsed,
	)

	if s.publisher == nil {
		return
	}
	event := s.newEvent(q, results, outcomes, hit, start, elapsed)
	parent := context.WithoutCancel(ctx)
	s.publishing.Go(func() {
		ctx, cancel := context.WithTimeout(parent, publishTimeout)
		defer cancel()
		if err := s.publisher.PublishSearch(ctx, event); err != nil {
			s.logger.Warn("publish search event failed", "error", err, "event_id", event.ID)
			s.metrics.EventsPublished.WithLabelValues("error").Inc()
			return
		}
		s.metrics.EventsPublished.WithLabelValues("success").Inc()
	})
}

func (s *Service) newEvent(q domain.Query, results []domain.Place, outcomes []Outcome, hit bool, start time.Time, elapsed time.Duration) domain.SearchEvent {
	event := domain.SearchEvent{
		ID:             uuid.NewString(),
		Query:          q.Text,
		Origin:         q.Origin,
		CacheHit:       hit,
		ResultCount:    len(results),
		DurationMillis: elapsed.Milliseconds(),
		OccurredAt:     start.UTC(),
	}
	for _, o := range outcomes {
		if o.Skipped {
			continue
		}
		if o.Err != nil {
			event.FailedSources = append(event.FailedSources, o.Source)
			continue
		}
		if event.Sources == nil {
			event.Sources = make(map[domain.Source]int)
		}
		event.Sources[o.Source] = len(o.Places)
	}
	return event
}

func anySucceeded(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Succeeded() {
			return true
		}
	}
	return false
}
