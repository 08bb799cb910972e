package search

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/couchcryptid/place-search/internal/observability"
)

type cacheEntry struct {
	data     []domain.Place
	storedAt time.Time
}

// Cache holds served result lists for a fixed TTL. Expired entries are
// removed when a read finds them, and by a sweep that runs after any write
// leaving more than sweepThreshold entries. There is no size-based eviction.
type Cache struct {
	mu             sync.Mutex
	entries        map[string]cacheEntry
	ttl            time.Duration
	sweepThreshold int
	clock          clockwork.Clock
	metrics        *observability.Metrics
}

// NewCache creates an empty Cache.
func NewCache(ttl time.Duration, sweepThreshold int, clock clockwork.Clock, metrics *observability.Metrics) *Cache {
	return &Cache{
		entries:        make(map[string]cacheEntry),
		ttl:            ttl,
		sweepThreshold: sweepThreshold,
		clock:          clock,
		metrics:        metrics,
	}
}

// CacheKey normalizes a query into its cache bucket. Coordinates are rounded
// to two decimals, roughly 1 km; a missing origin counts as 0,0.
func CacheKey(text string, origin *domain.Coordinates) string {
	var lat, lng float64
	if origin != nil {
		lat, lng = origin.Lat, origin.Lng
	}
	return strings.ToLower(strings.TrimSpace(text)) + "|" + round2(lat) + "|" + round2(lng)
}

func round2(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}

// Get returns a copy of the live entry for key.
func (c *Cache) Get(key string) ([]domain.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		c.metrics.CacheEvictions.WithLabelValues("expired_read").Inc()
		c.metrics.CacheEntries.Set(float64(len(c.entries)))
		return nil, false
	}
	return slices.Clone(e.data), true
}

// Set stores a copy of data under key, replacing any existing entry.
func (c *Cache) Set(key string, data []domain.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{data: slices.Clone(data), storedAt: c.clock.Now()}
	if len(c.entries) > c.sweepThreshold {
		c.sweep()
	}
	c.metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweep() {
	removed := 0
	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.metrics.CacheEvictions.WithLabelValues("sweep").Add(float64(removed))
	}
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.clock.Since(e.storedAt) >= c.ttl
}
