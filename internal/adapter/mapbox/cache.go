package mapbox

import (
	"context"
	"strings"

	"github.com/couchcryptid/firecad-etl/internal/cache"
	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/observability"
)

// CachedGeocoder wraps a Geocoder with a result cache keyed by address.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   cache.Cache[domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, c cache.Cache[domain.GeocodingResult], metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   c,
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	key := cacheKey(address)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return result, err
	}
	// Only cache found results so transient "not found" responses can be retried.
	if result.Found() {
		c.cache.Put(key, result)
	}
	return result, nil
}

// cacheKey folds case and surrounding whitespace so the same CAD address
// typed differently across cycles shares one entry.
func cacheKey(address string) string {
	return strings.ToUpper(strings.Join(strings.Fields(address), " "))
}
