package geocode

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/metrics"
	"delivery-area-service/internal/ports"
	"fmt"
	"log"
)

// Cached fronts a Geocoder with a persistent cache. Cache reads that fail are
// fatal; cache writes that fail are logged and ignored.
type Cached struct {
	Next  ports.Geocoder
	Cache ports.GeocodeCache
}

func NewCached(next ports.Geocoder, cache ports.GeocodeCache) *Cached {
	return &Cached{Next: next, Cache: cache}
}


func (c *Cached) GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	norm := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if n := domain.NormalizeAddress(a); n != "" {
			norm = append(norm, n)
		}
	}
	if len(norm) == 0 {
		return map[string]domain.GeoPoint{}, nil
	}

	hits := make(map[string]domain.GeoPoint)
	if c.Cache != nil {
		var err error
		hits, err = c.Cache.GetMany(ctx, norm)
		if err != nil {
			return nil, fmt.Errorf("cached geocoder: get cache: %w", err)
		}
	}

	misses := make([]string, 0, len(norm))
	for _, a := range norm {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}
	metrics.GeocodeLookups.WithLabelValues("cache").Add(float64(len(norm) - len(misses)))

	if len(misses) == 0 || c.Next == nil {
		return hits, nil
	}

	fresh, err := c.Next.GeocodeMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("cached geocoder: %w", err)
	}
	metrics.GeocodeLookups.WithLabelValues("provider").Add(float64(len(misses)))

	if c.Cache != nil && len(fresh) > 0 {
		if err := c.Cache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	out := make(map[string]domain.GeoPoint, len(hits)+len(fresh))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out, nil
}
