package ports

import (
	"context"
	"delivery-area-service/internal/domain"
)

// Contract for resolving free-text addresses to coordinates.
// Result keys are domain.NormalizeAddress of the input address, so callers
// look up what they passed in through the same normalization.
// Addresses that cannot be resolved are absent from the result rather than
// reported as errors; errors are reserved for transport or provider failures.
type Geocoder interface {
	GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
}

// Persistent address -> coordinate cache keyed by normalized address.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
	PutMany(ctx context.Context, results map[string]domain.GeoPoint) error
}
