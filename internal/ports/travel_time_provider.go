package ports

import (
	"context"
	"delivery-area-service/internal/domain"
)

// Contract for refining travel times with a road-network service.
type TravelTimeProvider interface {
	// Return the travel time in minutes of each consecutive leg of points;
	// the result has len(points)-1 entries.
	LegDurations(ctx context.Context, points []domain.GeoPoint) ([]float64, error)
}

// Travel time for one directed leg.
type LegResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Persistent cache of leg results keyed by "from|to" coordinate keys.
type TravelTimeCache interface {
	GetMany(ctx context.Context, legs []string) (map[string]LegResult, error)
	PutMany(ctx context.Context, results map[string]LegResult) error
}
