package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinate (latitude, longitude) in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for external API compatibility.
func (p GeoPoint) LngLat() []float64 { return []float64{p.Lng, p.Lat} }

// Key returns a stable textual form used for cache keys and logging.
func (p GeoPoint) Key() string { return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng) }

// Validate reports non-finite or out-of-range coordinates.
func (p GeoPoint) Validate(field string) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return &InvalidInputError{Field: field, Reason: "coordinates must be finite"}
	}
	if p.Lat < -90 || p.Lat > 90 {
		return &InvalidInputError{Field: field, Reason: fmt.Sprintf("latitude %v out of range [-90, 90]", p.Lat)}
	}
	if p.Lng < -180 || p.Lng > 180 {
		return &InvalidInputError{Field: field, Reason: fmt.Sprintf("longitude %v out of range [-180, 180]", p.Lng)}
	}
	return nil
}
