package services

import (
	"delivery-area-service/internal/domain"
	"fmt"
	"math"
)

// ValidatePlanConfig rejects configurations the planner cannot honour.
func ValidatePlanConfig(cfg domain.PlanConfig) error {
	if cfg.MaxPerArea < 0 {
		return &domain.InvalidInputError{Field: "max_per_area", Reason: "must not be negative"}
	}
	if cfg.MaxPerArea == 0 {
		return &domain.InvalidInputError{Field: "max_per_area", Reason: "must be at least 1"}
	}
	if cfg.AreaCountOverride != nil && *cfg.AreaCountOverride <= 0 {
		return &domain.InvalidInputError{
			Field:  "area_count",
			Reason: fmt.Sprintf("override must be positive, got %d", *cfg.AreaCountOverride),
		}
	}
	if cfg.MaxIterations < 1 {
		return &domain.InvalidInputError{Field: "max_iterations", Reason: "must be at least 1"}
	}
	if math.IsNaN(cfg.EpsilonKm) || math.IsInf(cfg.EpsilonKm, 0) || cfg.EpsilonKm < 0 {
		return &domain.InvalidInputError{Field: "epsilon_km", Reason: "must be a finite non-negative number"}
	}
	if math.IsNaN(cfg.AverageSpeedKmh) || math.IsInf(cfg.AverageSpeedKmh, 0) || cfg.AverageSpeedKmh <= 0 {
		return &domain.InvalidInputError{Field: "average_speed_kmh", Reason: "must be a finite positive number"}
	}
	return nil
}
