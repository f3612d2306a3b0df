package services

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"log"
)

// RefineDurations replaces each route's speed-based TotalDurationMin with
// the sum of provider leg durations. Stop order and distances are untouched.
// Provider failures keep the estimate for that route and are logged.
// Returns the number of routes refined.
func RefineDurations(ctx context.Context, plan *domain.Plan, provider ports.TravelTimeProvider) int {
	if plan == nil || provider == nil {
		return 0
	}

	refined := 0
	for i := range plan.Routes {
		r := &plan.Routes[i]
		if len(r.Stops) == 0 {
			continue
		}

		legs, err := provider.LegDurations(ctx, r.Path())
		if err != nil {
			log.Printf("req_id=%s refine durations area=%s failed: %v", obs.RequestID(ctx), r.AreaID, err)
			continue
		}
		if len(legs) != len(r.Stops) {
			log.Printf("req_id=%s refine durations area=%s: got %d legs for %d stops", obs.RequestID(ctx), r.AreaID, len(legs), len(r.Stops))
			continue
		}

		total := 0.0
		for _, m := range legs {
			total += m
		}
		r.TotalDurationMin = total
		refined++
	}
	return refined
}
