package services

import (
	"delivery-area-service/internal/domain"
	"fmt"
)

// PlanDelivery partitions recipients into delivery areas and orders the stops
// of each area starting from origin.
//
// Input is validated up front: bad configuration, a bad origin or any
// non-finite recipient coordinate returns *domain.InvalidInputError and no
// work is done. Recipients without coordinates are returned in Unplaced with
// a warning. The call is pure; identical inputs (including cfg.Seed) yield an
// identical plan.
func PlanDelivery(recipients []domain.Recipient, origin domain.GeoPoint, cfg domain.PlanConfig) (*domain.Plan, error) {
	if err := ValidatePlanConfig(cfg); err != nil {
		return nil, err
	}
	if err := origin.Validate("origin"); err != nil {
		return nil, err
	}
	for i, r := range recipients {
		if r.Location == nil {
			continue
		}
		if err := r.Location.Validate(fmt.Sprintf("recipients[%d]", i)); err != nil {
			return nil, err
		}
	}

	plan := domain.EmptyPlan()

	placed := make([]domain.Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r.Resolved() {
			placed = append(placed, r)
			continue
		}
		plan.Unplaced = append(plan.Unplaced, r)
		plan.Warnings = append(plan.Warnings, domain.Warning{
			Kind:        domain.WarningUnresolvedRecipient,
			RecipientID: r.ID,
			Message:     "recipient has no resolved coordinates",
		})
	}

	if len(placed) == 0 {
		return plan, nil
	}

	clusters, err := Partition(placed, AreaCount(len(placed), cfg), ClusterOptions{
		Seed:          cfg.Seed,
		MaxIterations: cfg.MaxIterations,
		EpsilonKm:     cfg.EpsilonKm,
	})
	if err != nil {
		return nil, fmt.Errorf("plan delivery: partition: %w", err)
	}

	plan.Areas = clusters.Areas
	plan.Iterations = clusters.Iterations
	plan.Converged = clusters.Converged
	if !clusters.Converged {
		plan.Warnings = append(plan.Warnings, domain.Warning{
			Kind: domain.WarningConvergenceNotReached,
			Message: fmt.Sprintf(
				"clustering stopped after %d iterations without stabilising; areas may be suboptimal",
				clusters.Iterations,
			),
		})
	}

	opts := RouteOptions{
		Improve:   cfg.ImproveRoute,
		Estimator: SpeedEstimator{SpeedKmh: cfg.AverageSpeedKmh},
	}
	plan.Routes = make([]domain.Route, 0, len(plan.Areas))
	for _, area := range plan.Areas {
		route, err := BuildRoute(origin, area.Members, opts)
		if err != nil {
			return nil, fmt.Errorf("plan delivery: area %s: %w", area.ID, err)
		}
		route.AreaID = area.ID
		plan.Routes = append(plan.Routes, route)
	}

	return plan, nil
}
