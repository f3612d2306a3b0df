package services

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/metrics"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

type PlanRecipientsRequest struct {
	// Recipients to plan; when nil they are loaded from the repository.
	Recipients []domain.Recipient
	// Origin coordinates; when nil OriginAddress is geocoded instead.
	Origin        *domain.GeoPoint
	OriginAddress string
	Config        domain.PlanConfig
	// Geocode resolves recipients that have an address but no coordinates.
	Geocode bool
}

// PlanRecipients is the application workflow around PlanDelivery.
//
// It gathers recipients, resolves missing coordinates through the geocoder,
// resolves the origin and then hands everything to the pure planner. Geocoder
// results for stored recipients are written back best-effort. repo and
// geocoder may be nil when the request does not need them.
func PlanRecipients(
	ctx context.Context,
	req PlanRecipientsRequest,
	repo ports.RecipientRepository,
	geocoder ports.Geocoder,
) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "plan.recipients")(&err)

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if domain.IsInvalidInput(err) {
				outcome = "invalid"
			}
		}
		metrics.PlansTotal.WithLabelValues(outcome).Inc()
		metrics.PlanDuration.Observe(time.Since(start).Seconds())
	}()

	// Bad config or coordinates fail before any geocoding or write.
	if err := ValidatePlanConfig(req.Config); err != nil {
		return nil, err
	}
	if req.Origin != nil {
		if err := req.Origin.Validate("origin"); err != nil {
			return nil, err
		}
	}

	recipients := req.Recipients
	fromRepo := false
	if recipients == nil {
		if repo == nil {
			return nil, errors.New("plan recipients: no recipients given and no repository configured")
		}
		recipients, err = repo.ListRecipients(ctx)
		if err != nil {
			return nil, fmt.Errorf("plan recipients: list recipients: %w", err)
		}
		fromRepo = true
	}
	for i, r := range recipients {
		if r.Location == nil {
			continue
		}
		if err := r.Location.Validate(fmt.Sprintf("recipients[%d]", i)); err != nil {
			return nil, err
		}
	}

	origin, err := resolveOrigin(ctx, req, geocoder)
	if err != nil {
		return nil, err
	}

	var geocodeMisses map[string]struct{}
	if req.Geocode && geocoder != nil {
		recipients, geocodeMisses, err = geocodeRecipients(ctx, recipients, geocoder, repo, fromRepo)
		if err != nil {
			return nil, err
		}
	}

	plan, err := PlanDelivery(recipients, origin, req.Config)
	if err != nil {
		return nil, err
	}

	for i, w := range plan.Warnings {
		if w.Kind != domain.WarningUnresolvedRecipient {
			continue
		}
		if _, ok := geocodeMisses[w.RecipientID]; ok {
			plan.Warnings[i].Message = "address could not be geocoded"
		}
	}

	metrics.PlanAreas.Observe(float64(len(plan.Areas)))
	metrics.UnplacedRecipients.Add(float64(len(plan.Unplaced)))
	if !plan.Converged {
		metrics.ConvergenceMisses.Inc()
	}

	log.Printf(
		"req_id=%s op=plan.summary recipients=%d areas=%d unplaced=%d iterations=%d converged=%t",
		obs.RequestID(ctx), len(recipients), len(plan.Areas), len(plan.Unplaced), plan.Iterations, plan.Converged,
	)

	return plan, nil
}

func resolveOrigin(ctx context.Context, req PlanRecipientsRequest, geocoder ports.Geocoder) (domain.GeoPoint, error) {
	if req.Origin != nil {
		return *req.Origin, nil
	}

	addr := strings.TrimSpace(req.OriginAddress)
	if addr == "" {
		return domain.GeoPoint{}, &domain.InvalidInputError{Field: "origin", Reason: "coordinates or address required"}
	}
	if geocoder == nil {
		return domain.GeoPoint{}, &domain.InvalidInputError{Field: "origin", Reason: "address given but no geocoder configured"}
	}

	found, err := geocoder.GeocodeMany(ctx, []string{addr})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("plan recipients: geocode origin: %w", err)
	}

	p, ok := found[domain.NormalizeAddress(addr)]
	if !ok {
		return domain.GeoPoint{}, &domain.InvalidInputError{Field: "origin", Reason: fmt.Sprintf("address %q could not be geocoded", addr)}
	}
	if err := p.Validate("origin"); err != nil {
		return domain.GeoPoint{}, err
	}
	return p, nil
}

// geocodeRecipients fills in coordinates for unresolved recipients with an
// address and returns the ids whose address found no match.
func geocodeRecipients(
	ctx context.Context,
	recipients []domain.Recipient,
	geocoder ports.Geocoder,
	repo ports.RecipientRepository,
	persist bool,
) ([]domain.Recipient, map[string]struct{}, error) {
	addresses := make([]string, 0)
	for _, r := range recipients {
		if !r.Resolved() && strings.TrimSpace(r.Address) != "" {
			addresses = append(addresses, r.Address)
		}
	}
	if len(addresses) == 0 {
		return recipients, nil, nil
	}

	found, err := geocoder.GeocodeMany(ctx, addresses)
	if err != nil {
		return nil, nil, fmt.Errorf("plan recipients: geocode recipients: %w", err)
	}

	out := make([]domain.Recipient, len(recipients))
	resolved := make(map[string]domain.GeoPoint)
	misses := make(map[string]struct{})
	for i, r := range recipients {
		out[i] = r
		if r.Resolved() || strings.TrimSpace(r.Address) == "" {
			continue
		}

		p, ok := found[domain.NormalizeAddress(r.Address)]
		if !ok {
			misses[r.ID] = struct{}{}
			continue
		}
		out[i] = r.WithLocation(p)
		resolved[r.ID] = p
	}

	if persist && repo != nil && len(resolved) > 0 {
		if err := repo.UpdateLocations(ctx, resolved); err != nil {
			log.Printf("req_id=%s persist geocoded locations failed: %v", obs.RequestID(ctx), err)
		}
	}

	return out, misses, nil
}
