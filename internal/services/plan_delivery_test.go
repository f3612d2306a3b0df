package services

import (
	"delivery-area-service/internal/domain"
	"fmt"
	"math"
	"reflect"
	"testing"
)

var depot = domain.GeoPoint{Lat: 52.50, Lng: 13.40}

func gridRecipients(n int) []domain.Recipient {
	out := make([]domain.Recipient, n)
	for i := range out {
		out[i] = rcpt(fmt.Sprintf("r%02d", i), 52.45+float64(i%4)*0.03, 13.30+float64(i/4)*0.04)
	}
	return out
}

func TestPlanDeliveryEmpty(t *testing.T) {
	plan, err := PlanDelivery(nil, depot, domain.DefaultPlanConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Areas) != 0 || len(plan.Routes) != 0 || len(plan.Unplaced) != 0 || len(plan.Warnings) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
	if plan.Areas == nil || plan.Routes == nil {
		t.Fatalf("collections must be non-nil")
	}
}

func TestPlanDeliverySingleRecipient(t *testing.T) {
	r := rcpt("solo", 52.52, 13.41)

	plan, err := PlanDelivery([]domain.Recipient{r}, depot, domain.DefaultPlanConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Areas) != 1 || len(plan.Routes) != 1 {
		t.Fatalf("areas=%d routes=%d, want 1 and 1", len(plan.Areas), len(plan.Routes))
	}

	route := plan.Routes[0]
	if route.AreaID != plan.Areas[0].ID {
		t.Fatalf("route area = %q, want %q", route.AreaID, plan.Areas[0].ID)
	}
	want := domain.HaversineDistanceKm(depot, *r.Location)
	if math.Abs(route.TotalDistanceKm-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", route.TotalDistanceKm, want)
	}
	if plan.Areas[0].RadiusKm != 0 {
		t.Fatalf("radius = %v, want 0", plan.Areas[0].RadiusKm)
	}
}

func TestPlanDeliveryRespectsMaxPerArea(t *testing.T) {
	cfg := domain.DefaultPlanConfig()
	cfg.MaxPerArea = 5

	recipients := gridRecipients(12)
	plan, err := PlanDelivery(recipients, depot, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Areas) != 3 {
		t.Fatalf("areas = %d, want ceil(12/5) = 3", len(plan.Areas))
	}
	if len(plan.Routes) != len(plan.Areas) {
		t.Fatalf("routes = %d, want %d", len(plan.Routes), len(plan.Areas))
	}

	total := 0
	for i, area := range plan.Areas {
		route := plan.Routes[i]
		if route.AreaID != area.ID {
			t.Fatalf("route %d area = %q, want %q", i, route.AreaID, area.ID)
		}
		if route.Origin != depot {
			t.Fatalf("route origin = %+v", route.Origin)
		}

		want := map[string]bool{}
		for _, m := range area.Members {
			want[m.ID] = true
		}
		if len(route.Stops) != len(want) {
			t.Fatalf("area %s: %d stops for %d members", area.ID, len(route.Stops), len(want))
		}
		for _, s := range route.Stops {
			if !want[s.ID] {
				t.Fatalf("area %s: stop %s is not a member", area.ID, s.ID)
			}
		}
		if naive := inputOrderKm(depot, area.Members); route.TotalDistanceKm > naive+1e-9 {
			t.Fatalf("area %s: %.4f km exceeds input order %.4f km", area.ID, route.TotalDistanceKm, naive)
		}
		total += len(area.Members)
	}
	if total != len(recipients) {
		t.Fatalf("placed %d of %d recipients", total, len(recipients))
	}
}

func TestPlanDeliveryOverride(t *testing.T) {
	k := 2
	cfg := domain.DefaultPlanConfig()
	cfg.AreaCountOverride = &k

	plan, err := PlanDelivery(gridRecipients(12), depot, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Areas) != 2 {
		t.Fatalf("areas = %d, want 2", len(plan.Areas))
	}
}

func TestPlanDeliveryUnresolvedRecipient(t *testing.T) {
	recipients := []domain.Recipient{
		rcpt("a", 52.51, 13.39),
		{ID: "ghost", Name: "No Coordinates", Address: "Unknown 1"},
		rcpt("b", 52.49, 13.42),
	}

	plan, err := PlanDelivery(recipients, depot, domain.DefaultPlanConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Unplaced) != 1 || plan.Unplaced[0].ID != "ghost" {
		t.Fatalf("unplaced = %+v, want [ghost]", plan.Unplaced)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want 1", plan.Warnings)
	}
	w := plan.Warnings[0]
	if w.Kind != domain.WarningUnresolvedRecipient || w.RecipientID != "ghost" {
		t.Fatalf("warning = %+v", w)
	}

	placed := 0
	for _, a := range plan.Areas {
		for _, m := range a.Members {
			if m.ID == "ghost" {
				t.Fatalf("unresolved recipient placed in %s", a.ID)
			}
			placed++
		}
	}
	if placed != 2 {
		t.Fatalf("placed = %d, want 2", placed)
	}
}

func TestPlanDeliveryAllUnresolved(t *testing.T) {
	recipients := []domain.Recipient{{ID: "x"}, {ID: "y"}}

	plan, err := PlanDelivery(recipients, depot, domain.DefaultPlanConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Areas) != 0 || len(plan.Routes) != 0 {
		t.Fatalf("expected no areas, got %d", len(plan.Areas))
	}
	if len(plan.Unplaced) != 2 || len(plan.Warnings) != 2 {
		t.Fatalf("unplaced=%d warnings=%d, want 2 and 2", len(plan.Unplaced), len(plan.Warnings))
	}
}

func TestPlanDeliveryIdempotent(t *testing.T) {
	recipients := gridRecipients(17)
	cfg := domain.DefaultPlanConfig()
	cfg.Seed = 99

	first, err := PlanDelivery(recipients, depot, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := PlanDelivery(recipients, depot, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different plans")
	}
}

func TestPlanDeliveryRejectsInvalidInput(t *testing.T) {
	cfg := domain.DefaultPlanConfig()

	if _, err := PlanDelivery(gridRecipients(3), domain.GeoPoint{Lat: math.NaN()}, cfg); !domain.IsInvalidInput(err) {
		t.Fatalf("NaN origin: expected invalid input, got %v", err)
	}
	if _, err := PlanDelivery(gridRecipients(3), domain.GeoPoint{Lat: 91}, cfg); !domain.IsInvalidInput(err) {
		t.Fatalf("out-of-range origin: expected invalid input, got %v", err)
	}

	bad := gridRecipients(3)
	bad[1].Location = &domain.GeoPoint{Lat: 52, Lng: math.Inf(1)}
	if _, err := PlanDelivery(bad, depot, cfg); !domain.IsInvalidInput(err) {
		t.Fatalf("infinite recipient: expected invalid input, got %v", err)
	}

	cfg.MaxPerArea = 0
	if _, err := PlanDelivery(gridRecipients(3), depot, cfg); !domain.IsInvalidInput(err) {
		t.Fatalf("max per area 0: expected invalid input, got %v", err)
	}
}

func TestPlanDeliveryReportsConvergenceNotReached(t *testing.T) {
	recipients := make([]domain.Recipient, 0, 60)
	for i := 0; i < 60; i++ {
		recipients = append(recipients, rcpt(fmt.Sprintf("g%02d", i), 48+float64(i%10)*0.37, 2+float64(i/10)*0.53))
	}

	cfg := domain.DefaultPlanConfig()
	cfg.MaxIterations = 1
	cfg.EpsilonKm = 0

	missed := 0
	for seed := int64(1); seed <= 10; seed++ {
		cfg.Seed = seed
		plan, err := PlanDelivery(recipients, depot, cfg)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if plan.Iterations != 1 {
			t.Fatalf("seed %d: iterations = %d, want 1", seed, plan.Iterations)
		}

		warned := false
		for _, w := range plan.Warnings {
			if w.Kind == domain.WarningConvergenceNotReached {
				warned = true
			}
		}
		if warned == plan.Converged {
			t.Fatalf("seed %d: converged=%t but convergence warning present=%t", seed, plan.Converged, warned)
		}

		want := AreaCount(len(recipients), cfg)
		if len(plan.Areas) != want || len(plan.Routes) != want {
			t.Fatalf("seed %d: areas=%d routes=%d, want %d of each", seed, len(plan.Areas), len(plan.Routes), want)
		}
		if !plan.Converged {
			missed++
		}
	}

	if missed == 0 {
		t.Fatalf("expected at least one seed to stop before convergence")
	}
}
