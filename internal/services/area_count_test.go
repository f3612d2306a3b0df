package services

import (
	"delivery-area-service/internal/domain"
	"testing"
)

func TestAreaCount(t *testing.T) {
	override := func(k int) *int { return &k }

	cases := []struct {
		name     string
		n        int
		max      int
		override *int
		want     int
	}{
		{"no recipients", 0, 5, nil, 0},
		{"single", 1, 5, nil, 1},
		{"exact multiple", 10, 5, nil, 2},
		{"rounds up", 11, 5, nil, 3},
		{"one per area", 4, 1, nil, 4},
		{"override", 10, 5, override(4), 4},
		{"override clamped to n", 3, 5, override(7), 3},
		{"override with no recipients", 0, 5, override(2), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := domain.DefaultPlanConfig()
			cfg.MaxPerArea = tc.max
			cfg.AreaCountOverride = tc.override
			if got := AreaCount(tc.n, cfg); got != tc.want {
				t.Fatalf("AreaCount(%d) = %d, want %d", tc.n, got, tc.want)
			}
		})
	}
}

func TestValidatePlanConfig(t *testing.T) {
	zero := 0

	cases := []struct {
		name  string
		mut   func(*domain.PlanConfig)
		field string
	}{
		{"max per area zero", func(c *domain.PlanConfig) { c.MaxPerArea = 0 }, "max_per_area"},
		{"max per area negative", func(c *domain.PlanConfig) { c.MaxPerArea = -3 }, "max_per_area"},
		{"override zero", func(c *domain.PlanConfig) { c.AreaCountOverride = &zero }, "area_count"},
		{"iterations zero", func(c *domain.PlanConfig) { c.MaxIterations = 0 }, "max_iterations"},
		{"epsilon negative", func(c *domain.PlanConfig) { c.EpsilonKm = -1 }, "epsilon_km"},
		{"speed zero", func(c *domain.PlanConfig) { c.AverageSpeedKmh = 0 }, "average_speed_kmh"},
	}

	if err := ValidatePlanConfig(domain.DefaultPlanConfig()); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := domain.DefaultPlanConfig()
			tc.mut(&cfg)

			err := ValidatePlanConfig(cfg)
			ie, ok := err.(*domain.InvalidInputError)
			if !ok {
				t.Fatalf("expected *InvalidInputError, got %T (%v)", err, err)
			}
			if ie.Field != tc.field {
				t.Fatalf("field = %q, want %q", ie.Field, tc.field)
			}
		})
	}
}
