package config

import (
	"delivery-area-service/internal/domain"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePlanConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParsePlanConfig([]byte("max_per_area: 8\nseed: 42\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	def := domain.DefaultPlanConfig()
	if cfg.MaxPerArea != 8 || cfg.Seed != 42 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.MaxIterations != def.MaxIterations || cfg.EpsilonKm != def.EpsilonKm ||
		cfg.ImproveRoute != def.ImproveRoute || cfg.AverageSpeedKmh != def.AverageSpeedKmh {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.AreaCountOverride != nil {
		t.Fatalf("override should be unset, got %d", *cfg.AreaCountOverride)
	}
}

func TestParsePlanConfigOverride(t *testing.T) {
	cfg, err := ParsePlanConfig([]byte("area_count_override: 3\nimprove_route: false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.AreaCountOverride == nil || *cfg.AreaCountOverride != 3 {
		t.Fatalf("area_count_override not parsed: %v", cfg.AreaCountOverride)
	}
	if cfg.ImproveRoute {
		t.Fatal("improve_route should be false")
	}
}

func TestParsePlanConfigRejectsBadYAML(t *testing.T) {
	if _, err := ParsePlanConfig([]byte("max_per_area: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadPlanConfig(t *testing.T) {
	cfg, err := LoadPlanConfig("")
	if err != nil || cfg != domain.DefaultPlanConfig() {
		t.Fatalf("empty path should yield defaults, got %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "planner.yaml")
	if err := os.WriteFile(path, []byte("average_speed_kmh: 18\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = LoadPlanConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AverageSpeedKmh != 18 {
		t.Fatalf("average_speed_kmh = %v", cfg.AverageSpeedKmh)
	}

	if _, err := LoadPlanConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GEOCODER", "ors")
	t.Setenv("ORS_API_KEY", "k")
	t.Setenv("GEOCODE_RPS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.Geocoder != "ors" || cfg.GeocodeRPS != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsMissingKey(t *testing.T) {
	t.Setenv("GEOCODER", "google")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when google key missing")
	}

	t.Setenv("GEOCODER", "bing")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown geocoder")
	}
}

func TestDSNFollowsDriver(t *testing.T) {
	cfg := Config{DBDriver: "sqlite", DBPath: "data/app.db", DatabaseURL: "postgres://x"}
	if got := cfg.DSN(); got != "data/app.db" {
		t.Fatalf("sqlite DSN = %q", got)
	}

	cfg.DBDriver = "postgres"
	if got := cfg.DSN(); got != "postgres://x" {
		t.Fatalf("postgres DSN = %q", got)
	}
}
