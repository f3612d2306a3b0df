package config

import (
	"delivery-area-service/internal/domain"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type plannerFile struct {
	MaxPerArea        int     `yaml:"max_per_area"`
	AreaCountOverride *int    `yaml:"area_count_override"`
	MaxIterations     int     `yaml:"max_iterations"`
	EpsilonKm         float64 `yaml:"epsilon_km"`
	ImproveRoute      bool    `yaml:"improve_route"`
	AverageSpeedKmh   float64 `yaml:"average_speed_kmh"`
	Seed              int64   `yaml:"seed"`
}

// LoadPlanConfig reads planner defaults from a YAML file. Keys missing from
// the file keep their domain.DefaultPlanConfig values. An empty path returns
// the defaults unchanged.
func LoadPlanConfig(path string) (domain.PlanConfig, error) {
	def := domain.DefaultPlanConfig()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PlanConfig{}, fmt.Errorf("load plan config: read %q: %w", path, err)
	}

	return ParsePlanConfig(data)
}

// ParsePlanConfig decodes YAML over domain.DefaultPlanConfig.
func ParsePlanConfig(data []byte) (domain.PlanConfig, error) {
	def := domain.DefaultPlanConfig()
	f := plannerFile{
		MaxPerArea:      def.MaxPerArea,
		MaxIterations:   def.MaxIterations,
		EpsilonKm:       def.EpsilonKm,
		ImproveRoute:    def.ImproveRoute,
		AverageSpeedKmh: def.AverageSpeedKmh,
		Seed:            def.Seed,
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.PlanConfig{}, fmt.Errorf("load plan config: parse yaml: %w", err)
	}

	return domain.PlanConfig{
		MaxPerArea:        f.MaxPerArea,
		AreaCountOverride: f.AreaCountOverride,
		MaxIterations:     f.MaxIterations,
		EpsilonKm:         f.EpsilonKm,
		ImproveRoute:      f.ImproveRoute,
		AverageSpeedKmh:   f.AverageSpeedKmh,
		Seed:              f.Seed,
	}, nil
}
