package domain

// PlanConfig carries every tunable of a planning call. Nothing is read from
// globals; callers start from DefaultPlanConfig and override fields.
type PlanConfig struct {
	MaxPerArea        int
	AreaCountOverride *int
	MaxIterations     int
	EpsilonKm         float64
	ImproveRoute      bool
	AverageSpeedKmh   float64
	Seed              int64
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		MaxPerArea:      5,
		MaxIterations:   50,
		EpsilonKm:       0.05,
		ImproveRoute:    true,
		AverageSpeedKmh: 30,
		Seed:            1,
	}
}
