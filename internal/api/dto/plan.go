package dto

import "delivery-area-service/internal/domain"

// PlanRequest overrides planner defaults field by field; absent fields keep
// the server's configured value. Recipients, when present, replace the stored
// recipient list for this call only.
type PlanRequest struct {
	Origin          *domain.GeoPoint   `json:"origin"`
	OriginAddress   string             `json:"origin_address"`
	Recipients      []RecipientPayload `json:"recipients"`
	MaxPerArea      *int               `json:"max_per_area"`
	AreaCount       *int               `json:"area_count"`
	MaxIterations   *int               `json:"max_iterations"`
	EpsilonKm       *float64           `json:"epsilon_km"`
	ImproveRoute    *bool              `json:"improve_route"`
	AverageSpeedKmh *float64           `json:"average_speed_kmh"`
	Seed            *int64             `json:"seed"`
	Geocode         bool               `json:"geocode"`
	RefineDurations bool               `json:"refine_durations"`
}

// Apply overlays the request's overrides on base.
func (r PlanRequest) Apply(base domain.PlanConfig) domain.PlanConfig {
	cfg := base
	if r.MaxPerArea != nil {
		cfg.MaxPerArea = *r.MaxPerArea
	}
	if r.AreaCount != nil {
		k := *r.AreaCount
		cfg.AreaCountOverride = &k
	}
	if r.MaxIterations != nil {
		cfg.MaxIterations = *r.MaxIterations
	}
	if r.EpsilonKm != nil {
		cfg.EpsilonKm = *r.EpsilonKm
	}
	if r.ImproveRoute != nil {
		cfg.ImproveRoute = *r.ImproveRoute
	}
	if r.AverageSpeedKmh != nil {
		cfg.AverageSpeedKmh = *r.AverageSpeedKmh
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	return cfg
}

type AreaResponse struct {
	ID           string          `json:"id"`
	Centroid     domain.GeoPoint `json:"centroid"`
	RadiusKm     float64         `json:"radius_km"`
	RecipientIDs []string        `json:"recipient_ids"`
}

type RouteResponse struct {
	AreaID           string             `json:"area_id"`
	Origin           domain.GeoPoint    `json:"origin"`
	Stops            []RecipientPayload `json:"stops"`
	TotalDistanceKm  float64            `json:"total_distance_km"`
	TotalDurationMin float64            `json:"total_duration_min"`
}

type WarningResponse struct {
	Kind        string `json:"kind"`
	RecipientID string `json:"recipient_id,omitempty"`
	Message     string `json:"message"`
}

type PlanResponse struct {
	Areas      []AreaResponse     `json:"areas"`
	Routes     []RouteResponse    `json:"routes"`
	Unplaced   []RecipientPayload `json:"unplaced"`
	Warnings   []WarningResponse  `json:"warnings"`
	Converged  bool               `json:"converged"`
	Iterations int                `json:"iterations"`
}

// PlanFromDomain converts a plan into its response shape. All collections
// are non-nil so they encode as [] rather than null.
func PlanFromDomain(p *domain.Plan) PlanResponse {
	res := PlanResponse{
		Areas:      make([]AreaResponse, 0, len(p.Areas)),
		Routes:     make([]RouteResponse, 0, len(p.Routes)),
		Unplaced:   RecipientsFromDomain(p.Unplaced),
		Warnings:   make([]WarningResponse, 0, len(p.Warnings)),
		Converged:  p.Converged,
		Iterations: p.Iterations,
	}

	for _, a := range p.Areas {
		ids := make([]string, 0, len(a.Members))
		for _, m := range a.Members {
			ids = append(ids, m.ID)
		}
		res.Areas = append(res.Areas, AreaResponse{
			ID:           a.ID,
			Centroid:     a.Centroid,
			RadiusKm:     a.RadiusKm,
			RecipientIDs: ids,
		})
	}

	for _, r := range p.Routes {
		res.Routes = append(res.Routes, RouteResponse{
			AreaID:           r.AreaID,
			Origin:           r.Origin,
			Stops:            RecipientsFromDomain(r.Stops),
			TotalDistanceKm:  r.TotalDistanceKm,
			TotalDurationMin: r.TotalDurationMin,
		})
	}

	for _, w := range p.Warnings {
		res.Warnings = append(res.Warnings, WarningResponse{
			Kind:        string(w.Kind),
			RecipientID: w.RecipientID,
			Message:     w.Message,
		})
	}

	return res
}
