package domain

// A geographically coherent group of recipients served by one delivery run.
// Centroid is the coordinate-wise mean of Members and RadiusKm bounds the
// distance from Centroid to every member.
type DeliveryArea struct {
	ID       string
	Centroid GeoPoint
	RadiusKm float64
	Members  []Recipient
}

// Represents the ordered visiting sequence for one DeliveryArea.
// Stops is a permutation of the owning area's members. The route is an open
// path starting at Origin; there is no return leg.
type Route struct {
	AreaID           string
	Origin           GeoPoint
	Stops            []Recipient
	TotalDistanceKm  float64
	TotalDurationMin float64
}

// Path returns the coordinate sequence origin, stop1, ..., stopN.
func (r Route) Path() []GeoPoint {
	out := make([]GeoPoint, 0, 1+len(r.Stops))
	out = append(out, r.Origin)
	for _, s := range r.Stops {
		if s.Location != nil {
			out = append(out, *s.Location)
		}
	}
	return out
}

// Plan is the read-only output of a single planning call.
type Plan struct {
	Areas      []DeliveryArea
	Routes     []Route
	Unplaced   []Recipient
	Warnings   []Warning
	Converged  bool
	Iterations int
}

// EmptyPlan returns a plan with non-nil, empty collections.
func EmptyPlan() *Plan {
	return &Plan{
		Areas:     []DeliveryArea{},
		Routes:    []Route{},
		Unplaced:  []Recipient{},
		Warnings:  []Warning{},
		Converged: true,
	}
}
