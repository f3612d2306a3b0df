package services

import (
	"delivery-area-service/internal/domain"
	"fmt"
	"math"
)

// maxTwoOptPasses caps the improvement loop for very large areas.
const maxTwoOptPasses = 2500

// twoOptMinGain is the smallest saving (km) accepted as an improvement.
const twoOptMinGain = 1e-9

// DurationEstimator maps a driven distance to an expected travel time.
type DurationEstimator interface {
	EstimateMinutes(distanceKm float64) float64
}

// SpeedEstimator assumes a constant average speed.
type SpeedEstimator struct {
	SpeedKmh float64
}

func (s SpeedEstimator) EstimateMinutes(distanceKm float64) float64 {
	if s.SpeedKmh <= 0 {
		return 0
	}
	return distanceKm / s.SpeedKmh * 60
}

// RouteOptions controls BuildRoute.
type RouteOptions struct {
	Improve   bool
	Estimator DurationEstimator
}

// BuildRoute orders stops into an open path beginning at origin.
//
// Construction is greedy nearest-neighbor from origin, ties going to the stop
// that came first in the input. When opts.Improve is set, both the greedy tour
// and the input-order tour are refined with 2-opt and the shorter result is
// kept, so the returned path is never longer than visiting stops in input
// order. Every stop must carry a Location.
func BuildRoute(origin domain.GeoPoint, stops []domain.Recipient, opts RouteOptions) (domain.Route, error) {
	route := domain.Route{
		Origin: origin,
		Stops:  []domain.Recipient{},
	}
	if len(stops) == 0 {
		return route, nil
	}

	points := make([]domain.GeoPoint, 0, 1+len(stops))
	points = append(points, origin)
	for _, s := range stops {
		if s.Location == nil {
			return domain.Route{}, fmt.Errorf("build route: stop %q has no location", s.ID)
		}
		points = append(points, *s.Location)
	}

	dist := distanceMatrix(points)

	tour := nearestNeighborTour(dist)
	if opts.Improve {
		greedy := improveTwoOpt(dist, tour)

		inputOrder := make([]int, len(points))
		for i := range inputOrder {
			inputOrder[i] = i
		}
		fromInput := improveTwoOpt(dist, inputOrder)

		tour = greedy
		if pathLength(dist, fromInput) < pathLength(dist, greedy) {
			tour = fromInput
		}
	}

	route.Stops = make([]domain.Recipient, 0, len(stops))
	for _, idx := range tour[1:] {
		route.Stops = append(route.Stops, stops[idx-1])
	}
	route.TotalDistanceKm = pathLength(dist, tour)

	estimator := opts.Estimator
	if estimator == nil {
		estimator = SpeedEstimator{SpeedKmh: domain.DefaultPlanConfig().AverageSpeedKmh}
	}
	route.TotalDurationMin = estimator.EstimateMinutes(route.TotalDistanceKm)

	return route, nil
}

// PathDistanceKm sums consecutive haversine legs along points.
func PathDistanceKm(points []domain.GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += domain.HaversineDistanceKm(points[i-1], points[i])
	}
	return total
}

func distanceMatrix(points []domain.GeoPoint) [][]float64 {
	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := domain.HaversineDistanceKm(points[i], points[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

// nearestNeighborTour returns node indexes starting with 0 (the origin).
func nearestNeighborTour(dist [][]float64) []int {
	n := len(dist)
	visited := make([]bool, n)
	visited[0] = true

	tour := make([]int, 0, n)
	tour = append(tour, 0)

	current := 0
	for len(tour) < n {
		best := -1
		bestDist := math.Inf(1)
		// Strict comparison keeps the earliest input stop on ties.
		for j := 1; j < n; j++ {
			if visited[j] {
				continue
			}
			if dist[current][j] < bestDist {
				best = j
				bestDist = dist[current][j]
			}
		}

		visited[best] = true
		tour = append(tour, best)
		current = best
	}
	return tour
}

// improveTwoOpt applies first-improvement 2-opt to an open path whose first
// node is fixed. Reversing tour[i..k] swaps edges (i-1,i) and (k,k+1) for
// (i-1,k) and (i,k+1); when k is the last node only the first edge changes.
func improveTwoOpt(dist [][]float64, tour []int) []int {
	best := append([]int(nil), tour...)
	n := len(best)
	if n < 3 {
		return best
	}

	passes := (n - 1) * (n - 1)
	if passes > maxTwoOptPasses {
		passes = maxTwoOptPasses
	}

	for pass := 0; pass < passes; pass++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				a, b := best[i-1], best[i]
				c := best[k]

				delta := dist[a][c] - dist[a][b]
				if k+1 < n {
					d := best[k+1]
					delta += dist[b][d] - dist[c][d]
				}

				if delta < -twoOptMinGain {
					reverse(best, i, k)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return best
}

func reverse(tour []int, i, k int) {
	for i < k {
		tour[i], tour[k] = tour[k], tour[i]
		i++
		k--
	}
}

func pathLength(dist [][]float64, tour []int) float64 {
	total := 0.0
	for i := 1; i < len(tour); i++ {
		total += dist[tour[i-1]][tour[i]]
	}
	return total
}
