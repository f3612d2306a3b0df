package services

import (
	"delivery-area-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ClusterOptions controls the k-means refinement loop.
type ClusterOptions struct {
	Seed          int64
	MaxIterations int
	EpsilonKm     float64
}

// ClusterResult is the outcome of Partition.
// Converged is false when MaxIterations was reached before assignments
// stabilised; the areas are still usable but possibly suboptimal.
type ClusterResult struct {
	Areas      []domain.DeliveryArea
	Iterations int
	Converged  bool
}

// site is a distinct coordinate shared by one or more recipients.
// Clustering operates on sites so coincident recipients can never be split.
type site struct {
	point   domain.GeoPoint
	members []int // indexes into the input slice, in input order
}

func (s site) weight() float64 { return float64(len(s.members)) }

// Partition groups points into at most k geographic areas using k-means++
// seeding followed by Lloyd iterations under the haversine metric.
//
// Every point must carry a Location. The effective k is clamped to the number
// of distinct coordinates, so identical inputs always land in one area and
// 1 <= k <= distinct yields exactly k non-empty areas. Randomness comes only
// from opts.Seed; identical (points, k, seed) produce identical output.
func Partition(points []domain.Recipient, k int, opts ClusterOptions) (ClusterResult, error) {
	if len(points) == 0 {
		return ClusterResult{Areas: []domain.DeliveryArea{}, Converged: true}, nil
	}
	if k < 1 {
		return ClusterResult{}, &domain.InvalidInputError{Field: "k", Reason: "must be at least 1"}
	}
	if opts.MaxIterations < 1 {
		return ClusterResult{}, &domain.InvalidInputError{Field: "max_iterations", Reason: "must be at least 1"}
	}

	sites, err := collectSites(points)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("partition: %w", err)
	}

	if k > len(sites) {
		k = len(sites)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := seedPlusPlus(sites, k, rng)

	assign := make([]int, len(sites))
	for i := range assign {
		assign[i] = -1
	}
	assignNearest(sites, centroids, assign)
	repairEmpty(sites, centroids, assign)

	converged := false
	iterations := 0
	for iterations < opts.MaxIterations {
		iterations++

		next := weightedMeans(sites, assign, len(centroids))
		shift := 0.0
		for c := range centroids {
			if d := domain.HaversineDistanceKm(centroids[c], next[c]); d > shift {
				shift = d
			}
		}
		centroids = next

		changed := assignNearest(sites, centroids, assign)
		if repairEmpty(sites, centroids, assign) {
			changed = true
		}

		if !changed || shift < opts.EpsilonKm {
			converged = true
			break
		}
	}

	return ClusterResult{
		Areas:      buildAreas(points, sites, assign, len(centroids)),
		Iterations: iterations,
		Converged:  converged,
	}, nil
}

func collectSites(points []domain.Recipient) ([]site, error) {
	index := make(map[domain.GeoPoint]int, len(points))
	sites := make([]site, 0, len(points))
	for i, p := range points {
		if p.Location == nil {
			return nil, fmt.Errorf("recipient %q has no location", p.ID)
		}

		loc := *p.Location
		if j, ok := index[loc]; ok {
			sites[j].members = append(sites[j].members, i)
			continue
		}
		index[loc] = len(sites)
		sites = append(sites, site{point: loc, members: []int{i}})
	}

	if len(sites) == 0 {
		return nil, errors.New("no sites")
	}
	return sites, nil
}

// seedPlusPlus picks k distinct sites: the first uniformly over recipients,
// each following one with probability proportional to the weighted squared
// distance to its nearest chosen centroid.
func seedPlusPlus(sites []site, k int, rng *rand.Rand) []domain.GeoPoint {
	centroids := make([]domain.GeoPoint, 0, k)
	chosen := make([]bool, len(sites))

	total := 0.0
	for _, s := range sites {
		total += s.weight()
	}
	first := pickWeighted(sites, rng.Float64()*total, func(i int) float64 { return sites[i].weight() })
	centroids = append(centroids, sites[first].point)
	chosen[first] = true

	nearest := make([]float64, len(sites))
	for i, s := range sites {
		d := domain.HaversineDistanceKm(s.point, sites[first].point)
		nearest[i] = d * d
	}

	for len(centroids) < k {
		total = 0
		for i, s := range sites {
			if !chosen[i] {
				total += s.weight() * nearest[i]
			}
		}
		if total <= 0 {
			break
		}

		next := pickWeighted(sites, rng.Float64()*total, func(i int) float64 {
			if chosen[i] {
				return 0
			}
			return sites[i].weight() * nearest[i]
		})
		centroids = append(centroids, sites[next].point)
		chosen[next] = true

		for i, s := range sites {
			d := domain.HaversineDistanceKm(s.point, sites[next].point)
			if d*d < nearest[i] {
				nearest[i] = d * d
			}
		}
	}

	return centroids
}

// pickWeighted returns the first index whose cumulative weight exceeds r.
// Falls back to the last index with positive weight to absorb rounding.
func pickWeighted(sites []site, r float64, weight func(int) float64) int {
	last := -1
	acc := 0.0
	for i := range sites {
		w := weight(i)
		if w <= 0 {
			continue
		}
		last = i
		acc += w
		if r < acc {
			return i
		}
	}
	return last
}

// assignNearest moves every site to its closest centroid. Ties go to the
// lowest centroid index. Reports whether any assignment changed.
func assignNearest(sites []site, centroids []domain.GeoPoint, assign []int) bool {
	changed := false
	for i, s := range sites {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			if d := domain.HaversineDistanceKm(s.point, centroid); d < bestDist {
				best = c
				bestDist = d
			}
		}
		if assign[i] != best {
			assign[i] = best
			changed = true
		}
	}
	return changed
}

// repairEmpty gives every empty cluster the site lying farthest from its
// current centroid, taken from a cluster that holds more than one site.
func repairEmpty(sites []site, centroids []domain.GeoPoint, assign []int) bool {
	repaired := false
	for {
		counts := make([]int, len(centroids))
		for _, c := range assign {
			counts[c]++
		}

		empty := -1
		for c, n := range counts {
			if n == 0 {
				empty = c
				break
			}
		}
		if empty < 0 {
			return repaired
		}

		donor := -1
		donorDist := -1.0
		for i, s := range sites {
			if counts[assign[i]] < 2 {
				continue
			}
			if d := domain.HaversineDistanceKm(s.point, centroids[assign[i]]); d > donorDist {
				donor = i
				donorDist = d
			}
		}
		if donor < 0 {
			return repaired
		}

		assign[donor] = empty
		centroids[empty] = sites[donor].point
		repaired = true
	}
}

func weightedMeans(sites []site, assign []int, k int) []domain.GeoPoint {
	sumLat := make([]float64, k)
	sumLng := make([]float64, k)
	weights := make([]float64, k)
	for i, s := range sites {
		c := assign[i]
		w := s.weight()
		sumLat[c] += s.point.Lat * w
		sumLng[c] += s.point.Lng * w
		weights[c] += w
	}

	out := make([]domain.GeoPoint, k)
	for c := range out {
		if weights[c] == 0 {
			continue
		}
		out[c] = domain.GeoPoint{Lat: sumLat[c] / weights[c], Lng: sumLng[c] / weights[c]}
	}
	return out
}

// buildAreas materialises one DeliveryArea per non-empty cluster, in cluster
// order, with members kept in input order.
func buildAreas(points []domain.Recipient, sites []site, assign []int, k int) []domain.DeliveryArea {
	clusterOf := make([]int, len(points))
	for i, s := range sites {
		for _, m := range s.members {
			clusterOf[m] = assign[i]
		}
	}

	members := make([][]domain.Recipient, k)
	for i, p := range points {
		c := clusterOf[i]
		members[c] = append(members[c], p)
	}

	areas := make([]domain.DeliveryArea, 0, k)
	for _, m := range members {
		if len(m) == 0 {
			continue
		}

		centroid := meanPoint(m)
		radius := 0.0
		for _, r := range m {
			if d := domain.HaversineDistanceKm(centroid, *r.Location); d > radius {
				radius = d
			}
		}

		areas = append(areas, domain.DeliveryArea{
			ID:       fmt.Sprintf("area-%d", len(areas)+1),
			Centroid: centroid,
			RadiusKm: radius,
			Members:  m,
		})
	}
	return areas
}

func meanPoint(rs []domain.Recipient) domain.GeoPoint {
	var lat, lng float64
	for _, r := range rs {
		lat += r.Location.Lat
		lng += r.Location.Lng
	}
	n := float64(len(rs))
	return domain.GeoPoint{Lat: lat / n, Lng: lng / n}
}
