package ors

import (
	"bytes"
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// TravelTimeProvider implements ports.TravelTimeProvider over the ORS matrix
// endpoint, with an optional persistent leg cache.
type TravelTimeProvider struct {
	client *Client
	cache  ports.TravelTimeCache
}

func NewTravelTimeProvider(client *Client, cache ports.TravelTimeCache) *TravelTimeProvider {
	return &TravelTimeProvider{client: client, cache: cache}
}

func legKey(a, b domain.GeoPoint) string { return a.Key() + "|" + b.Key() }

// LegDurations returns minutes for each consecutive leg of points.
func (p *TravelTimeProvider) LegDurations(
	ctx context.Context,
	points []domain.GeoPoint,
) (_ []float64, err error) {
	defer obs.Time(ctx, "ors.LegDurations")(&err)

	if p.client == nil {
		return nil, errors.New("ors travel time: client is nil")
	}
	if len(points) < 2 {
		return []float64{}, nil
	}

	keys := make([]string, len(points)-1)
	for i := 1; i < len(points); i++ {
		keys[i-1] = legKey(points[i-1], points[i])
	}

	hits := make(map[string]ports.LegResult)
	if p.cache != nil {
		hits, err = p.cache.GetMany(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("ors travel time: get cache: %w", err)
		}
		if hits == nil {
			hits = make(map[string]ports.LegResult)
		}
	}

	missing := false
	for _, k := range keys {
		if _, ok := hits[k]; !ok {
			missing = true
			break
		}
	}

	if missing {
		fetched, err := p.client.fetchLegs(ctx, points)
		if err != nil {
			return nil, fmt.Errorf("ors travel time: %w", err)
		}

		fresh := make(map[string]ports.LegResult, len(fetched))
		for i, r := range fetched {
			fresh[keys[i]] = r
			hits[keys[i]] = r
		}

		if p.cache != nil {
			if err := p.cache.PutMany(ctx, fresh); err != nil {
				log.Printf("travel time cache write failed: %v", err)
			}
		}
	}

	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = float64(hits[k].DurationSeconds) / 60
	}
	return out, nil
}

// fetchLegs requests a matrix with sources 0..n-2 and destinations 1..n-1.
// Destination j is point j+1, so leg i (point i to point i+1) sits at [i][i].
func (c *Client) fetchLegs(ctx context.Context, points []domain.GeoPoint) ([]ports.LegResult, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, c.profile)

	n := len(points)
	locations := make([][]float64, 0, n)
	for _, pt := range points {
		locations = append(locations, pt.LngLat())
	}

	sources := make([]int, 0, n-1)
	destinations := make([]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		sources = append(sources, i)
		destinations = append(destinations, i+1)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: destinations,
		Metrics:      []string{"distance", "duration"},
		Sources:      sources,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != n-1 || len(mr.Durations) != n-1 {
		return nil, fmt.Errorf(
			"expected %d source rows; got distances=%d durations=%d",
			n-1, len(mr.Distances), len(mr.Durations),
		)
	}

	out := make([]ports.LegResult, n-1)
	for i := 0; i < n-1; i++ {
		if len(mr.Distances[i]) != n-1 || len(mr.Durations[i]) != n-1 {
			return nil, fmt.Errorf("matrix row %d has unexpected length", i)
		}

		meters := mr.Distances[i][i]
		seconds := mr.Durations[i][i]
		if meters == nil || seconds == nil {
			return nil, fmt.Errorf("matrix returned no route for leg %d", i)
		}

		// ORS returns float metrics; round to whole units for caching.
		out[i] = ports.LegResult{
			DistanceMeters:  int(math.Round(*meters)),
			DurationSeconds: int(math.Round(*seconds)),
		}
	}

	return out, nil
}
