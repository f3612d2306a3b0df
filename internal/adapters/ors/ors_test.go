package ors

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/ports"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000), withBackoff(time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestGeocodeMany(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing api key header")
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("text") {
		case "1 Main St":
			w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-112.07,33.45]}}]}`))
		default:
			w.Write([]byte(`{"features":[]}`))
		}
	}))

	got, err := c.GeocodeMany(context.Background(), []string{"1  Main St", "1 Main St", "Unknown Rd", "  "})
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}

	if calls.Load() != 2 {
		t.Fatalf("expected 2 upstream calls after dedup, got %d", calls.Load())
	}
	want := domain.GeoPoint{Lat: 33.45, Lng: -112.07}
	if len(got) != 1 || got["1 Main St"] != want {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestGeocodeRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[1,2]}}]}`))
	}))

	got, err := c.GeocodeMany(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if got["x"] != (domain.GeoPoint{Lat: 2, Lng: 1}) {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestGeocodeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))

	_, err := c.GeocodeMany(context.Background(), []string{"x"})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

type memLegCache struct {
	m map[string]ports.LegResult
}

func (c *memLegCache) GetMany(_ context.Context, legs []string) (map[string]ports.LegResult, error) {
	out := make(map[string]ports.LegResult)
	for _, l := range legs {
		if r, ok := c.m[l]; ok {
			out[l] = r
		}
	}
	return out, nil
}

func (c *memLegCache) PutMany(_ context.Context, results map[string]ports.LegResult) error {
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func TestLegDurations(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v2/matrix/driving-car" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req matrixRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Sources) != 2 || len(req.Destinations) != 2 || req.Destinations[0] != 1 {
			t.Errorf("unexpected sources/destinations %v %v", req.Sources, req.Destinations)
		}

		w.Write([]byte(`{
			"distances": [[1000, 3000], [9999, 2000]],
			"durations": [[120, 360], [9999, 240]]
		}`))
	}))

	cache := &memLegCache{m: map[string]ports.LegResult{}}
	p := NewTravelTimeProvider(c, cache)

	points := []domain.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 0.01}, {Lat: 0, Lng: 0.02}}
	got, err := p.LegDurations(context.Background(), points)
	if err != nil {
		t.Fatalf("leg durations: %v", err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("durations = %v, want [2 4]", got)
	}

	// Second call is served from cache.
	if _, err := p.LegDurations(context.Background(), points); err != nil {
		t.Fatalf("leg durations (cached): %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestLegDurationsShortPath(t *testing.T) {
	c, _ := NewClient("k")
	got, err := NewTravelTimeProvider(c, nil).LegDurations(context.Background(), []domain.GeoPoint{{}})
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v, %v", got, err)
	}
}
