package ors

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"encoding/json"
	"fmt"
	"net/http"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// GeocodeMany resolves addresses one by one using /geocode/search.
// Addresses without a match are omitted from the result.
func (c *Client) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "ors.GeocodeMany")(&err)

	endpoint := c.baseURL + "/geocode/search"

	seen := make(map[string]struct{}, len(addresses))
	out := make(map[string]domain.GeoPoint)
	for _, a := range addresses {
		norm := domain.NormalizeAddress(a)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}

		p, found, err := c.geocodeOne(ctx, endpoint, norm)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", norm, err)
		}
		if found {
			out[norm] = p
		}
	}

	return out, nil
}

func (c *Client) geocodeOne(ctx context.Context, endpoint, text string) (domain.GeoPoint, bool, error) {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		q.Set("size", "1")
		if c.country != "" {
			q.Set("boundary.country", c.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.GeoPoint{}, false, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeoPoint{}, false, fmt.Errorf("invalid coordinate format for %q", text)
	}

	// ORS returns [lng, lat].
	return domain.GeoPoint{Lat: coords[1], Lng: coords[0]}, true, nil
}
