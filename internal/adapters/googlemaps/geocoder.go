package googlemaps

import (
	"context"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"

	maps "googlemaps.github.io/maps"
)

// Geocoder resolves addresses with the Google Maps Geocoding API.
type Geocoder struct {
	client *maps.Client
	region string
}

// NewGeocoder builds a Geocoder. region is an optional ccTLD bias ("jp", "us").
func NewGeocoder(apiKey, region string, opts ...maps.ClientOption) (*Geocoder, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google maps client: %w", err)
	}

	return &Geocoder{client: client, region: region}, nil
}

// GeocodeMany resolves each distinct address. Addresses with no match are
// omitted from the result.
func (g *Geocoder) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "googlemaps.GeocodeMany")(&err)

	out := make(map[string]domain.GeoPoint)
	seen := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		norm := domain.NormalizeAddress(a)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}

		results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: norm, Region: g.region})
		if err != nil {
			if strings.Contains(err.Error(), "ZERO_RESULTS") {
				continue
			}
			return nil, fmt.Errorf("geocode %q: %w", norm, err)
		}
		if len(results) == 0 {
			continue
		}

		loc := results[0].Geometry.Location
		out[norm] = domain.GeoPoint{Lat: loc.Lat, Lng: loc.Lng}
	}

	return out, nil
}
