package geocode

import (
	"context"
	"delivery-area-service/internal/domain"
	"sync"
)

// MockGeocoder resolves addresses from a fixed table and records calls.
type MockGeocoder struct {
	mu    sync.Mutex
	table map[string]domain.GeoPoint
	Err   error
	Calls [][]string
}

func NewMockGeocoder(table map[string]domain.GeoPoint) *MockGeocoder {
	return &MockGeocoder{table: table}
}

func (m *MockGeocoder) GeocodeMany(_ context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, append([]string(nil), addresses...))
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]domain.GeoPoint)
	for _, a := range addresses {
		if p, ok := m.table[domain.NormalizeAddress(a)]; ok {
			out[domain.NormalizeAddress(a)] = p
		}
	}
	return out, nil
}
