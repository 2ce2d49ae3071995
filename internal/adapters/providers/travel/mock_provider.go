package travel

import (
	"context"
	"strings"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/pkg/geo"
)

const mockAverageSpeedMPH = 50.0

// MockTravelProvider implements a fixed-table travel provider for development
// and tests
type MockTravelProvider struct {
	places map[string]entities.Coordinate
}

// NewMockTravelProvider creates a new mock travel provider
func NewMockTravelProvider() providers.TravelProvider {
	return &MockTravelProvider{
		places: map[string]entities.Coordinate{
			"atlanta":     {Latitude: 33.7490, Longitude: -84.3880},
			"asheville":   {Latitude: 35.5951, Longitude: -82.5515},
			"chattanooga": {Latitude: 35.0456, Longitude: -85.3097},
			"knoxville":   {Latitude: 35.9606, Longitude: -83.9207},
			"savannah":    {Latitude: 32.0809, Longitude: -81.0912},
			"washington":  {Latitude: 38.8977, Longitude: -77.0365},
		},
	}
}

// Geocode matches the address against known city names; unknown addresses
// are reported as absent
func (m *MockTravelProvider) Geocode(ctx context.Context, address string) (*entities.Coordinate, error) {
	lower := strings.ToLower(address)
	for city, coord := range m.places {
		if strings.Contains(lower, city) {
			c := coord
			return &c, nil
		}
	}
	return nil, nil
}

// TravelBetween returns straight-line distance at a fixed average speed
func (m *MockTravelProvider) TravelBetween(ctx context.Context, origin, destination entities.Coordinate) (*entities.TravelMetrics, error) {
	miles := geo.Distance(origin, destination)
	hours := miles / mockAverageSpeedMPH
	return &entities.TravelMetrics{
		DurationHours: &hours,
		DistanceMiles: &miles,
	}, nil
}
