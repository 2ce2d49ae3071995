package providers

import (
	"context"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
)

// TravelProvider resolves addresses and point-to-point travel metrics.
//
// Both lookups report an unreachable or empty upstream as a nil result with a
// nil error; callers treat that as "unknown".
type TravelProvider interface {
	// Geocode converts a free-text address to coordinates
	Geocode(ctx context.Context, address string) (*entities.Coordinate, error)

	// TravelBetween returns driving duration and distance between two points
	TravelBetween(ctx context.Context, origin, destination entities.Coordinate) (*entities.TravelMetrics, error)
}
