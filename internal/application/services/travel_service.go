package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
	"github.com/benjamincrom/hikewithben-search/pkg/geo"
)

// TravelService exposes address lookups and point-to-point travel metrics
type TravelService struct {
	provider providers.TravelProvider
}

// NewTravelService creates a new travel service
func NewTravelService(provider providers.TravelProvider) *TravelService {
	return &TravelService{provider: provider}
}

// Geocode resolves an address. A nil coordinate means the address is unknown
// or the upstream service is unavailable.
func (s *TravelService) Geocode(ctx context.Context, address string) (*entities.Coordinate, error) {
	ctx, span := observability.StartSpan(ctx, "TravelService.Geocode")
	defer span.End()

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apperrors.NewValidationError("address is required")
	}

	coord, err := s.provider.Geocode(ctx, address)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSpanAttributes(span, attribute.Bool("geocode.found", coord != nil))
	return coord, nil
}

// TravelBetween returns driving metrics between two coordinates. A nil result
// means the upstream service is unavailable.
func (s *TravelService) TravelBetween(ctx context.Context, origin, destination entities.Coordinate) (*entities.TravelMetrics, error) {
	ctx, span := observability.StartSpan(ctx, "TravelService.TravelBetween")
	defer span.End()

	if !geo.Valid(origin) {
		return nil, apperrors.NewValidationError("origin is not a valid coordinate")
	}
	if !geo.Valid(destination) {
		return nil, apperrors.NewValidationError("destination is not a valid coordinate")
	}

	metrics, err := s.provider.TravelBetween(ctx, origin, destination)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return metrics, nil
}
