package repositories

import (
	"context"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
)

// RecAreaRepository defines read access to the precomputed recarea cache
type RecAreaRepository interface {
	// ListSmall returns every cached summary record keyed by recarea id
	ListSmall(ctx context.Context) (map[string]*entities.SmallRecArea, error)

	// GetFull returns the full record for id, or a NOT_FOUND AppError
	GetFull(ctx context.Context, id string) (*entities.RecArea, error)
}
