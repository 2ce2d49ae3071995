package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/domain/repositories"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
)

const (
	smallKeySuffix  = "_small"
	smallKeyPattern = "*" + smallKeySuffix + "*"
)

// RecAreaStore reads recarea records from the cache. Summary records live
// under "<id>_small", full records under "<id>".
type RecAreaStore struct {
	cache providers.CacheProvider
}

// NewRecAreaStore creates a new cache-backed recarea repository
func NewRecAreaStore(cache providers.CacheProvider) repositories.RecAreaRepository {
	return &RecAreaStore{cache: cache}
}

// SmallKey returns the cache key of a recarea's summary record.
func SmallKey(id string) string {
	return id + smallKeySuffix
}

// ListSmall returns all cached summary records keyed by recarea id.
func (s *RecAreaStore) ListSmall(ctx context.Context) (map[string]*entities.SmallRecArea, error) {
	keys, err := s.cache.Keys(ctx, smallKeyPattern)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list recarea keys", err)
	}

	values, err := s.cache.GetMany(ctx, keys)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load recarea summaries", err)
	}

	out := make(map[string]*entities.SmallRecArea, len(values))
	for key, payload := range values {
		id, _, _ := strings.Cut(key, "_")
		var small entities.SmallRecArea
		if err := json.Unmarshal(payload, &small); err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("invalid summary record %s", key), err)
		}
		// the key, not the payload, is authoritative for hydration
		small.ID = id
		out[id] = &small
	}

	if skipped := len(keys) - len(values); skipped > 0 {
		observability.LoggerFromContext(ctx).Debug().Int("skipped", skipped).Msg("summary keys disappeared before fetch")
	}
	return out, nil
}

// GetFull returns the full record for id.
func (s *RecAreaStore) GetFull(ctx context.Context, id string) (*entities.RecArea, error) {
	payload, err := s.cache.Get(ctx, id)
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("recarea %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to load recarea %s", id), err)
	}

	var recarea entities.RecArea
	if err := json.Unmarshal(payload, &recarea); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("invalid recarea record %s", id), err)
	}
	return &recarea, nil
}
