package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
)

// summaryFields are copied from a full record into its summary record.
var summaryFields = []string{"RecAreaID", "RecAreaName", "RecAreaLatitude", "RecAreaLongitude"}

// Loader writes recarea records into the cache in the layout RecAreaStore reads.
type Loader struct {
	cache providers.CacheProvider
}

// NewLoader creates a loader over cache.
func NewLoader(cache providers.CacheProvider) *Loader {
	return &Loader{cache: cache}
}

// Load stores each full record under "<id>" and its summary under "<id>_small".
// It returns the number of records written.
func (l *Loader) Load(ctx context.Context, records []json.RawMessage) (int, error) {
	logger := observability.LoggerFromContext(ctx)

	written := 0
	for i, record := range records {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(record, &raw); err != nil {
			return written, apperrors.NewValidationError(fmt.Sprintf("record %d is not a JSON object", i))
		}

		var small entities.SmallRecArea
		if err := json.Unmarshal(record, &small); err != nil {
			return written, apperrors.NewValidationError(fmt.Sprintf("record %d: %v", i, err))
		}
		if small.ID == "" || strings.Contains(small.ID, "_") {
			return written, apperrors.NewValidationError(fmt.Sprintf("record %d has invalid RecAreaID %q", i, small.ID))
		}

		summary := make(map[string]json.RawMessage, len(summaryFields))
		for _, field := range summaryFields {
			if v, ok := raw[field]; ok {
				summary[field] = v
			}
		}
		summaryJSON, err := json.Marshal(summary)
		if err != nil {
			return written, apperrors.NewInternalError("failed to encode summary record", err)
		}

		if err := l.cache.Set(ctx, small.ID, record, 0); err != nil {
			return written, apperrors.NewInternalError(fmt.Sprintf("failed to store recarea %s", small.ID), err)
		}
		if err := l.cache.Set(ctx, SmallKey(small.ID), summaryJSON, 0); err != nil {
			return written, apperrors.NewInternalError(fmt.Sprintf("failed to store recarea summary %s", small.ID), err)
		}
		written++
	}

	logger.Info().Int("records", written).Msg("recareas loaded")
	return written, nil
}
