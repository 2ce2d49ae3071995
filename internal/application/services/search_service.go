package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/domain/repositories"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
)

// SearchServiceOptions overrides collaborators of the search service.
type SearchServiceOptions struct {
	Metrics *observability.Metrics
	Now     func() time.Time
}

// SearchService runs the recarea search pipeline
type SearchService struct {
	repo    repositories.RecAreaRepository
	travel  providers.TravelProvider
	metrics *observability.Metrics
	now     func() time.Time
}

// NewSearchService creates a new search service
func NewSearchService(repo repositories.RecAreaRepository, travel providers.TravelProvider) *SearchService {
	return NewSearchServiceWithOptions(repo, travel, SearchServiceOptions{})
}

// NewSearchServiceWithOptions creates a search service with overrides
func NewSearchServiceWithOptions(repo repositories.RecAreaRepository, travel providers.TravelProvider, opts SearchServiceOptions) *SearchService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SearchService{
		repo:    repo,
		travel:  travel,
		metrics: opts.Metrics,
		now:     now,
	}
}

// SearchParams parses raw query parameters against the service clock and
// runs the search.
func (s *SearchService) SearchParams(ctx context.Context, params map[string]string) (*entities.SearchResult, error) {
	query, err := ParseSearchQuery(params, s.now())
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query)
}

// Search runs every pipeline stage for one query. An unresolvable home
// address yields an empty result with a nil Home.
func (s *SearchService) Search(ctx context.Context, query entities.SearchQuery) (*entities.SearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	run := &searchRun{service: s, query: query, span: span}
	result, err := run.execute(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span,
		attribute.Bool("search.home_resolved", result.Home != nil),
		attribute.Int("search.result_count", len(result.RecAreas)),
	)
	observability.RecordSearchResult(ctx, s.metrics, len(result.RecAreas), result.Home != nil)
	return result, nil
}

// searchRun holds the state of a single search.
type searchRun struct {
	service *SearchService
	query   entities.SearchQuery
	span    trace.Span
}

func (r *searchRun) execute(ctx context.Context) (*entities.SearchResult, error) {
	logger := observability.LoggerFromContext(ctx)

	home, err := r.resolveHome(ctx)
	if err != nil {
		return nil, err
	}
	if home == nil {
		logger.Warn().Str("home_address", r.query.HomeAddress).Msg("home address could not be resolved")
		return &entities.SearchResult{RecAreas: []*entities.RecArea{}}, nil
	}

	small, err := r.listSmall(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	candidates := filterByName(sortedSmall(small), r.query.NameContains)
	r.finishStage(ctx, "name", start, len(candidates))

	start = time.Now()
	candidates = filterByDistance(candidates, *home, r.query.MinDistance, r.query.MaxDistance)
	r.finishStage(ctx, "distance", start, len(candidates))

	recareas, err := r.hydrate(ctx, candidates)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	kept := make([]*entities.RecArea, 0, len(recareas))
	for _, rec := range recareas {
		rec.Weather = filterWeather(rec.Weather, r.query)
		if r.query.WeekendsOnly {
			rec.Weather = filterWeekends(rec.Weather)
		}
		reservable := applyReservations(rec)
		if r.query.ShowOnlyAvailable && !reservable {
			continue
		}
		kept = append(kept, rec)
	}
	r.finishStage(ctx, "conditions", start, len(kept))

	start = time.Now()
	sortResults(kept)
	r.finishStage(ctx, "sort", start, len(kept))

	return &entities.SearchResult{Home: home, RecAreas: kept}, nil
}

func (r *searchRun) resolveHome(ctx context.Context) (*entities.Coordinate, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.resolveHome")
	defer span.End()

	home, err := r.service.travel.Geocode(ctx, r.query.HomeAddress)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return home, nil
}

func (r *searchRun) listSmall(ctx context.Context) (map[string]*entities.SmallRecArea, error) {
	start := time.Now()
	small, err := r.service.repo.ListSmall(ctx)
	observability.RecordStoreMetric(ctx, r.service.metrics, "list_small", time.Since(start))
	if err != nil {
		return nil, err
	}
	observability.LoggerFromContext(ctx).Debug().Int("count", len(small)).Msg("loaded small recareas")
	return small, nil
}

// hydrate loads the full record for every candidate. A candidate without a
// full record means the cache is inconsistent and fails the search.
func (r *searchRun) hydrate(ctx context.Context, candidates []*entities.SmallRecArea) ([]*entities.RecArea, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.hydrate")
	defer span.End()

	start := time.Now()
	out := make([]*entities.RecArea, 0, len(candidates))
	for _, small := range candidates {
		readStart := time.Now()
		rec, err := r.service.repo.GetFull(ctx, small.ID)
		observability.RecordStoreMetric(ctx, r.service.metrics, "get_full", time.Since(readStart))
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				err = apperrors.NewIntegrityError(
					fmt.Sprintf("recarea %s has a summary record but no full record", small.ID), err)
				observability.LoggerFromContext(ctx).Error().Err(err).Str("recarea_id", small.ID).Msg("recarea cache is inconsistent")
			}
			observability.RecordError(span, err)
			return nil, err
		}
		rec.DistanceFromHome = small.DistanceFromHome
		out = append(out, rec)
	}
	r.finishStage(ctx, "hydrate", start, len(out))
	return out, nil
}

func (r *searchRun) finishStage(ctx context.Context, stage string, start time.Time, kept int) {
	observability.RecordSearchStage(ctx, r.service.metrics, stage, time.Since(start))
	r.span.AddEvent("search.stage", trace.WithAttributes(
		attribute.String("search.stage", stage),
		attribute.Int("search.kept", kept),
	))
	observability.LoggerFromContext(ctx).Debug().Str("stage", stage).Int("kept", kept).Msg("search stage complete")
}
