package travel

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
	"github.com/benjamincrom/hikewithben-search/pkg/retry"
)

const (
	googleGeocodeURL        = "https://maps.googleapis.com/maps/api/geocode/json"
	googleDistanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	defaultGeocodeCacheTTL  = 60 * 60 * 24 * 30
	defaultHTTPTimeout      = 8 * time.Second

	secondsInHour = 3600.0
	metersInMile  = 1609.34
)

// Options overrides endpoints and transport behaviour (used for tests).
type Options struct {
	GeocodeURL        string
	DistanceMatrixURL string
	HTTPClient        *http.Client
	Retry             *retry.Config
	Metrics           *observability.Metrics
}

// GoogleTravelProvider implements TravelProvider with the Google Maps
// Geocoding and Distance Matrix APIs.
type GoogleTravelProvider struct {
	apiKey      string
	httpClient  *http.Client
	cache       providers.CacheProvider
	geocodeURL  string
	distanceURL string
	retryConfig retry.Config
	metrics     *observability.Metrics
}

// NewGoogleTravelProvider creates a new Google travel provider.
func NewGoogleTravelProvider(apiKey string, cache providers.CacheProvider) providers.TravelProvider {
	return NewGoogleTravelProviderWithOptions(apiKey, cache, Options{})
}

// NewGoogleTravelProviderWithOptions creates a Google travel provider with overrides.
func NewGoogleTravelProviderWithOptions(apiKey string, cache providers.CacheProvider, opts Options) providers.TravelProvider {
	geocodeURL := strings.TrimSpace(opts.GeocodeURL)
	if geocodeURL == "" {
		geocodeURL = googleGeocodeURL
	}
	distanceURL := strings.TrimSpace(opts.DistanceMatrixURL)
	if distanceURL == "" {
		distanceURL = googleDistanceMatrixURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	retryConfig := retry.DefaultConfig()
	if opts.Retry != nil {
		retryConfig = *opts.Retry
	}
	return &GoogleTravelProvider{
		apiKey:      apiKey,
		httpClient:  httpClient,
		cache:       cache,
		geocodeURL:  geocodeURL,
		distanceURL: distanceURL,
		retryConfig: retryConfig,
		metrics:     opts.Metrics,
	}
}

// Geocode converts an address to coordinates. An unreachable service or an
// address with no results yields nil without error.
func (g *GoogleTravelProvider) Geocode(ctx context.Context, address string) (*entities.Coordinate, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	logger := observability.LoggerFromContext(ctx)

	cacheKey := "geo:v1:geocode:" + hashKey(strings.ToLower(trimmed))
	if coord, ok := g.cachedCoordinate(ctx, cacheKey); ok {
		observability.RecordGeocodeCache(ctx, g.metrics, true)
		return coord, nil
	}
	observability.RecordGeocodeCache(ctx, g.metrics, false)

	var resp googleGeocodeResponse
	err := g.getJSON(ctx, "geocode", g.geocodeURL, url.Values{"address": []string{trimmed}}, &resp)
	if err != nil {
		logger.Warn().Err(err).Str("address", trimmed).Msg("geocode service unavailable")
		return nil, nil
	}

	if resp.Status != "OK" || len(resp.Results) == 0 {
		if resp.Status != "ZERO_RESULTS" {
			logger.Warn().Str("status", resp.Status).Str("error_message", resp.ErrorMessage).Msg("geocode request rejected")
		}
		return nil, nil
	}

	loc := resp.Results[0].Geometry.Location
	coord := &entities.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}

	if g.cache != nil {
		if payload, err := json.Marshal(coord); err == nil {
			if err := g.cache.Set(ctx, cacheKey, payload, defaultGeocodeCacheTTL); err != nil {
				logger.Debug().Err(err).Msg("failed to cache geocode result")
			}
		}
	}

	return coord, nil
}

// TravelBetween returns driving duration and distance between two points.
// An unreachable service or an empty matrix yields nil without error.
func (g *GoogleTravelProvider) TravelBetween(ctx context.Context, origin, destination entities.Coordinate) (*entities.TravelMetrics, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	params := url.Values{}
	params.Set("origins", formatCoordinate(origin))
	params.Set("destinations", formatCoordinate(destination))
	params.Set("mode", "driving")

	var resp googleDistanceMatrixResponse
	if err := g.getJSON(ctx, "distancematrix", g.distanceURL, params, &resp); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("distance matrix service unavailable")
		return nil, nil
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, nil
	}

	return extractTravelMetrics(resp.Rows[0].Elements[0]), nil
}

func extractTravelMetrics(element googleMatrixElement) *entities.TravelMetrics {
	metrics := &entities.TravelMetrics{}
	if element.Duration != nil {
		hours := element.Duration.Value / secondsInHour
		metrics.DurationHours = &hours
	}
	if element.Distance != nil {
		miles := element.Distance.Value / metersInMile
		metrics.DistanceMiles = &miles
	}
	return metrics
}

func (g *GoogleTravelProvider) cachedCoordinate(ctx context.Context, key string) (*entities.Coordinate, bool) {
	if g.cache == nil {
		return nil, false
	}
	cached, err := g.cache.Get(ctx, key)
	if err != nil || len(cached) == 0 {
		return nil, false
	}
	var coord entities.Coordinate
	if err := json.Unmarshal(cached, &coord); err != nil {
		return nil, false
	}
	return &coord, true
}

// getJSON performs a GET with retry on transport failures and 5xx responses.
func (g *GoogleTravelProvider) getJSON(ctx context.Context, service, baseURL string, params url.Values, out any) error {
	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	logger := observability.LoggerFromContext(ctx)
	return retry.DoWithLog(ctx, g.retryConfig, service, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to build %s request: %w", service, err))
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s request failed: %w", service, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s request returned status %d", service, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return retry.Permanent(fmt.Errorf("%s request returned status %d", service, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode %s response: %w", service, err))
		}
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		logger.Debug().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("retrying travel request")
	})
}

func formatCoordinate(c entities.Coordinate) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleDistanceMatrixResponse struct {
	Status string            `json:"status"`
	Rows   []googleMatrixRow `json:"rows"`
}

type googleMatrixRow struct {
	Elements []googleMatrixElement `json:"elements"`
}

type googleMatrixElement struct {
	Status   string             `json:"status"`
	Duration *googleMatrixValue `json:"duration,omitempty"`
	Distance *googleMatrixValue `json:"distance,omitempty"`
}

type googleMatrixValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}
