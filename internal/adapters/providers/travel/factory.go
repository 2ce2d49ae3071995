package travel

import (
	"net/http"

	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	"github.com/benjamincrom/hikewithben-search/pkg/config"
	"github.com/benjamincrom/hikewithben-search/pkg/retry"
)

// NewTravelProvider builds the configured provider. The mock provider is used
// when requested or when no API key is available.
func NewTravelProvider(cfg *config.TravelConfig, cache providers.CacheProvider, metrics *observability.Metrics) providers.TravelProvider {
	if cfg.Provider == "mock" || cfg.APIKey == "" {
		observability.GetLogger().Warn().Str("provider", cfg.Provider).Msg("using mock travel provider")
		return NewMockTravelProvider()
	}

	retryConfig := retry.DefaultConfig()
	if cfg.RetryAttempts > 0 {
		retryConfig.MaxAttempts = cfg.RetryAttempts
	}
	return NewGoogleTravelProviderWithOptions(cfg.APIKey, cache, Options{
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Retry:      &retryConfig,
		Metrics:    metrics,
	})
}
