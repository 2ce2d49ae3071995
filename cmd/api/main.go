package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/benjamincrom/hikewithben-search/internal/adapters/cache"
	"github.com/benjamincrom/hikewithben-search/internal/adapters/providers/travel"
	"github.com/benjamincrom/hikewithben-search/internal/adapters/store"
	"github.com/benjamincrom/hikewithben-search/internal/api/handlers"
	"github.com/benjamincrom/hikewithben-search/internal/api/middleware"
	"github.com/benjamincrom/hikewithben-search/internal/api/routes"
	"github.com/benjamincrom/hikewithben-search/internal/application/services"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/clients/redis"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/observability"
	"github.com/benjamincrom/hikewithben-search/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// The recarea cache is the only data source, so Redis is required
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize Redis client")
	}
	defer redisClient.Close()
	logger.Info().Msg("Redis client initialized")

	cacheProvider := cache.NewRedisAdapter(redisClient)
	recAreaStore := store.NewRecAreaStore(cacheProvider)
	travelProvider := travel.NewTravelProvider(&cfg.Travel, cacheProvider, metrics)

	searchService := services.NewSearchServiceWithOptions(recAreaStore, travelProvider, services.SearchServiceOptions{
		Metrics: metrics,
	})
	travelService := services.NewTravelService(travelProvider)

	var cacheMiddleware *middleware.CacheMiddleware
	if cfg.Server.ResponseCacheTTL > 0 {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, cfg.Server.ResponseCacheTTL)
	}

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewTravelHandler(travelService),
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
