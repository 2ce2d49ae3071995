package main

import (
	"fmt"

	"github.com/benjamincrom/hikewithben-search/internal/adapters/cache"
	"github.com/benjamincrom/hikewithben-search/internal/adapters/providers/travel"
	"github.com/benjamincrom/hikewithben-search/internal/adapters/store"
	"github.com/benjamincrom/hikewithben-search/internal/application/services"
	"github.com/benjamincrom/hikewithben-search/internal/domain/providers"
	"github.com/benjamincrom/hikewithben-search/internal/infrastructure/clients/redis"
	"github.com/benjamincrom/hikewithben-search/pkg/config"
)

// app wires the services a command needs from environment configuration
type app struct {
	redis  *redis.Client
	cache  providers.CacheProvider
	search *services.SearchService
	travel *services.TravelService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	client, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	cacheProvider := cache.NewRedisAdapter(client)
	travelProvider := travel.NewTravelProvider(&cfg.Travel, cacheProvider, nil)

	return &app{
		redis:  client,
		cache:  cacheProvider,
		search: services.NewSearchService(store.NewRecAreaStore(cacheProvider), travelProvider),
		travel: services.NewTravelService(travelProvider),
	}, nil
}

func (a *app) Close() error {
	return a.redis.Close()
}
