package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/services"
	"github.com/ersonp/placefolk/internal/infrastructure/cache"
	"github.com/ersonp/placefolk/internal/infrastructure/config"
	"github.com/ersonp/placefolk/internal/infrastructure/metrics"
	"github.com/ersonp/placefolk/internal/infrastructure/wikidata"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and the gateway are internal.
type Deps struct {
	Config    *config.Config
	ScopeName string
	Scope     config.Scope
	Metrics   *metrics.Registry
	Search    *handlers.SearchHandler
	Suggest   *handlers.SuggestHandler
	Logger    *slog.Logger
}

// withDeps loads config from the working directory, builds dependencies,
// then calls the provided function.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	deps, err := buildDeps(cwd, globalScope, slog.Default())
	if err != nil {
		return err
	}
	return fn(deps)
}

// buildDeps wires the gateway, caches, services and handlers for one scope.
// An empty scopeName selects the configured default scope.
func buildDeps(basePath, scopeName string, logger *slog.Logger) (*Deps, error) {
	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scopes, err := config.LoadScopes(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading scopes: %w", err)
	}

	if scopeName == "" {
		scopeName = cfg.DefaultScope
	}
	scope, err := scopes.Get(scopeName)
	if err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("scope %q: %w", scopeName, err)
	}

	reg := metrics.NewRegistry()

	client, err := wikidata.NewClient(cfg.Wikidata,
		wikidata.WithLanguage(scope.Language),
		wikidata.WithMetrics(reg.Gateway),
		wikidata.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating wikidata client: %w", err)
	}

	queries := services.QueryBuilder{
		Country:    entities.EntityID(scope.CountryID),
		Language:   scope.Language,
		PlaceClass: entities.EntityID(scope.PlaceClass),
	}

	maxEntries := cfg.Cache.MaxEntries
	entityCache := cache.New[entities.EntityID](maxEntries, cache.WithMetrics(reg.Cache, cacheEntity))
	regionCache := cache.New[[]entities.EntityID](maxEntries, cache.WithMetrics(reg.Cache, cacheRegions))
	peopleCache := cache.New[[]entities.PersonRecord](maxEntries, cache.WithMetrics(reg.Cache, cachePeople))

	resolver := services.NewResolverService(client, queries, entityCache)
	regions := services.NewRegionService(client, queries, regionCache, cfg.Search.MaxSubRegions)
	collector := services.NewCollectorService(client, queries, regions, peopleCache, cfg.Search.PageSize)
	views := services.NewViewService(cfg.Search.PageSize, scope.Language)
	suggestions := services.NewSuggestionService(client, queries, cfg.Search.SuggestLimit, cfg.Search.MinSuggestLength)

	return &Deps{
		Config:    cfg,
		ScopeName: config.SanitizeScopeName(scopeName),
		Scope:     scope,
		Metrics:   reg,
		Search:    handlers.NewSearchHandler(resolver, collector, views, scope.CountryName, logger),
		Suggest:   handlers.NewSuggestHandler(suggestions, logger),
		Logger:    logger,
	}, nil
}
