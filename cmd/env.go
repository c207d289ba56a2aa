package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/cache"
	"github.com/KeenanSylo/TreasureHunt/internal/marketplace"
	"github.com/KeenanSylo/TreasureHunt/internal/resilience"
	"github.com/KeenanSylo/TreasureHunt/internal/search"
	"github.com/KeenanSylo/TreasureHunt/internal/store"
	"github.com/KeenanSylo/TreasureHunt/internal/valuation"
	anthropicpkg "github.com/KeenanSylo/TreasureHunt/pkg/anthropic"
	"github.com/KeenanSylo/TreasureHunt/pkg/ebay"
	"github.com/KeenanSylo/TreasureHunt/pkg/upstash"
	"github.com/KeenanSylo/TreasureHunt/pkg/vinted"
)

// appEnv holds the initialized clients, stores, and the orchestrator
// shared by the search and serve commands.
type appEnv struct {
	Orchestrator *search.Orchestrator
	Items        store.Store
	Cache        cache.Store
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
	if e.Items != nil {
		_ = e.Items.Close()
	}
}

// initEnv validates config and builds the full search stack. Callers
// should defer env.Close().
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	cacheStore, err := initCache()
	if err != nil {
		return nil, err
	}

	items, err := initItemStore(ctx)
	if err != nil {
		_ = cacheStore.Close()
		return nil, err
	}

	ebayClient := ebay.NewClient(cfg.Ebay.ClientID, cfg.Ebay.ClientSecret,
		ebay.WithBaseURL(cfg.Ebay.BaseURL))
	vintedClient := vinted.NewClient(
		vinted.WithBaseURL(cfg.Vinted.BaseURL),
		vinted.WithDomain(cfg.Vinted.Domain))
	sources := []marketplace.Source{
		marketplace.NewEbaySource(ebayClient),
		marketplace.NewVintedSource(vintedClient, cfg.Vinted.Domain),
	}

	fallback := valuation.NewEngine()
	if cfg.Valuation.HeuristicsFile != "" {
		fallback, err = valuation.NewEngineFromFile(cfg.Valuation.HeuristicsFile)
		if err != nil {
			_ = cacheStore.Close()
			_ = items.Close()
			return nil, eris.Wrap(err, "load heuristics")
		}
		zap.L().Info("heuristics loaded", zap.String("file", cfg.Valuation.HeuristicsFile))
	}

	oracle := valuation.NewOracle(anthropicpkg.NewClient(cfg.Anthropic.Key), valuation.OracleConfig{
		Model:        cfg.Anthropic.Model,
		ImageTimeout: time.Duration(cfg.Valuation.ImageTimeoutSecs) * time.Second,
		Breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.Valuation.BreakerThreshold,
			ResetTimeout:     time.Duration(cfg.Valuation.BreakerResetSecs) * time.Second,
		}),
	})
	appraiser := valuation.NewSafeAppraiser(oracle, fallback)

	orchestrator := search.NewOrchestrator(sources, appraiser, cacheStore, search.Config{
		TopK:          cfg.Search.TopK,
		SourceLimit:   cfg.Search.Limit,
		SourceTimeout: time.Duration(cfg.Search.SourceTimeoutSecs) * time.Second,
		CacheTTL:      time.Duration(cfg.Search.CacheTTLHours) * time.Hour,
	})

	return &appEnv{
		Orchestrator: orchestrator,
		Items:        items,
		Cache:        cacheStore,
	}, nil
}

func initCache() (cache.Store, error) {
	switch cfg.Cache.Driver {
	case "upstash":
		zap.L().Info("using upstash cache")
		return cache.NewUpstash(upstash.NewClient(cfg.Cache.URL, cfg.Cache.Token)), nil
	default:
		zap.L().Info("using sqlite cache", zap.String("path", cfg.Cache.Path))
		return cache.NewSQLite(cfg.Cache.Path)
	}
}

func initItemStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	var err error

	switch cfg.Store.Driver {
	case "postgres":
		zap.L().Info("using postgres store")
		var poolCfg *store.PoolConfig
		if cfg.Store.Pool != nil {
			poolCfg = &store.PoolConfig{
				MaxConns: cfg.Store.Pool.MaxConns,
				MinConns: cfg.Store.Pool.MinConns,
			}
		}
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, poolCfg)
	default:
		zap.L().Info("using sqlite store", zap.String("path", cfg.Store.Path))
		st, err = store.NewSQLite(cfg.Store.Path)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
