// Package search coordinates one treasure hunt: fan out over the
// marketplaces, merge by price, appraise the cheapest listings that
// have photos, and cache the finished response.
package search

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KeenanSylo/TreasureHunt/internal/cache"
	"github.com/KeenanSylo/TreasureHunt/internal/marketplace"
	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/internal/valuation"
)

// bundleQueryTerms is appended to the search text in bundle mode so the
// marketplaces surface multi-item lots.
const bundleQueryTerms = "lot bundle job lot"

// Config bounds one search run.
type Config struct {
	// TopK is how many priced-and-photographed listings get a full
	// appraisal per search. It also caps appraisal concurrency.
	TopK int

	// SourceLimit is the per-marketplace listing cap.
	SourceLimit int

	// SourceTimeout bounds each marketplace search. A slow source
	// contributes nothing rather than stalling the whole run.
	SourceTimeout time.Duration

	// CacheTTL is how long a finished response stays valid.
	CacheTTL time.Duration
}

// DefaultConfig returns the production bounds.
func DefaultConfig() Config {
	return Config{
		TopK:          5,
		SourceLimit:   10,
		SourceTimeout: 10 * time.Second,
		CacheTTL:      24 * time.Hour,
	}
}

// Orchestrator runs searches end to end.
type Orchestrator struct {
	sources   []marketplace.Source
	appraiser *valuation.SafeAppraiser
	store     cache.Store
	cfg       Config
}

// NewOrchestrator wires the orchestrator. Sources are searched
// concurrently in the order given; that order is the tiebreak for
// equal-priced listings.
func NewOrchestrator(sources []marketplace.Source, appraiser *valuation.SafeAppraiser, store cache.Store, cfg Config) *Orchestrator {
	return &Orchestrator{
		sources:   sources,
		appraiser: appraiser,
		store:     store,
		cfg:       cfg,
	}
}

// Handle executes one search. The only error it returns is
// model.ErrInvalidQuery; marketplace, appraisal, and cache failures all
// degrade to partial results instead of failing the run.
func (o *Orchestrator) Handle(ctx context.Context, query model.SearchQuery) (*model.SearchResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	effective := query
	if query.Bundle {
		effective.Text = query.Text + " " + bundleQueryTerms
	}
	key := effective.CacheKey()

	if resp, ok := o.cached(ctx, key); ok {
		zap.L().Info("search cache hit", zap.String("key", key))
		return resp, nil
	}

	listings := o.fanOut(ctx, effective)
	results := o.appraise(ctx, query, listings)

	resp := &model.SearchResponse{
		Query:    query.Text,
		MaxPrice: query.MaxPrice,
		Cached:   false,
		Results:  results,
	}
	o.storeResponse(ctx, key, resp)
	return resp, nil
}

// cached attempts a cache lookup. Any failure, including a corrupt
// entry, counts as a miss.
func (o *Orchestrator) cached(ctx context.Context, key string) (*model.SearchResponse, bool) {
	raw, found, err := o.store.Get(ctx, key)
	if err != nil {
		zap.L().Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var resp model.SearchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		zap.L().Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	resp.Cached = true
	return &resp, true
}

// fanOut searches every marketplace concurrently and merges whatever
// came back. A failed or timed-out source logs and contributes nothing.
func (o *Orchestrator) fanOut(ctx context.Context, query model.SearchQuery) []model.Listing {
	batches := make([][]model.Listing, len(o.sources))

	var g errgroup.Group
	for i, src := range o.sources {
		g.Go(func() error {
			srcCtx, cancel := context.WithTimeout(ctx, o.cfg.SourceTimeout)
			defer cancel()

			listings, err := src.Search(srcCtx, query.Text, query.MaxPrice, o.cfg.SourceLimit)
			if err != nil {
				zap.L().Warn("marketplace search failed",
					zap.String("marketplace", string(src.Name())),
					zap.Error(err),
				)
				return nil
			}
			batches[i] = listings
			return nil
		})
	}
	g.Wait()

	return Merge(batches...)
}

// appraise values the top candidates concurrently and fills in
// synthetic valuations for everything else, preserving price order.
func (o *Orchestrator) appraise(ctx context.Context, query model.SearchQuery, listings []model.Listing) []model.AnalyzedResult {
	candidates := SelectForAppraisal(listings, o.cfg.TopK)

	valuations := make(map[int]model.Valuation, len(candidates))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(o.cfg.TopK)
	for _, idx := range candidates {
		l := listings[idx]
		g.Go(func() error {
			v := o.appraiser.Appraise(ctx, valuation.Request{
				ImageURLs:     []string{l.ImageURL},
				DeclaredTitle: l.DeclaredTitle,
				ListedPrice:   l.ListedPrice,
				CategoryHint:  query.Text,
				Bundle:        query.Bundle,
			})
			mu.Lock()
			valuations[idx] = v
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	results := make([]model.AnalyzedResult, 0, len(listings))
	for i, l := range listings {
		v, ok := valuations[i]
		if !ok {
			v = syntheticValuation(l)
		}
		results = append(results, model.NewAnalyzedResult(l, v))
	}
	return results
}

// syntheticValuation stands in for listings that never reached the
// appraiser. The zero estimate makes their profit potential the
// negative of the asking price, so they rank below any real find.
func syntheticValuation(l model.Listing) model.Valuation {
	reason := "not analyzed"
	if l.ImageURL == "" {
		reason = "no image available"
	}
	return model.Valuation{
		RealTitle:  l.DeclaredTitle,
		Confidence: model.ConfidenceLow,
		Reasoning:  reason,
	}
}

// storeResponse writes the response back to the cache. Failure is
// logged and otherwise ignored; the caller still gets fresh results.
func (o *Orchestrator) storeResponse(ctx context.Context, key string, resp *model.SearchResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		zap.L().Warn("marshal response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := o.store.Set(ctx, key, string(payload), o.cfg.CacheTTL); err != nil {
		zap.L().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
