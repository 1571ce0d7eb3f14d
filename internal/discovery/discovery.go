// Package discovery runs the multi-source candidate search: concurrent
// fan-out over the network adapters, deterministic priority merge with
// locator dedupe, an ordered fallback chain, and a cache in front of it all.
package discovery

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sourcing-engine/internal/cache"
	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/source"
	"sourcing-engine/internal/source/static"
)

const adapterTimeout = 30 * time.Second

// Orchestrator owns the adapter sets. Concurrent adapters run in parallel on
// every uncached call, in the priority order they are registered; fallbacks
// run sequentially and only when the fan-out yields nothing.
type Orchestrator struct {
	cache      *cache.Gateway
	concurrent []source.Finder
	fallbacks  []source.Finder
	log        *zap.Logger
}

func New(gw *cache.Gateway, concurrent, fallbacks []source.Finder, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		cache:      gw,
		concurrent: concurrent,
		fallbacks:  fallbacks,
		log:        log,
	}
}

// Discover returns at least one candidate stub for any query, capped at
// maxResults. maxResults <= 0 short-circuits to an empty list without
// touching any adapter. Output order is deterministic: adapter priority,
// then first-seen within an adapter, regardless of completion order.
func (o *Orchestrator) Discover(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	if maxResults <= 0 {
		return nil
	}

	key := cache.Key("discover", query)
	if b, ok := o.cache.Get(ctx, key); ok {
		var cached []domain.CandidateStub
		if err := json.Unmarshal(b, &cached); err == nil {
			o.log.Debug("discovery cache hit", zap.String("query", query))
			if len(cached) > maxResults {
				cached = cached[:maxResults]
			}
			return cached
		}
		// corrupt entry: drop it and fall through to the adapters
		o.cache.Delete(ctx, key)
	}

	merged := o.fanOut(ctx, query, maxResults)

	if len(merged) == 0 {
		merged = o.runFallbacks(ctx, query, maxResults)
	}

	if len(merged) == 0 {
		o.log.Warn("all adapters exhausted, returning placeholder",
			zap.String("query", query))
		merged = []domain.CandidateStub{static.Placeholder()}
	}

	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}

	if b, err := json.Marshal(merged); err == nil {
		o.cache.Set(ctx, key, b, 0)
	}
	return merged
}

// fanOut launches every concurrent adapter, joins them all, then merges in
// registration (priority) order with first-seen locator dedupe. A failed or
// cancelled adapter contributes an empty set; it never aborts its siblings.
func (o *Orchestrator) fanOut(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	results := make([][]domain.CandidateStub, len(o.concurrent))

	var g errgroup.Group
	for i, f := range o.concurrent {
		i, f := i, f
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, adapterTimeout)
			defer cancel()

			start := time.Now()
			stubs := f.Find(fctx, query, maxResults)
			o.log.Debug("adapter finished",
				zap.String("adapter", f.Name()),
				zap.Int("results", len(stubs)),
				zap.Duration("took", time.Since(start)))
			results[i] = stubs
			return nil
		})
	}
	_ = g.Wait()

	return mergeDedupe(results, maxResults)
}

// runFallbacks tries each secondary strategy in order until one yields a
// non-empty result.
func (o *Orchestrator) runFallbacks(ctx context.Context, query string, maxResults int) []domain.CandidateStub {
	for _, f := range o.fallbacks {
		fctx, cancel := context.WithTimeout(ctx, adapterTimeout)
		stubs := f.Find(fctx, query, maxResults)
		cancel()

		if len(stubs) > 0 {
			o.log.Info("fallback adapter produced results",
				zap.String("adapter", f.Name()),
				zap.Int("results", len(stubs)))
			return mergeDedupe([][]domain.CandidateStub{stubs}, maxResults)
		}
	}
	return nil
}

func mergeDedupe(results [][]domain.CandidateStub, maxResults int) []domain.CandidateStub {
	seen := map[string]bool{}
	var merged []domain.CandidateStub
	for _, stubs := range results {
		for _, s := range stubs {
			if s.Locator == "" || seen[s.Locator] {
				continue
			}
			seen[s.Locator] = true
			merged = append(merged, s)
			if len(merged) >= maxResults {
				return merged
			}
		}
	}
	return merged
}
