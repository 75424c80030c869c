package service

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flexprice/couponmanager/internal/cache"
	"github.com/flexprice/couponmanager/internal/domain/catalog"
	"github.com/flexprice/couponmanager/internal/metrics"
	"github.com/flexprice/couponmanager/internal/sentry"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/sourcegraph/conc"
)

// CatalogService searches gift certificates sold for a merchant. Results are
// cached per merchant name and concurrent searches for the same name share
// a single fan-out.
type CatalogService interface {
	// Search never fails because of upstream errors; it only returns an
	// error when ctx is done before the results are ready.
	Search(ctx context.Context, merchantName string) ([]*catalog.ShopItem, error)
	ListMerchants(ctx context.Context) []types.Merchant
	// Invalidate drops the cached results so the next Search fetches again.
	// A search already in flight still answers its waiters but no longer
	// populates the cache.
	Invalidate(ctx context.Context, merchantName string)
}

type catalogService struct {
	ServiceParams

	mu      sync.Mutex
	flights map[string]*searchFlight
}

// searchFlight is one in-progress fan-out shared by every caller waiting on
// the same merchant. It is cancelled once its last waiter gives up.
type searchFlight struct {
	done    chan struct{}
	items   []*catalog.ShopItem
	waiters int
	cancel  context.CancelFunc
	// stale is set once the merchant was invalidated after the flight started
	stale bool
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{
		ServiceParams: params,
		flights:       make(map[string]*searchFlight),
	}
}

func (s *catalogService) ListMerchants(ctx context.Context) []types.Merchant {
	return types.ListMerchants()
}

func (s *catalogService) Invalidate(ctx context.Context, merchantName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.flights[merchantName]; ok {
		f.stale = true
		delete(s.flights, merchantName)
	}
	s.Cache.Delete(ctx, cacheKey(merchantName))
	s.Logger.Infow("invalidated shop items", "merchant", merchantName)
}

func (s *catalogService) Search(ctx context.Context, merchantName string) ([]*catalog.ShopItem, error) {
	start := time.Now()
	key := cacheKey(merchantName)
	if items, ok := s.cached(ctx, key); ok {
		metrics.RecordShopSearch(metrics.SearchResultHit, time.Since(start).Seconds())
		return items, nil
	}

	s.mu.Lock()
	// a flight may have finished between the lookup above and taking the lock
	if items, ok := s.cached(ctx, key); ok {
		s.mu.Unlock()
		metrics.RecordShopSearch(metrics.SearchResultHit, time.Since(start).Seconds())
		return items, nil
	}

	f, ok := s.flights[merchantName]
	if !ok {
		flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &searchFlight{
			done:   make(chan struct{}),
			cancel: cancel,
		}
		s.flights[merchantName] = f
		go s.fly(flightCtx, merchantName, f)
	} else {
		metrics.ShopSearchCoalesced.Inc()
		s.Logger.Debugw("joining in-flight shop search", "merchant", merchantName)
	}
	f.waiters++
	s.mu.Unlock()

	select {
	case <-f.done:
		metrics.RecordShopSearch(metrics.SearchResultFetched, time.Since(start).Seconds())
		return slices.Clone(f.items), nil
	case <-ctx.Done():
		s.leave(merchantName, f)
		metrics.RecordShopSearch(metrics.SearchResultCancelled, time.Since(start).Seconds())
		return nil, ctx.Err()
	}
}

// leave drops a waiter and abandons the flight when nobody waits any more
func (s *catalogService) leave(merchantName string, f *searchFlight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}

	f.cancel()
	if s.flights[merchantName] == f {
		delete(s.flights, merchantName)
	}
	s.Logger.Debugw("abandoned shop search", "merchant", merchantName)
}

// fly runs the fan-out and publishes the outcome. The cache is written only
// here and only while the flight has been neither abandoned nor invalidated.
func (s *catalogService) fly(ctx context.Context, merchantName string, f *searchFlight) {
	var (
		items    []*catalog.ShopItem
		complete bool
	)
	s.Pyroscope.TagWrapper(ctx, map[string]string{"operation": "shop_search"}, func(ctx context.Context) {
		items, complete = s.fanOut(ctx, merchantName)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	defer f.cancel()

	if !f.stale && ctx.Err() == nil && (complete || s.Config.Search.CacheFailedResults) {
		s.Cache.Set(ctx, cacheKey(merchantName), items, s.cacheTTL())
	}

	if s.flights[merchantName] == f {
		delete(s.flights, merchantName)
	}
	f.items = items
	close(f.done)
}

// fanOut queries every keyword concurrently and merges the results in
// keyword order. complete is false when no query succeeded.
func (s *catalogService) fanOut(ctx context.Context, merchantName string) ([]*catalog.ShopItem, bool) {
	span, ctx := s.Sentry.StartSearchSpan(ctx, merchantName)
	defer sentry.FinishSpan(span)

	start := time.Now()
	keywords := types.SearchKeywords()
	batches := make([][]*catalog.ShopItem, len(keywords))
	var failed atomic.Int32

	var wg conc.WaitGroup
	for i, keyword := range keywords {
		wg.Go(func() {
			query := keyword.Qualify(merchantName)
			result, err := s.Searcher.Search(ctx, query)
			if err != nil {
				failed.Add(1)
				metrics.ShopSearchQueryFailures.WithLabelValues(string(keyword)).Inc()
				s.Sentry.AddBreadcrumb("shop_search", "keyword query failed", map[string]interface{}{
					"merchant": merchantName,
					"keyword":  string(keyword),
				})
				s.Logger.Warnw("shop search query failed",
					"merchant", merchantName,
					"keyword", string(keyword),
					"error", err)
				return
			}
			batches[i] = result.Items
		})
	}

	if recovered := wg.WaitAndRecover(); recovered != nil {
		s.Logger.Errorw("shop search query panicked",
			"merchant", merchantName,
			"error", recovered.AsError())
		return []*catalog.ShopItem{}, false
	}

	items := catalog.MergeShopItems(batches)
	s.Logger.Infow("searched shop items",
		"merchant", merchantName,
		"items", len(items),
		"failed_queries", failed.Load(),
		"duration_ms", time.Since(start).Milliseconds())

	return items, int(failed.Load()) < len(keywords)
}

func (s *catalogService) cached(ctx context.Context, key string) ([]*catalog.ShopItem, bool) {
	value, ok := s.Cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	items, ok := value.([]*catalog.ShopItem)
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

func (s *catalogService) cacheTTL() time.Duration {
	if s.Config.Search.CacheTTL <= 0 {
		return cache.NoExpiration
	}
	return s.Config.Search.CacheTTL
}

func cacheKey(merchantName string) string {
	return cache.GenerateKey(cache.PrefixShopItems, merchantName)
}
