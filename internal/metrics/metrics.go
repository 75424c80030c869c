package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SearchResultHit       = "hit"
	SearchResultFetched   = "fetched"
	SearchResultCancelled = "cancelled"
)

var (
	// ShopSearchDuration tracks how long callers wait for merchant results
	ShopSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "shop_search_duration_seconds",
			Help: "Duration of merchant shop searches in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.01,  // 10ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
				10.0,  // 10s
			},
		},
		[]string{"result"}, // hit, fetched or cancelled
	)

	// ShopSearchQueryFailures counts keyword queries that were dropped from a merge
	ShopSearchQueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_search_query_failures_total",
			Help: "Number of failed keyword queries against the search API",
		},
		[]string{"keyword"},
	)

	// ShopSearchCoalesced counts searches that joined a fan-out already in flight
	ShopSearchCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_search_coalesced_total",
			Help: "Number of searches served by a fan-out already in flight",
		},
	)

	// LedgerPersistFailures counts ledger saves that failed
	LedgerPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coupon_ledger_persist_failures_total",
			Help: "Number of coupon ledger saves that failed",
		},
	)

	// LedgerCoupons reports the number of coupons held in memory
	LedgerCoupons = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coupon_ledger_coupons",
			Help: "Number of coupons in the ledger",
		},
	)
)

// RecordShopSearch records how long a search took and how it was served
func RecordShopSearch(result string, seconds float64) {
	ShopSearchDuration.WithLabelValues(result).Observe(seconds)
}
