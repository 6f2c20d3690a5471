package options

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type cacheMetrics struct {
	fetches *prometheus.CounterVec
	hits    *prometheus.CounterVec
	skipped *prometheus.CounterVec
}

// newCacheMetrics builds the cache counters. A nil registerer yields
// working counters that are not exported anywhere.
func newCacheMetrics(reg prometheus.Registerer) *cacheMetrics {
	factory := promauto.With(reg)
	return &cacheMetrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fxed_options_fetch_total",
			Help: "Option fetches by property and result (ok, error).",
		}, []string{"property", "result"}),
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fxed_options_cache_hits_total",
			Help: "Option requests answered from the cache.",
		}, []string{"property"}),
		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fxed_options_skipped_total",
			Help: "Debounced requests dropped because a fetch was already running.",
		}, []string{"property"}),
	}
}
