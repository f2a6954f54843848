package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the embedding cache.
type Metrics struct {
	HitsTotal      prometheus.Counter
	MissesTotal    prometheus.Counter
	EvictionsTotal prometheus.Counter
	SharedTotal    prometheus.Counter
	FailuresTotal  prometheus.Counter
	Size           prometheus.Gauge
}

// NewMetrics creates and registers the cache metrics once per process.
// Every Cache reports into the same collectors.
//
// Metrics:
//   - codesim_embedding_cache_hits_total
//   - codesim_embedding_cache_misses_total
//   - codesim_embedding_cache_evictions_total
//   - codesim_embedding_cache_shared_fetches_total - lookups whose fetch served more than one caller
//   - codesim_embedding_cache_fetch_failures_total
//   - codesim_embedding_cache_size
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HitsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "codesim_embedding_cache_hits_total",
				Help: "Total number of embedding cache hits",
			}),
			MissesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "codesim_embedding_cache_misses_total",
				Help: "Total number of embedding cache misses",
			}),
			EvictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "codesim_embedding_cache_evictions_total",
				Help: "Total number of entries evicted on overflow",
			}),
			SharedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "codesim_embedding_cache_shared_fetches_total",
				Help: "Total number of lookups whose fetch served more than one caller",
			}),
			FailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "codesim_embedding_cache_fetch_failures_total",
				Help: "Total number of fetches that produced no vector",
			}),
			Size: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "codesim_embedding_cache_size",
				Help: "Current number of cached embeddings",
			}),
		}
	})

	return globalMetrics
}
