package pattern

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// compilerMetrics contains Prometheus metrics for the compile cache.
type compilerMetrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge
}

var (
	compilerMetricsInstance *compilerMetrics
	compilerMetricsOnce     sync.Once
)

// getCompilerMetrics returns the singleton compiler metrics instance.
func getCompilerMetrics() *compilerMetrics {
	compilerMetricsOnce.Do(func() {
		compilerMetricsInstance = &compilerMetrics{
			cacheHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "pattern",
					Name:      "compile_cache_hits_total",
					Help:      "Total number of compile cache hits",
				},
			),
			cacheMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "pattern",
					Name:      "compile_cache_misses_total",
					Help:      "Total number of compile cache misses",
				},
			),
			cacheEvictions: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "pattern",
					Name:      "compile_cache_evictions_total",
					Help:      "Total number of compile cache evictions",
				},
			),
			cacheSize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "cloudworker",
					Subsystem: "pattern",
					Name:      "compile_cache_size",
					Help:      "Current number of entries in the compile cache",
				},
			),
		}
	})
	return compilerMetricsInstance
}
