package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend label values.
const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

// cacheMetrics contains Prometheus metrics for cache backends.
type cacheMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	sets   *prometheus.CounterVec
}

var (
	cacheMetricsInstance *cacheMetrics
	cacheMetricsOnce     sync.Once
)

// getCacheMetrics returns the singleton cache metrics instance.
func getCacheMetrics() *cacheMetrics {
	cacheMetricsOnce.Do(func() {
		cacheMetricsInstance = &cacheMetrics{
			hits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "cache",
					Name:      "hits_total",
					Help:      "Total number of cache hits",
				},
				[]string{"backend"},
			),
			misses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "cache",
					Name:      "misses_total",
					Help:      "Total number of cache misses",
				},
				[]string{"backend"},
			),
			sets: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "cache",
					Name:      "sets_total",
					Help:      "Total number of cache writes",
				},
				[]string{"backend"},
			),
		}
	})
	return cacheMetricsInstance
}
