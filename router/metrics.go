package router

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// dispatchMetrics contains Prometheus metrics for request dispatch.
type dispatchMetrics struct {
	requestsTotal    *prometheus.CounterVec
	notFoundTotal    prometheus.Counter
	handlerFailures  prometheus.Counter
	callbackFailures prometheus.Counter
}

var (
	dispatchMetricsInstance *dispatchMetrics
	dispatchMetricsOnce     sync.Once
)

// getDispatchMetrics returns the singleton dispatch metrics instance.
func getDispatchMetrics() *dispatchMetrics {
	dispatchMetricsOnce.Do(func() {
		dispatchMetricsInstance = &dispatchMetrics{
			requestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "dispatch",
					Name:      "requests_total",
					Help:      "Total number of dispatched requests",
				},
				[]string{"method", "status"},
			),
			notFoundTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "dispatch",
					Name:      "not_found_total",
					Help:      "Total number of requests with no matching route",
				},
			),
			handlerFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "dispatch",
					Name:      "handler_failures_total",
					Help:      "Total number of contained handler failures",
				},
			),
			callbackFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cloudworker",
					Subsystem: "dispatch",
					Name:      "callback_failures_total",
					Help:      "Total number of contained callback failures",
				},
			),
		}
	})
	return dispatchMetricsInstance
}
