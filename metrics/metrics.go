// Package metrics is a small facade over prometheus/client_golang,
// grounded in VeChain Thor's metrics package (its Counter/Histogram
// naming and lazy-registration shape survive in the pack only as test
// files; this is a from-scratch, narrower rendition of the same idea
// sized to what this module's store/trie layers actually emit: one
// counter per operation kind and one histogram for blob sizes, not the
// full Gauge/Vec surface the original exposes).
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "patriciatrie"

var (
	mu       sync.Mutex
	counters = map[string]prometheus.Counter{}
	histos   = map[string]prometheus.Histogram{}
	registry = prometheus.DefaultRegisterer
)

// Counter returns the named counter, registering it on first use. Safe
// for concurrent use from multiple store/trie call sites.
func Counter(name string) prometheus.Counter {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := counters[name]; ok {
		return c
	}
	c := promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      name + " total",
	})
	counters[name] = c
	return c
}

// Histogram returns the named histogram, registering it with buckets on
// first use. A nil buckets slice uses prometheus.DefBuckets.
func Histogram(name string, buckets []float64) prometheus.Histogram {
	mu.Lock()
	defer mu.Unlock()
	if h, ok := histos[name]; ok {
		return h
	}
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      name + " distribution",
		Buckets:   buckets,
	})
	histos[name] = h
	return h
}

// HTTPHandler returns an HTTP handler that serves the registered metrics
// in the Prometheus exposition format.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
