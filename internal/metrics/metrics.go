// Package metrics exports repository events as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-task-catalog/catalog"
)

const namespace = "taskcatalog"

// Recorder implements catalog.Metrics with Prometheus counters.
type Recorder struct {
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
}

var _ catalog.Metrics = (*Recorder)(nil)

// NewRecorder creates the counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache lookups answered from the cache.",
		}, []string{"entry"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache lookups that fell through to the store.",
		}, []string{"entry"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache invalidations issued after writes.",
		}, []string{"scope"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Failed calls to the relational store.",
		}, []string{"op"}),
	}

	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.cacheHits, r.cacheMisses, r.invalidations, r.storeFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) CacheHit(entry string) {
	r.cacheHits.WithLabelValues(entry).Inc()
}

func (r *Recorder) CacheMiss(entry string) {
	r.cacheMisses.WithLabelValues(entry).Inc()
}

func (r *Recorder) Invalidated(scope string) {
	r.invalidations.WithLabelValues(scope).Inc()
}

func (r *Recorder) StoreFailed(op string) {
	r.storeFailures.WithLabelValues(op).Inc()
}
