package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks snapshot builds and hit-test queries. It implements
// state.Observer.
type Metrics struct {
	SnapshotBuilds  *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	CacheHits       prometheus.Counter
	ClosestQueries  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SnapshotBuilds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lssky_snapshot_builds_total",
			Help: "Total number of sky snapshots computed, by result",
		}, []string{"result"}),
		BuildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lssky_snapshot_build_duration_seconds",
			Help:    "Duration of sky snapshot computations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "lssky_snapshot_cache_hits_total",
			Help: "Total number of snapshot requests served from the cache",
		}),
		ClosestQueries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lssky_closest_queries_total",
			Help: "Total number of closest-object queries, by outcome",
		}, []string{"outcome"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lssky_http_request_duration_seconds",
			Help:    "Duration of API requests by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveBuild records one snapshot computation.
func (m *Metrics) ObserveBuild(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SnapshotBuilds.WithLabelValues(result).Inc()
	m.BuildDuration.Observe(d.Seconds())
}

// ObserveCacheHit records a snapshot served from the cache.
func (m *Metrics) ObserveCacheHit() {
	m.CacheHits.Inc()
}

// ObserveClosest records a closest-object query.
func (m *Metrics) ObserveClosest(found bool) {
	outcome := "miss"
	if found {
		outcome = "found"
	}
	m.ClosestQueries.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the duration of a request on route.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route string, start time.Time) {
	m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
