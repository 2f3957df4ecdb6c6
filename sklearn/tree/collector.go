package tree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheCollector exposes the counters of a Cache as Prometheus metrics, labeled by
// algorithm partition. Gathering reads the cache, so it must not overlap with a Fit that
// uses the same cache.
type CacheCollector struct {
	cache   *Cache
	hits    *prometheus.Desc
	misses  *prometheus.Desc
	entries *prometheus.Desc
}

var _ prometheus.Collector = (*CacheCollector)(nil)

// NewCacheCollector returns a collector for cache. Metric names are prefixed with
// namespace.
func NewCacheCollector(namespace string, cache *Cache) *CacheCollector {
	labels := []string{"algorithm"}
	return &CacheCollector{
		cache: cache,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "impurity_cache", "hits_total"),
			"Impurity cache lookups answered from the cache.",
			labels, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "impurity_cache", "misses_total"),
			"Impurity cache lookups that had to compute the value.",
			labels, nil,
		),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "impurity_cache", "entries"),
			"Values currently stored in the impurity cache.",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.entries
}

// Collect implements prometheus.Collector.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	for _, p := range c.cache.Stats().Partitions {
		alg := p.Algorithm.String()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(p.Hits), alg)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(p.Misses), alg)
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(p.Entries), alg)
	}
}

// FitMetrics records completed fits. Attach it to trees with WithFitMetrics.
type FitMetrics struct {
	fits     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	hitRate  *prometheus.GaugeVec
	leaves   *prometheus.GaugeVec
}

// NewFitMetrics creates the fit metrics and registers them with reg.
func NewFitMetrics(reg prometheus.Registerer, namespace string) *FitMetrics {
	factory := promauto.With(reg)
	labels := []string{"algorithm"}
	return &FitMetrics{
		fits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "fits_total",
			Help:      "Completed tree fits.",
		}, labels),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "fit_duration_seconds",
			Help:      "Wall time of completed tree fits.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, labels),
		hitRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "last_fit_cache_hit_ratio",
			Help:      "Impurity cache hit ratio of the last fit.",
		}, labels),
		leaves: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tree",
			Name:      "last_fit_leaves",
			Help:      "Number of leaves grown by the last fit.",
		}, labels),
	}
}

func (m *FitMetrics) observe(r FitReport) {
	alg := r.Algorithm.String()
	m.fits.WithLabelValues(alg).Inc()
	m.duration.WithLabelValues(alg).Observe(r.Duration.Seconds())
	m.hitRate.WithLabelValues(alg).Set(r.HitRate)
	m.leaves.WithLabelValues(alg).Set(float64(r.Leaves))
}
