package lru

import "github.com/prometheus/client_golang/prometheus"

// cacheMetrics holds Prometheus instruments for cache operations. Counters
// are incremented directly from the hot path; size is a gauge updated on
// every mutation.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	puts      prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

func newCacheMetrics(reg prometheus.Registerer, name string) (*cacheMetrics, error) {
	labels := prometheus.Labels{"cache": name}
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "jsonregister",
			Subsystem:   "cache",
			Name:        "hits_total",
			ConstLabels: labels,
			Help:        "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "jsonregister",
			Subsystem:   "cache",
			Name:        "misses_total",
			ConstLabels: labels,
			Help:        "Total number of cache misses",
		}),
		puts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "jsonregister",
			Subsystem:   "cache",
			Name:        "puts_total",
			ConstLabels: labels,
			Help:        "Total number of cache insert or overwrite operations",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "jsonregister",
			Subsystem:   "cache",
			Name:        "evictions_total",
			ConstLabels: labels,
			Help:        "Total number of least-recently-used evictions",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "jsonregister",
			Subsystem:   "cache",
			Name:        "size",
			ConstLabels: labels,
			Help:        "Current number of entries in the cache",
		}),
	}

	for _, collector := range []prometheus.Collector{m.hits, m.misses, m.puts, m.evictions, m.size} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *cacheMetrics) recordHit()  { m.hits.Inc() }
func (m *cacheMetrics) recordMiss() { m.misses.Inc() }

func (m *cacheMetrics) recordPut(size int) {
	m.puts.Inc()
	m.size.Set(float64(size))
}

func (m *cacheMetrics) recordEviction(size int) {
	m.evictions.Inc()
	m.size.Set(float64(size))
}
