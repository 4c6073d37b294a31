package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers (tests included) can coexist in one process.
type Metrics struct {
	registry       *prometheus.Registry
	feedRequests   *prometheus.CounterVec
	feedItems      prometheus.Gauge
	renderDuration prometheus.Histogram
	syncRequests   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		feedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_feed_requests_total",
			Help: "Feed requests by result.",
		}, []string{"status"}),
		feedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blog_feed_items",
			Help: "Items in the last rendered feed.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blog_feed_render_duration_seconds",
			Help:    "Time spent loading, building and serialising the feed.",
			Buckets: prometheus.DefBuckets,
		}),
		syncRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_sync_requests_total",
			Help: "Manual sync requests by result.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.feedRequests,
		m.feedItems,
		m.renderDuration,
		m.syncRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Register adds extra collectors, e.g. database connection stats.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeFeed(status string, items int, started time.Time) {
	m.feedRequests.WithLabelValues(status).Inc()
	m.renderDuration.Observe(time.Since(started).Seconds())
	if status != "error" {
		m.feedItems.Set(float64(items))
	}
}
