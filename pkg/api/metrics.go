package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics lives on its own registry so several servers can coexist in one
// process.
type Metrics struct {
	registry *prometheus.Registry

	Pages     *prometheus.CounterVec
	CacheHits prometheus.Counter
	NotFound  prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vidembed",
			Name:      "pages_total",
			Help:      "Pages served by route.",
		}, []string{"route"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vidembed",
			Name:      "page_cache_hits_total",
			Help:      "Pages served from the page cache.",
		}),
		NotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vidembed",
			Name:      "not_found_total",
			Help:      "Requests matching no route and no static file.",
		}),
	}
	m.registry.MustRegister(
		m.Pages,
		m.CacheHits,
		m.NotFound,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
