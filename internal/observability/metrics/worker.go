package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	rebuildTotal    *prometheus.CounterVec
	rebuildDuration *prometheus.HistogramVec
	rebuildInFlight prometheus.Gauge
	pagesScraped    *prometheus.CounterVec
	chunksIndexed   *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	rebuildTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eora",
			Subsystem: "worker",
			Name:      "kb_rebuild_total",
			Help:      "Total knowledge-base rebuilds by status.",
		},
		[]string{"service", "status"},
	)
	rebuildDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eora",
			Subsystem: "worker",
			Name:      "kb_rebuild_duration_seconds",
			Help:      "Knowledge-base rebuild duration in seconds by status.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service", "status"},
	)
	rebuildInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "eora",
			Subsystem: "worker",
			Name:      "kb_rebuild_in_flight",
			Help:      "Number of in-flight knowledge-base rebuilds.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pagesScraped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eora",
			Subsystem: "worker",
			Name:      "kb_pages_scraped_total",
			Help:      "Total case pages scraped across rebuilds.",
		},
		[]string{"service"},
	)
	chunksIndexed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eora",
			Subsystem: "worker",
			Name:      "kb_chunks_indexed_total",
			Help:      "Total chunks indexed across rebuilds.",
		},
		[]string{"service"},
	)

	registry.MustRegister(rebuildTotal, rebuildDuration, rebuildInFlight, pagesScraped, chunksIndexed)

	return &WorkerMetrics{
		registry:        registry,
		rebuildTotal:    rebuildTotal,
		rebuildDuration: rebuildDuration,
		rebuildInFlight: rebuildInFlight,
		pagesScraped:    pagesScraped,
		chunksIndexed:   chunksIndexed,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRebuild() {
	m.rebuildInFlight.Inc()
}

func (m *WorkerMetrics) FinishRebuild(service string, report domain.RebuildReport, duration time.Duration, err error) {
	m.rebuildInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.rebuildTotal.WithLabelValues(service, status).Inc()
	m.rebuildDuration.WithLabelValues(service, status).Observe(duration.Seconds())
	if report.PagesScraped > 0 {
		m.pagesScraped.WithLabelValues(service).Add(float64(report.PagesScraped))
	}
	if report.ChunksIndexed > 0 {
		m.chunksIndexed.WithLabelValues(service).Add(float64(report.ChunksIndexed))
	}
}
