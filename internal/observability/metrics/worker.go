package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	structureTotal    *prometheus.CounterVec
	structureDuration *prometheus.HistogramVec
	structureInFlight prometheus.Gauge
	queueLag          *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	structureTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "structure_total",
			Help:      "Total structured RFPs by status.",
		},
		[]string{"service", "status"},
	)
	structureDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "structure_duration_seconds",
			Help:      "RFP structuring duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	structureInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "structure_in_flight",
			Help:      "Number of in-flight RFP structuring tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rfp",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between RFP creation and structuring start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(structureTotal, structureDuration, structureInFlight, queueLag)

	return &WorkerMetrics{
		registry:          registry,
		structureTotal:    structureTotal,
		structureDuration: structureDuration,
		structureInFlight: structureInFlight,
		queueLag:          queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartStructure() {
	m.structureInFlight.Inc()
}

func (m *WorkerMetrics) FinishStructure(service string, duration time.Duration, err error) {
	m.structureInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.structureTotal.WithLabelValues(service, status).Inc()
	m.structureDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
