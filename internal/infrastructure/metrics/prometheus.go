// Package metrics instrumenta el servicio con Prometheus sobre un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
)

var _ tracking.ScanMetrics = (*Metrics)(nil)

// Metrics colectores de escaneo y HTTP.
type Metrics struct {
	registry        *prometheus.Registry
	scans           *prometheus.CounterVec
	codes           *prometheus.CounterVec
	ingestDuration  prometheus.Histogram
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// New registra los colectores. Cada instancia tiene su registro, así los tests no chocan.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_scans_total",
			Help: "Piezas escaneadas por rol de escáner y resultado",
		}, []string{"role", "result"}),
		codes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_codes_issued_total",
			Help: "Códigos QR emitidos por namespace",
		}, []string{"namespace"}),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_ingest_duration_seconds",
			Help:    "Duración de la ingesta de un escaneo",
			Buckets: prometheus.DefBuckets,
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}

	registry.MustRegister(
		m.scans, m.codes, m.ingestDuration, m.requestDuration, m.requestTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ScanRecorded(role, result string) {
	m.scans.WithLabelValues(role, result).Inc()
}

func (m *Metrics) CodeIssued(namespace string) {
	m.codes.WithLabelValues(namespace).Inc()
}

func (m *Metrics) ObserveIngest(d time.Duration) {
	m.ingestDuration.Observe(d.Seconds())
}

// Handler expone el registro en formato texto de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry para tests y colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware mide cada request usando la ruta registrada, no la URL, para acotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(labels...).Inc()
		return err
	}
}
