// Package observability métricas Prometheus del API.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics métricas HTTP y del motor de PDF en un registro propio.
type Metrics struct {
	// Registry se expone para servir /metrics.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	renderErrors    prometheus.Counter
	renderInFlight  prometheus.Gauge
}

// NewMetrics crea un registro dedicado (sin pánicos por colectores duplicados en pruebas).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invoicegen_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP por ruta.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoicegen_http_requests_total",
				Help: "Peticiones HTTP atendidas por ruta y código.",
			},
			[]string{"method", "route", "status"},
		),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoicegen_pdf_render_duration_seconds",
			Help:    "Duración del render de PDF.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		renderErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "invoicegen_pdf_render_errors_total",
			Help: "Renders de PDF fallidos (incluye timeouts).",
		}),
		renderInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "invoicegen_pdf_sessions_in_flight",
			Help: "Sesiones del motor de PDF adquiridas y no liberadas.",
		}),
	}
}

// RecordHTTP registra una petición terminada.
func (m *Metrics) RecordHTTP(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveRender registra un render terminado.
func (m *Metrics) ObserveRender(d time.Duration, err error) {
	m.renderDuration.Observe(d.Seconds())
	if err != nil {
		m.renderErrors.Inc()
	}
}

// SessionOpened y SessionClosed siguen las sesiones ocupadas del motor.
func (m *Metrics) SessionOpened() { m.renderInFlight.Inc() }

func (m *Metrics) SessionClosed() { m.renderInFlight.Dec() }
