package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for one application instance.
// Each instance owns its registry so several applications can coexist
// in a single process (tests build many).
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Bootstrap metrics
	StageDuration         *prometheus.HistogramVec
	BundlesRegistered     prometheus.Gauge
	ModelsRegistered      prometheus.Gauge
	SerializersRegistered prometheus.Gauge
	CommandsRegistered    prometheus.Gauge
	ExtensionsInitialized prometheus.Gauge

	// Request cycle metrics
	SessionsSaved prometheus.Counter
	CSRFRejected  prometheus.Counter

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a new metrics collector backed by a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		Registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "app_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "app_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "app_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Bootstrap metrics
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "app_bootstrap_stage_duration_seconds",
				Help:    "Duration of each bootstrap stage in seconds",
				Buckets: []float64{.0001, .001, .01, .1, 1, 10},
			},
			[]string{"stage"},
		),
		BundlesRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "app_bundles_registered",
			Help: "Number of bundles attached to the application",
		}),
		ModelsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "app_models_registered",
			Help: "Number of models in the model registry",
		}),
		SerializersRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "app_serializers_registered",
			Help: "Number of serializers in the serializer registry",
		}),
		CommandsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "app_cli_commands_registered",
			Help: "Number of CLI commands on the application root",
		}),
		ExtensionsInitialized: factory.NewGauge(prometheus.GaugeOpts{
			Name: "app_extensions_initialized",
			Help: "Number of initialized extensions",
		}),

		// Request cycle metrics
		SessionsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "app_sessions_saved_total",
			Help: "Total number of sessions written back to the store",
		}),
		CSRFRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "app_csrf_rejected_total",
			Help: "Total number of requests rejected for a missing or invalid CSRF token",
		}),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordStage records how long a bootstrap stage took.
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// Handler serves this instance's registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
