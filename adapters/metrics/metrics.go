// Package metrics provides Prometheus metrics for schema discovery,
// schema transformation, validation and the HTTP surface.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/core/transform"
	"github.com/artpar/primitives/domain/primitive"
)

const namespace = "primitives"

// Collector holds all Prometheus metrics.
type Collector struct {
	// Discovery metrics
	ScanModules       *prometheus.CounterVec
	ScanSkipped       *prometheus.CounterVec
	RegistryFragments prometheus.Gauge

	// Transform metrics
	TransformTotal *prometheus.CounterVec

	// Validation metrics
	ValidationRejections *prometheus.CounterVec

	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a collector registered with the default Prometheus registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		ScanModules: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_modules_total",
				Help:      "Modules visited by discovery scans",
			},
			[]string{"marked"},
		),
		ScanSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_skipped_total",
				Help:      "Problems skipped during discovery scans",
			},
			[]string{"reason"},
		),
		RegistryFragments: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registry_fragments",
				Help:      "Fragments in the most recently built schema registry",
			},
		),
		TransformTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_total",
				Help:      "Schema transformations by transformer and outcome",
			},
			[]string{"transformer", "outcome"},
		),
		ValidationRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_rejections_total",
				Help:      "Raw values rejected by a primitive's rule",
			},
			[]string{"primitive"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// ModuleVisited implements discovery.Observer.
func (c *Collector) ModuleVisited(name string, marked bool) {
	c.ScanModules.WithLabelValues(strconv.FormatBool(marked)).Inc()
}

// ProblemSkipped implements discovery.Observer.
func (c *Collector) ProblemSkipped(module string, err error) {
	reason := "fragment"
	if errors.Is(err, discovery.ErrModuleNotFound) {
		reason = "missing_module"
	}
	c.ScanSkipped.WithLabelValues(reason).Inc()
}

// RegistryBuilt implements discovery.Observer.
func (c *Collector) RegistryBuilt(fragments int) {
	c.RegistryFragments.Set(float64(fragments))
}

// Transformed implements transform.Observer.
func (c *Collector) Transformed(transformer string, matched bool) {
	outcome := "passthrough"
	if matched {
		outcome = "matched"
	}
	c.TransformTotal.WithLabelValues(transformer, outcome).Inc()
}

// ObserveRejection counts err if it is a primitive rejection.
func (c *Collector) ObserveRejection(err error) {
	var re *primitive.RejectionError
	if errors.As(err, &re) {
		name := re.Primitive
		if name == "" {
			name = "unknown"
		}
		c.ValidationRejections.WithLabelValues(name).Inc()
	}
}

// ObserveRequest records a finished HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, StatusClass(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ConfigReloaded records the outcome of a config reload.
func (c *Collector) ConfigReloaded(err error, at time.Time) {
	if err != nil {
		c.ConfigReloadErrors.Inc()
		return
	}
	c.ConfigReloads.Inc()
	c.ConfigLastReload.Set(float64(at.Unix()))
}

// StatusClass reduces an HTTP status to its class, e.g. 404 -> "4xx".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// Ensure interface compliance.
var (
	_ discovery.Observer = (*Collector)(nil)
	_ transform.Observer = (*Collector)(nil)
)
