package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/artpar/primitives/adapters/jsonschema"
	"github.com/artpar/primitives/adapters/metrics"
	"github.com/artpar/primitives/core/openapi"
	"github.com/artpar/primitives/pkg/jsonapi"
)

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
	Service string `json:"service" example:"primitives"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RouterConfig holds the optional parts of the router.
type RouterConfig struct {
	Metrics     *metrics.Collector
	MetricsPath string              // default "/metrics"
	Gatherer    prometheus.Gatherer // default prometheus.DefaultGatherer
	OpenAPI     *openapi.Service    // serves /openapi.json and the swagger UI when set
	Schemas     *jsonschema.Generator
	Version     string
	Timeout     time.Duration // default 60s
}

// NewRouter creates the main HTTP router.
func NewRouter(h *Handler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonapi.WriteError(w, jsonapi.ErrRouteNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonapi.WriteMethodNotAllowed(w, r.Method, nil)
	})

	r.Get("/health", Health)
	r.Get("/version", VersionHandler(cfg.Version))

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		gatherer := cfg.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	if cfg.OpenAPI != nil {
		r.Get("/openapi.json", OpenAPIHandler(cfg.OpenAPI, logger))
		r.Get("/swagger/*", SwaggerHandler())
	}
	if cfg.Schemas != nil {
		r.Get("/schemas", SchemaIndexHandler(cfg.Schemas))
		r.Get("/schemas/{name}.json", SchemaHandler(cfg.Schemas, logger))
	}

	h.Routes(r)
	return r
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// VersionHandler reports the build version.
func VersionHandler(version string) http.HandlerFunc {
	if version == "" {
		version = "dev"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VersionResponse{Version: version, Service: "primitives"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
