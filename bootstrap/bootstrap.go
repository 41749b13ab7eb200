// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from a YAML file with PRIMITIVES_* environment
// overrides; see package config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/artpar/primitives/adapters/clock"
	apihttp "github.com/artpar/primitives/adapters/http"
	"github.com/artpar/primitives/adapters/idgen"
	"github.com/artpar/primitives/adapters/jsonschema"
	"github.com/artpar/primitives/adapters/memory"
	"github.com/artpar/primitives/adapters/metrics"
	"github.com/artpar/primitives/adapters/sqlite"
	"github.com/artpar/primitives/app"
	"github.com/artpar/primitives/config"
	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/core/openapi"
	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/transform"
	_ "github.com/artpar/primitives/domain/bank/ledger"
	"github.com/artpar/primitives/ports"
)

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 30 * time.Second

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	DB         *sqlite.DB
	HTTPServer *http.Server
	Router     http.Handler
	Metrics    *metrics.Collector
	Registry   *registry.Registry
	OpenAPI    *openapi.Service
	Schemas    *jsonschema.Generator

	Customers *app.CustomerService
	Transfers *app.TransferService

	version string
}

// Options holds what the configuration file does not describe.
type Options struct {
	// Version is reported by GET /version and the OpenAPI document default.
	Version string

	// Prometheus is the registry metrics are registered with and served
	// from. Nil selects the process default.
	Prometheus *prometheus.Registry

	// Clock defaults to the wall clock.
	Clock ports.Clock
}

// New creates the application from a fixed configuration.
func New(cfg *config.Config, opts Options) (*App, error) {
	logger := SetupLogger(cfg.Logging)
	return build(config.NewStaticHolder(cfg, logger), logger, opts)
}

// NewWithHotReload creates the application from a configuration file and
// reloads it when the file changes or the process receives SIGHUP.
func NewWithHotReload(path string, opts Options) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := SetupLogger(cfg.Logging)

	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, err
	}

	a, err := build(holder, logger, opts)
	if err != nil {
		holder.Stop()
		return nil, err
	}

	if err := holder.WatchFile(); err != nil {
		logger.Warn().Err(err).Msg("config file watch unavailable, SIGHUP still reloads")
	}
	holder.WatchSignals()
	return a, nil
}

func build(holder *config.Holder, logger zerolog.Logger, opts Options) (*App, error) {
	cfg := holder.Get()

	logger.Info().
		Str("version", opts.Version).
		Str("driver", cfg.Database.Driver).
		Msg("initializing primitives")

	a := &App{
		Logger:  logger,
		Config:  holder,
		version: opts.Version,
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		if opts.Prometheus != nil {
			a.Metrics = metrics.NewWithRegistry(opts.Prometheus)
			gatherer = opts.Prometheus
		} else {
			a.Metrics = metrics.New()
		}
		holder.SetObserver(a.Metrics)
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	if err := a.initRegistry(cfg); err != nil {
		return nil, fmt.Errorf("discover primitives: %w", err)
	}

	customers, transfers, err := a.initStores(cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	now := opts.Clock
	if now == nil {
		now = clock.Real{}
	}
	a.Customers = app.NewCustomerService(app.CustomerServiceConfig{
		Store:  customers,
		Clock:  now,
		IDs:    idgen.UUID{},
		Logger: logger,
	})
	a.Transfers = app.NewTransferService(app.TransferServiceConfig{
		Customers: customers,
		Transfers: transfers,
		Clock:     now,
		IDs:       idgen.Ordered{Prefix: "tr_"},
		Logger:    logger,
	})

	if err := a.initDocs(cfg); err != nil {
		a.closeDB()
		return nil, fmt.Errorf("init docs: %w", err)
	}

	a.initHTTPServer(cfg, gatherer)

	holder.OnChange(a.applyConfig)
	return a, nil
}

func (a *App) initRegistry(cfg *config.Config) error {
	dc := discovery.Config{
		Policy:         cfg.DiscoveryPolicy(),
		SystemPrefixes: cfg.Discovery.SystemPrefixes,
		Logger:         a.Logger,
	}
	if a.Metrics != nil {
		dc.Observer = a.Metrics
	}

	configured := discovery.Configure(dc)
	if len(cfg.Discovery.Roots) > 0 {
		configured = discovery.SetRoots(cfg.Discovery.Roots...) && configured
	}
	if !configured {
		a.Logger.Warn().Msg("primitive registry already built, discovery settings ignored")
	}

	reg, err := discovery.Registry()
	if err != nil {
		return err
	}
	a.Registry = reg

	report := discovery.LastReport()
	a.Logger.Info().
		Int("fragments", reg.Len()).
		Strs("modules", report.Marked).
		Int("skipped", len(report.Skipped)).
		Msg("primitive registry built")
	return nil
}

func (a *App) initStores(cfg *config.Config) (ports.CustomerStore, ports.TransferStore, error) {
	if cfg.Database.Driver != config.DriverSQLite {
		a.Logger.Info().Msg("using in-memory stores")
		return memory.NewCustomerStore(), memory.NewTransferStore(), nil
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	a.DB = db
	a.Logger.Info().Str("dsn", cfg.Database.DSN).Msg("database initialized")
	return sqlite.NewCustomerStore(db), sqlite.NewTransferStore(db), nil
}

// transformer builds the instrumented transformer named in cfg.
func (a *App) transformer(cfg *config.Config) (transform.Transformer, error) {
	tr, err := transform.New(cfg.OpenAPI.Transformer, a.Registry)
	if err != nil {
		return nil, err
	}
	if a.Metrics == nil {
		return tr, nil
	}
	return transform.Instrument(tr, a.Metrics), nil
}

func (a *App) generator(cfg *config.Config, tr transform.Transformer) *openapi.Generator {
	version := cfg.OpenAPI.Version
	if a.version != "" && version == config.Default().OpenAPI.Version {
		version = a.version
	}
	gen := openapi.NewGenerator(tr, openapi3.Info{
		Title:   cfg.OpenAPI.Title,
		Version: version,
	})
	gen.AddServer("/", "this server")
	return apihttp.Describe(gen)
}

func (a *App) initDocs(cfg *config.Config) error {
	if !cfg.OpenAPI.Enabled {
		return nil
	}

	tr, err := a.transformer(cfg)
	if err != nil {
		return err
	}

	a.OpenAPI = openapi.NewService(openapi.ServiceConfig{
		Generator: a.generator(cfg, tr),
		Logger:    a.Logger,
	})
	apihttp.RegisterSwagger(a.OpenAPI)

	a.Schemas = jsonschema.New(tr)
	apihttp.Schemas(a.Schemas)

	a.Logger.Info().Str("transformer", tr.Name()).Msg("openapi documentation enabled")
	return nil
}

func (a *App) initHTTPServer(cfg *config.Config, gatherer prometheus.Gatherer) {
	h := apihttp.NewHandler(apihttp.HandlerConfig{
		Customers: a.Customers,
		Transfers: a.Transfers,
		Logger:    a.Logger,
		Metrics:   a.Metrics,
	})

	a.Router = apihttp.NewRouter(h, a.Logger, apihttp.RouterConfig{
		Metrics:     a.Metrics,
		MetricsPath: cfg.Metrics.Path,
		Gatherer:    gatherer,
		OpenAPI:     a.OpenAPI,
		Schemas:     a.Schemas,
		Version:     a.version,
		Timeout:     cfg.Server.RequestTimeout,
	})

	a.HTTPServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// applyConfig applies the settings that can change without a restart.
func (a *App) applyConfig(old, cfg *config.Config) {
	if old.Logging.Level != cfg.Logging.Level {
		zerolog.SetGlobalLevel(parseLevel(cfg.Logging.Level))
	}

	if a.OpenAPI == nil || old.OpenAPI == cfg.OpenAPI {
		return
	}
	tr, err := a.transformer(cfg)
	if err != nil {
		a.Logger.Error().Err(err).Msg("keeping previous transformer")
		return
	}
	a.OpenAPI.SetGenerator(a.generator(cfg, tr))
	a.Schemas.SetTransformer(tr)
	a.Logger.Info().Str("transformer", tr.Name()).Msg("documentation regenerated")
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	if a.Config != nil {
		a.Config.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
			errs = append(errs, err)
		}
	}

	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}

	a.Logger.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeDB() error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	if err != nil {
		a.Logger.Error().Err(err).Msg("database close error")
	}
	a.DB = nil
	return err
}
