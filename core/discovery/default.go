package discovery

import (
	"context"
	"sync"

	"github.com/artpar/primitives/core/registry"
)

// The process-wide registry is computed once, on first use, and never
// invalidated. Modules registered afterwards are invisible until restart.
var (
	defaultMu      sync.Mutex
	defaultStarted bool
	defaultConfig  Config
	defaultRoots   []string
	defaultReport  Report

	defaultRegistry = sync.OnceValues(loadDefault)
)

func loadDefault() (*registry.Registry, error) {
	defaultMu.Lock()
	defaultStarted = true
	cfg, roots := defaultConfig, defaultRoots
	defaultMu.Unlock()

	s := NewScanner(cfg)
	if roots == nil {
		roots = s.catalog.Names()
	}
	reg, report, err := s.Scan(context.Background(), roots...)

	defaultMu.Lock()
	defaultReport = report
	defaultMu.Unlock()

	return reg, err
}

// Configure sets the scanner used for the process-wide registry.
// It reports false, and changes nothing, once the registry has been computed.
func Configure(cfg Config) bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStarted {
		return false
	}
	defaultConfig = cfg
	return true
}

// SetRoots pins the modules the process-wide scan starts from.
// Without it every registered module is a root.
// It reports false once the registry has been computed.
func SetRoots(names ...string) bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStarted {
		return false
	}
	defaultRoots = append([]string{}, names...)
	return true
}

// Registry returns the process-wide registry. The first call scans the
// catalog; concurrent callers wait for it and every caller gets the same
// result, including a scan error.
func Registry() (*registry.Registry, error) {
	return defaultRegistry()
}

// LastReport returns the traversal report of the process-wide scan.
func LastReport() Report {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultReport
}

// ScanAll scans the process-wide catalog from every registered module.
// Unlike Registry it scans on every call.
func ScanAll(ctx context.Context) (*registry.Registry, error) {
	reg, _, err := NewScanner(currentConfig()).ScanAll(ctx)
	return reg, err
}

// ScanModules scans the process-wide catalog from the named modules.
func ScanModules(ctx context.Context, names ...string) (*registry.Registry, error) {
	reg, _, err := NewScanner(currentConfig()).Scan(ctx, names...)
	return reg, err
}

func currentConfig() Config {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultConfig
}
