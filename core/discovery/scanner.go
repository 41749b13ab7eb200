package discovery

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/schema"
)

// Policy decides what a scan does with a broken reference or an invalid fragment.
type Policy int

const (
	// FailFast aborts the scan on the first problem.
	FailFast Policy = iota
	// SkipMissing logs the problem and continues.
	SkipMissing
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case SkipMissing:
		return "skip_missing"
	}
	return "unknown"
}

// ParsePolicy parses a config value. An empty string selects FailFast.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "fail_fast":
		return FailFast, nil
	case "skip_missing":
		return SkipMissing, nil
	}
	return FailFast, fmt.Errorf("unknown discovery policy %q", s)
}

// DefaultSystemPrefixes are module name prefixes whose references are not expanded.
var DefaultSystemPrefixes = []string{
	"runtime",
	"std",
	"golang.org/",
	"github.com/artpar/primitives/core/",
}

// Observer receives scan events. Implementations must be safe for concurrent use.
type Observer interface {
	ModuleVisited(name string, marked bool)
	ProblemSkipped(module string, err error)
	RegistryBuilt(fragments int)
}

type nopObserver struct{}

func (nopObserver) ModuleVisited(string, bool)   {}
func (nopObserver) ProblemSkipped(string, error) {}
func (nopObserver) RegistryBuilt(int)            {}

// Config configures a Scanner.
type Config struct {
	Catalog        *Catalog
	Policy         Policy
	SystemPrefixes []string
	Logger         zerolog.Logger
	Observer       Observer
}

// Scanner walks a catalog. It holds no scan state and may be reused.
type Scanner struct {
	catalog  *Catalog
	policy   Policy
	prefixes []string
	logger   zerolog.Logger
	observer Observer
}

// NewScanner creates a scanner. A nil catalog selects the process-wide one.
func NewScanner(cfg Config) *Scanner {
	s := &Scanner{
		catalog:  cfg.Catalog,
		policy:   cfg.Policy,
		prefixes: cfg.SystemPrefixes,
		logger:   cfg.Logger,
		observer: cfg.Observer,
	}
	if s.catalog == nil {
		s.catalog = defaultCatalog
	}
	if s.prefixes == nil {
		s.prefixes = DefaultSystemPrefixes
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s
}

// Visitor is called once per marked module that exports fragments.
type Visitor func(m Module, fragments map[reflect.Type]schema.Fragment) error

// Report summarizes a traversal.
type Report struct {
	// Order lists visited modules in breadth-first order.
	Order []string
	// Marked lists visited modules carrying the primitives marker.
	Marked []string
	// Skipped holds problems ignored under SkipMissing.
	Skipped []error
}

// IsSystem reports whether a module name is reserved.
func (s *Scanner) IsSystem(name string) bool {
	for _, p := range s.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Walk traverses the catalog breadth-first from roots, visiting each module
// at most once.
func (s *Scanner) Walk(ctx context.Context, roots []string, visit Visitor) (Report, error) {
	var report Report

	type pending struct {
		from, name string
	}

	queue := make([]pending, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, pending{name: r})
	}
	seen := make(map[string]bool)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("discovery scan: %w", err)
		}

		next := queue[0]
		queue = queue[1:]
		if seen[next.name] {
			continue
		}
		seen[next.name] = true

		m, ok := s.catalog.Lookup(next.name)
		if !ok {
			err := &ReferenceError{From: next.from, To: next.name}
			if skipErr := s.skip(&report, next.from, err); skipErr != nil {
				return report, skipErr
			}
			continue
		}

		report.Order = append(report.Order, m.Name)
		s.observer.ModuleVisited(m.Name, m.ContainsPrimitives)

		if !s.IsSystem(m.Name) {
			for _, ref := range m.References {
				if !seen[ref] {
					queue = append(queue, pending{from: m.Name, name: ref})
				}
			}
		}

		if !m.ContainsPrimitives {
			continue
		}
		report.Marked = append(report.Marked, m.Name)

		if m.Helper == nil {
			s.logger.Debug().Str("module", m.Name).Msg("marked module has no openapi helper")
			continue
		}
		fragments := m.Helper.Schemas()
		if len(fragments) == 0 {
			continue
		}

		s.logger.Debug().
			Str("module", m.Name).
			Int("fragments", len(fragments)).
			Msg("collecting primitive schemas")

		if err := visit(m, fragments); err != nil {
			if skipErr := s.skip(&report, m.Name, err); skipErr != nil {
				return report, skipErr
			}
		}
	}

	return report, nil
}

// skip applies the policy to a problem. It returns the error to abort with,
// or nil when the scan should continue.
func (s *Scanner) skip(report *Report, module string, err error) error {
	if s.policy == FailFast {
		return fmt.Errorf("discovery scan: %w", err)
	}
	s.logger.Warn().Err(err).Str("module", module).Msg("skipping module problem")
	s.observer.ProblemSkipped(module, err)
	report.Skipped = append(report.Skipped, err)
	return nil
}

// Scan walks from roots and merges every contribution with first-wins semantics.
func (s *Scanner) Scan(ctx context.Context, roots ...string) (*registry.Registry, Report, error) {
	b := registry.NewBuilder()

	report, err := s.Walk(ctx, roots, func(m Module, fragments map[reflect.Type]schema.Fragment) error {
		return s.merge(b, m, fragments)
	})
	if err != nil {
		return nil, report, err
	}

	reg := b.Build()
	s.observer.RegistryBuilt(reg.Len())
	s.logger.Debug().
		Int("modules", len(report.Order)).
		Int("fragments", reg.Len()).
		Msg("primitive registry built")
	return reg, report, nil
}

// merge adds every valid fragment and reports the invalid ones together.
func (s *Scanner) merge(b *registry.Builder, m Module, fragments map[reflect.Type]schema.Fragment) error {
	var errs []error
	for _, t := range registry.SortedTypes(fragments) {
		if _, err := b.Add(t, fragments[t]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("module %q: %w", m.Name, errors.Join(errs...))
}

// ScanAll scans from every module in the catalog, in registration order.
func (s *Scanner) ScanAll(ctx context.Context) (*registry.Registry, Report, error) {
	return s.Scan(ctx, s.catalog.Names()...)
}
