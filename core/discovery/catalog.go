// Package discovery finds the modules that contribute domain primitives and
// merges their schema fragments into a registry.
//
// Contributing packages register a Module from init:
//
//	func init() {
//		discovery.Register(discovery.Module{
//			Name:               "bank",
//			References:         []string{"bank/ledger"},
//			ContainsPrimitives: true,
//			Helper:             helper{},
//		})
//	}
//
// A scan walks the catalog breadth-first from a set of roots and asks each
// marked module's OpenAPIHelper for its fragments.
package discovery

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/artpar/primitives/core/schema"
)

var (
	// ErrModuleNotFound matches every ReferenceError.
	ErrModuleNotFound = errors.New("module not found")

	// ErrDuplicateModule is returned when a module name is registered twice.
	ErrDuplicateModule = errors.New("module already registered")
)

// OpenAPIHelper exposes a module's schema fragments.
type OpenAPIHelper interface {
	Schemas() map[reflect.Type]schema.Fragment
}

// HelperFunc adapts a function to OpenAPIHelper.
type HelperFunc func() map[reflect.Type]schema.Fragment

func (f HelperFunc) Schemas() map[reflect.Type]schema.Fragment { return f() }

// Module is a unit of code that may contribute primitives.
type Module struct {
	Name string

	// References lists the modules this module depends on, by name.
	References []string

	// ContainsPrimitives marks the module as a contributor.
	ContainsPrimitives bool

	// Helper supplies the fragments. A marked module without a helper
	// contributes nothing.
	Helper OpenAPIHelper
}

// Catalog is a name-indexed set of modules.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewCatalog creates an empty catalog.
func NewCatalog(modules ...Module) (*Catalog, error) {
	c := &Catalog{modules: make(map[string]Module)}
	for _, m := range modules {
		if err := c.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds m. It never replaces an existing module.
func (c *Catalog) Register(m Module) error {
	if m.Name == "" {
		return fmt.Errorf("register module: empty name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[m.Name]; exists {
		return fmt.Errorf("register module %q: %w", m.Name, ErrDuplicateModule)
	}
	m.References = append([]string(nil), m.References...)
	c.modules[m.Name] = m
	c.order = append(c.order, m.Name)
	return nil
}

// Lookup returns the module with the given name.
func (c *Catalog) Lookup(name string) (Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.modules[name]
	return m, ok
}

// Names returns module names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.order...)
}

// Len returns the number of registered modules.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.modules)
}

var defaultCatalog, _ = NewCatalog()

// Default returns the process-wide catalog populated by Register.
func Default() *Catalog {
	return defaultCatalog
}

// Register adds m to the process-wide catalog. It panics on a duplicate
// name; call it from init.
func Register(m Module) {
	if err := defaultCatalog.Register(m); err != nil {
		panic(err)
	}
}

// ReferenceError reports a reference to a module that is not in the catalog.
// From is empty when the missing module was requested as a root.
type ReferenceError struct {
	From string
	To   string
}

func (e *ReferenceError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("root module %q not found", e.To)
	}
	return fmt.Sprintf("module %q references unknown module %q", e.From, e.To)
}

func (e *ReferenceError) Unwrap() error {
	return ErrModuleNotFound
}
