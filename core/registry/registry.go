// Package registry holds the merged mapping from Go types to schema
// fragments. A Builder collects contributions with first-wins semantics;
// Build freezes them into an immutable Registry safe for concurrent reads.
package registry

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/artpar/primitives/core/schema"
)

// FragmentError reports an invalid fragment contribution.
type FragmentError struct {
	Type reflect.Type
	Err  error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("invalid fragment for %v: %v", e.Type, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}

// Builder accumulates fragments. It is not safe for concurrent use.
type Builder struct {
	entries map[reflect.Type]schema.Fragment
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[reflect.Type]schema.Fragment)}
}

// Add stores f for t unless t already has a fragment.
// Returns whether the fragment was stored.
func (b *Builder) Add(t reflect.Type, f schema.Fragment) (bool, error) {
	if t == nil {
		return false, &FragmentError{Err: fmt.Errorf("nil type")}
	}
	if err := f.Validate(); err != nil {
		return false, &FragmentError{Type: t, Err: err}
	}
	if _, exists := b.entries[t]; exists {
		return false, nil
	}
	b.entries[t] = f.Clone()
	return true, nil
}

// Merge adds every entry of m in a stable order.
// It stops at the first invalid fragment; entries added before it are kept.
func (b *Builder) Merge(m map[reflect.Type]schema.Fragment) (added int, err error) {
	for _, t := range SortedTypes(m) {
		ok, err := b.Add(t, m[t])
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Len returns the number of collected fragments.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build returns an immutable snapshot. The builder can keep collecting.
func (b *Builder) Build() *Registry {
	entries := make(map[reflect.Type]schema.Fragment, len(b.entries))
	for t, f := range b.entries {
		entries[t] = f.Clone()
	}
	return &Registry{entries: entries, types: SortedTypes(entries)}
}

// Registry is an immutable type-to-fragment mapping.
type Registry struct {
	entries map[reflect.Type]schema.Fragment
	types   []reflect.Type
}

// Empty returns a registry with no entries.
func Empty() *Registry {
	return NewBuilder().Build()
}

// Lookup returns a copy of the fragment registered for t.
func (r *Registry) Lookup(t reflect.Type) (schema.Fragment, bool) {
	if r == nil {
		return schema.Fragment{}, false
	}
	f, ok := r.entries[t]
	if !ok {
		return schema.Fragment{}, false
	}
	return f.Clone(), true
}

// Types returns the registered types sorted by their string form.
func (r *Registry) Types() []reflect.Type {
	if r == nil {
		return nil
	}
	out := make([]reflect.Type, len(r.types))
	copy(out, r.types)
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// All returns a copy of the mapping.
func (r *Registry) All() map[reflect.Type]schema.Fragment {
	out := make(map[reflect.Type]schema.Fragment, r.Len())
	if r == nil {
		return out
	}
	for t, f := range r.entries {
		out[t] = f.Clone()
	}
	return out
}

// TypeName returns the qualified name used to identify t in documents.
func TypeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// SortedTypes returns the keys of m ordered by TypeName.
func SortedTypes(m map[reflect.Type]schema.Fragment) []reflect.Type {
	types := make([]reflect.Type, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return TypeName(types[i]) < TypeName(types[j])
	})
	return types
}
