// Package transform decorates OpenAPI schema objects with the wire format of
// domain primitives.
//
// A documentation generator calls Transform once per type it renders. The
// input schema is never modified; the decorated copy is returned along with
// whether the type was recognized.
package transform

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/schema"
)

const (
	// NullableExtension is set by the surrounding generator on properties
	// that accept null.
	NullableExtension = "x-nullable-property"

	// PrimitiveIDExtension identifies the primitive a schema was derived from.
	PrimitiveIDExtension = "x-primitive-id"
)

// Transformer names accepted by New.
const (
	NameFragments  = "fragments"
	NameUnderlying = "underlying"
)

// Transformer decorates the schema for a type.
type Transformer interface {
	Name() string
	Transform(in *openapi3.Schema, t reflect.Type) (*openapi3.Schema, bool)
}

// Source resolves the explicit fragment of a type. *registry.Registry implements it.
type Source interface {
	Lookup(t reflect.Type) (schema.Fragment, bool)
}

var _ Source = (*registry.Registry)(nil)

// New returns the transformer with the given name.
func New(name string, src Source) (Transformer, error) {
	switch name {
	case NameFragments, "":
		if src == nil {
			return nil, fmt.Errorf("transformer %q requires a registry", NameFragments)
		}
		return NewFragments(src), nil
	case NameUnderlying:
		return NewUnderlying(), nil
	}
	return nil, fmt.Errorf("unknown transformer %q", name)
}

// unwrap strips pointer indirection. A pointer is the Go form of a nullable value.
func unwrap(t reflect.Type) (reflect.Type, bool) {
	nullable := false
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
		nullable = true
	}
	return t, nullable
}

// decorate returns a copy of in carrying f, widened to null when required.
func decorate(in *openapi3.Schema, t reflect.Type, f schema.Fragment, nullable bool) *openapi3.Schema {
	out := &openapi3.Schema{}
	if in != nil {
		c := *in
		out = &c
	}

	types := openapi3.Types(f.Kind.Names())
	out.Format = f.Format
	out.Title = f.Title
	out.Description = f.Description
	out.Example = f.Example
	out.Enum = slices.Clone(f.Enum)
	out.Min = clonePtr(f.Minimum)
	out.Max = clonePtr(f.Maximum)
	out.MinLength = 0
	if f.MinLength != nil {
		out.MinLength = *f.MinLength
	}
	out.MaxLength = clonePtr(f.MaxLength)
	out.Pattern = f.Pattern
	out.Nullable = false

	if nullable || hasNullableMarker(in) || f.Nullable() {
		if !slices.Contains(types, openapi3.TypeNull) {
			types = append(types, openapi3.TypeNull)
		}
		out.Nullable = true
	}
	out.Type = &types

	out.Extensions = map[string]any{
		PrimitiveIDExtension: registry.TypeName(t),
	}
	return out
}

func hasNullableMarker(in *openapi3.Schema) bool {
	if in == nil {
		return false
	}
	switch v := in.Extensions[NullableExtension].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
