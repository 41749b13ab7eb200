// Package jsonschema renders JSON Schema documents for API types with
// github.com/invopop/jsonschema. Primitive fields are described through the
// same transformer that feeds the OpenAPI document.
package jsonschema

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	js "github.com/invopop/jsonschema"

	"github.com/artpar/primitives/core/transform"
	"github.com/artpar/primitives/domain/primitive"
)

// ErrUnknownSchema is returned for names that were never registered.
var ErrUnknownSchema = errors.New("unknown schema")

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// Generator reflects registered types into JSON Schema documents.
type Generator struct {
	mu    sync.RWMutex
	tr    transform.Transformer
	gen   uint64 // bumped whenever cached schemas go stale
	types map[string]reflect.Type
	cache map[string]*js.Schema
}

// New creates a generator that describes primitives through tr.
func New(tr transform.Transformer) *Generator {
	return &Generator{
		tr:    tr,
		types: make(map[string]reflect.Type),
		cache: make(map[string]*js.Schema),
	}
}

// Register exposes the type of v under name. Registering a name twice
// replaces the type.
func (g *Generator) Register(name string, v any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.types[name] = reflect.TypeOf(v)
	g.gen++
	delete(g.cache, name)
}

// SetTransformer swaps the transformer and drops every cached schema.
func (g *Generator) SetTransformer(tr transform.Transformer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tr = tr
	g.gen++
	clear(g.cache)
}

// Names returns the registered names in sorted order.
func (g *Generator) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.types))
	for name := range g.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the JSON Schema of the type registered under name.
// Named struct types are expanded at the root.
func (g *Generator) Schema(name string) (*js.Schema, error) {
	g.mu.RLock()
	s, cached := g.cache[name]
	t, known := g.types[name]
	tr, gen := g.tr, g.gen
	g.mu.RUnlock()

	if cached {
		return s, nil
	}
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}

	r := reflector(tr)
	r.ExpandedStruct = t.Kind() == reflect.Struct && t.Name() != ""
	s = r.ReflectFromType(t)
	foldNullable(tr, s, t, s.Definitions, make(map[reflect.Type]bool))
	s.Title = name

	g.mu.Lock()
	if g.gen == gen {
		g.cache[name] = s
	}
	g.mu.Unlock()
	return s, nil
}

// Reflector returns an invopop reflector whose Mapper renders primitives
// through the current transformer.
func (g *Generator) Reflector() *js.Reflector {
	g.mu.RLock()
	tr := g.tr
	g.mu.RUnlock()
	return reflector(tr)
}

func reflector(tr transform.Transformer) *js.Reflector {
	return &js.Reflector{
		FieldNameTag:              "json",
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *js.Schema {
			return mapType(tr, t)
		},
	}
}

func mapType(tr transform.Transformer, t reflect.Type) *js.Schema {
	if primitive.Is(t) {
		return describe(tr, t, false)
	}
	if t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(textMarshalerType) && t.PkgPath() != "time" {
		return &js.Schema{Type: "string"}
	}
	return nil
}

// describe renders primitive type t. marked sets the nullable marker the
// transformer folds into the type.
func describe(tr transform.Transformer, t reflect.Type, marked bool) *js.Schema {
	in := openapi3.NewSchema()
	if marked {
		in.Extensions = map[string]any{transform.NullableExtension: true}
	}
	out, ok := tr.Transform(in, t)
	if !ok {
		return &js.Schema{Description: "primitive without a published wire format"}
	}
	return FromOpenAPI(out)
}

// foldNullable re-describes the primitive properties of t that accept
// null: pointer fields and fields tagged nullable:"true". The reflector
// dereferences field types before mapping them, so this runs on the
// finished schema s.
func foldNullable(tr transform.Transformer, s *js.Schema, t reflect.Type, defs js.Definitions, seen map[reflect.Type]bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if s == nil || primitive.Is(t) {
		return
	}
	if s.Ref != "" {
		s = defs[strings.TrimPrefix(s.Ref, "#/$defs/")]
		if s == nil {
			return
		}
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		foldNullable(tr, s.Items, t.Elem(), defs, seen)
	case reflect.Map:
		foldNullable(tr, s.AdditionalProperties, t.Elem(), defs, seen)
	case reflect.Struct:
		if seen[t] || s.Properties == nil {
			return
		}
		seen[t] = true
		foldFields(tr, s, t, defs, seen)
	}
}

func foldFields(tr transform.Transformer, s *js.Schema, t reflect.Type, defs js.Definitions, seen map[reflect.Type]bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		name, skip := fieldName(f)
		if skip {
			continue
		}

		base := f.Type
		for base.Kind() == reflect.Ptr {
			base = base.Elem()
		}
		if f.Anonymous && name == "" && base.Kind() == reflect.Struct && !primitive.Is(base) {
			foldFields(tr, s, base, defs, seen)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		prop, ok := s.Properties.Get(name)
		if !ok {
			continue
		}
		if !primitive.Is(base) {
			foldNullable(tr, prop, f.Type, defs, seen)
			continue
		}

		tagged, _ := strconv.ParseBool(f.Tag.Get("nullable"))
		if tagged || f.Type.Kind() == reflect.Ptr {
			s.Properties.Set(name, describe(tr, f.Type, tagged))
		}
	}
}

// fieldName returns the JSON name of f, or "" when the tag names none.
func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}

// FromOpenAPI converts a decorated OpenAPI schema object into JSON Schema.
// Multiple types become an anyOf of single-type branches.
func FromOpenAPI(s *openapi3.Schema) *js.Schema {
	out := &js.Schema{
		Format:      s.Format,
		Title:       s.Title,
		Description: s.Description,
		Pattern:     s.Pattern,
	}

	if s.Type != nil {
		types := []string(*s.Type)
		switch len(types) {
		case 0:
		case 1:
			out.Type = types[0]
		default:
			for _, typ := range types {
				out.AnyOf = append(out.AnyOf, &js.Schema{Type: typ})
			}
		}
	}

	if s.Min != nil {
		out.Minimum = number(*s.Min)
	}
	if s.Max != nil {
		out.Maximum = number(*s.Max)
	}
	if s.MinLength > 0 {
		v := s.MinLength
		out.MinLength = &v
	}
	if s.MaxLength != nil {
		v := *s.MaxLength
		out.MaxLength = &v
	}
	if s.Example != nil {
		out.Examples = []any{s.Example}
	}
	if len(s.Enum) > 0 {
		out.Enum = append([]any(nil), s.Enum...)
	}
	if len(s.Extensions) > 0 {
		out.Extras = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			out.Extras[k] = v
		}
	}
	return out
}

func number(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}
