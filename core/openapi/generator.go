// Package openapi generates the OpenAPI document of the HTTP API by
// reflecting its request and response types.
//
// Every field type is offered to a transform.Transformer first. Primitive
// schemas it recognizes are hoisted into components/schemas, keyed by the
// primitive's identity marker, so each primitive is described once.
package openapi

import (
	"encoding"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/transform"
	"github.com/artpar/primitives/domain/primitive"
)

// Version is the OpenAPI version of generated documents. Nullable
// primitives are expressed with a "null" member of the type array.
const Version = "3.1.0"

// Envelope describes how a response body wraps its payload.
type Envelope int

const (
	// Plain bodies are the payload itself.
	Plain Envelope = iota
	// Resource bodies are {"data": {"type", "id", "attributes": payload}}.
	Resource
	// Collection bodies are {"data": [resource...], "meta": {...}}.
	Collection
)

// Param is a path or query parameter.
type Param struct {
	Name        string
	In          string // "path" or "query"
	Description string
	Type        reflect.Type
}

// Operation describes one HTTP operation.
type Operation struct {
	Method      string
	Path        string
	ID          string
	Summary     string
	Tags        []string
	Params      []Param
	Request     reflect.Type
	Status      int
	Response    reflect.Type
	Envelope    Envelope
	Errors      []int
	ContentType string
}

// Generator builds OpenAPI documents.
type Generator struct {
	transformer transform.Transformer
	info        openapi3.Info
	servers     openapi3.Servers
	ops         []Operation
	errorType   reflect.Type
}

// NewGenerator creates a generator that renders primitives through tr.
func NewGenerator(tr transform.Transformer, info openapi3.Info) *Generator {
	return &Generator{transformer: tr, info: info}
}

// Transformer returns the transformer primitives are rendered with.
func (g *Generator) Transformer() transform.Transformer {
	return g.transformer
}

// AddServer adds a server URL.
func (g *Generator) AddServer(url, description string) {
	g.servers = append(g.servers, &openapi3.Server{URL: url, Description: description})
}

// SetErrorType sets the body type of error responses.
func (g *Generator) SetErrorType(t reflect.Type) {
	g.errorType = t
}

// Add registers operations.
func (g *Generator) Add(ops ...Operation) {
	g.ops = append(g.ops, ops...)
}

// Generate creates the OpenAPI document.
func (g *Generator) Generate() (*openapi3.T, error) {
	info := g.info
	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &info,
		Servers: g.servers,
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}
	b := &builder{
		tr:         g.transformer,
		components: doc.Components.Schemas,
		names:      make(map[reflect.Type]string),
		owners:     make(map[string]reflect.Type),
	}

	tags := make(map[string]bool)
	for _, op := range g.ops {
		if op.Method == "" || !strings.HasPrefix(op.Path, "/") {
			return nil, fmt.Errorf("operation %q: method and absolute path are required", op.ID)
		}

		item := doc.Paths.Value(op.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(op.Path, item)
		}
		if item.GetOperation(op.Method) != nil {
			return nil, fmt.Errorf("duplicate operation %s %s", op.Method, op.Path)
		}
		item.SetOperation(op.Method, g.operation(b, op))

		for _, tag := range op.Tags {
			tags[tag] = true
		}
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: name})
	}
	return doc, nil
}

func (g *Generator) operation(b *builder, op Operation) *openapi3.Operation {
	out := openapi3.NewOperation()
	out.OperationID = op.ID
	out.Summary = op.Summary
	out.Tags = op.Tags

	for _, p := range op.Params {
		param := &openapi3.Parameter{
			Name:        p.Name,
			In:          p.In,
			Description: p.Description,
			Required:    p.In == openapi3.ParameterInPath,
			Schema:      b.ref(p.Type, false),
		}
		out.AddParameter(param)
	}

	if op.Request != nil {
		out.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(b.ref(op.Request, false)),
		}
	}

	contentType := op.ContentType
	if contentType == "" {
		contentType = "application/json"
	}

	out.Responses = openapi3.NewResponsesWithCapacity(1 + len(op.Errors))
	status := op.Status
	if status == 0 {
		status = http.StatusOK
	}
	resp := openapi3.NewResponse().WithDescription(http.StatusText(status))
	if op.Response != nil {
		resp.Content = openapi3.NewContentWithSchemaRef(b.envelope(op.Response, op.Envelope), []string{contentType})
	}
	out.AddResponse(status, resp)

	for _, code := range op.Errors {
		er := openapi3.NewResponse().WithDescription(http.StatusText(code))
		if g.errorType != nil {
			er.Content = openapi3.NewContentWithSchemaRef(b.ref(g.errorType, false), []string{contentType})
		}
		out.AddResponse(code, er)
	}
	return out
}

// builder renders Go types into schemas, collecting shared components.
type builder struct {
	tr         transform.Transformer
	components openapi3.Schemas
	names      map[reflect.Type]string
	owners     map[string]reflect.Type
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// ref returns the schema of t. nullable reports that the enclosing field
// carries the nullable tag.
func (b *builder) ref(t reflect.Type, nullable bool) *openapi3.SchemaRef {
	base := t
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	if primitive.Is(base) {
		return b.primitive(t, nullable)
	}

	switch {
	case base == timeType:
		return openapi3.NewSchemaRef("", openapi3.NewDateTimeSchema())
	case base.Kind() == reflect.Struct:
		return b.object(base)
	case reflect.PointerTo(base).Implements(textMarshalerType) || base.Implements(textMarshalerType):
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	}

	switch base.Kind() {
	case reflect.String:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	case reflect.Bool:
		return openapi3.NewSchemaRef("", openapi3.NewBoolSchema())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewSchemaRef("", openapi3.NewIntegerSchema())
	case reflect.Float32, reflect.Float64:
		return openapi3.NewSchemaRef("", openapi3.NewFloat64Schema())
	case reflect.Slice, reflect.Array:
		s := openapi3.NewArraySchema()
		s.Items = b.ref(base.Elem(), false)
		return openapi3.NewSchemaRef("", s)
	case reflect.Map:
		s := openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: b.ref(base.Elem(), false)}
		return openapi3.NewSchemaRef("", s)
	}
	return openapi3.NewSchemaRef("", openapi3.NewSchema())
}

// primitive runs the transformer. Non-null results are hoisted into
// components; nullable ones stay inline since they differ from the shared form.
func (b *builder) primitive(t reflect.Type, nullable bool) *openapi3.SchemaRef {
	in := openapi3.NewSchema()
	if nullable {
		in.Extensions = map[string]any{transform.NullableExtension: true}
	}

	out, ok := b.tr.Transform(in, t)
	if !ok {
		return openapi3.NewSchemaRef("", out)
	}
	if out.Nullable {
		// 3.1 expresses null through the type array only.
		out.Nullable = false
		return openapi3.NewSchemaRef("", out)
	}

	id, _ := out.Extensions[transform.PrimitiveIDExtension].(string)
	name := ComponentName(id)
	if name == "" {
		return openapi3.NewSchemaRef("", out)
	}
	if _, exists := b.components[name]; !exists {
		b.components[name] = openapi3.NewSchemaRef("", out)
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, out)
}

// componentName returns the component key of named struct t, qualified by
// its package and suffixed when another type already holds the key.
func (b *builder) componentName(t reflect.Type) string {
	if t.Name() == "" {
		return ""
	}
	if name, ok := b.names[t]; ok {
		return name
	}

	base := ComponentName(registry.TypeName(t))
	name := base
	for i := 2; ; i++ {
		_, taken := b.components[name]
		if _, owned := b.owners[name]; !taken && !owned {
			break
		}
		name = base + "_" + strconv.Itoa(i)
	}
	b.names[t] = name
	b.owners[name] = t
	return name
}

// object renders a struct from its JSON field tags and hoists it by name.
func (b *builder) object(t reflect.Type) *openapi3.SchemaRef {
	if name, ok := b.names[t]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, b.components[name].Value)
	}
	name := b.componentName(t)

	s := openapi3.NewObjectSchema()
	s.Properties = make(openapi3.Schemas)
	if name != "" {
		// Registered before fields are walked so recursive types terminate.
		b.components[name] = openapi3.NewSchemaRef("", s)
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		field, omitempty, skip := jsonName(f)
		if skip {
			continue
		}
		nullable, _ := strconv.ParseBool(f.Tag.Get("nullable"))
		s.Properties[field] = b.ref(f.Type, nullable)
		if !omitempty && f.Type.Kind() != reflect.Ptr {
			s.Required = append(s.Required, field)
		}
	}
	sort.Strings(s.Required)

	if name == "" {
		return openapi3.NewSchemaRef("", s)
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, s)
}

// envelope wraps the payload schema of a response.
func (b *builder) envelope(t reflect.Type, e Envelope) *openapi3.SchemaRef {
	payload := b.ref(t, false)
	if e == Plain {
		return payload
	}

	resource := openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("id", openapi3.NewStringSchema()).
		WithPropertyRef("attributes", payload)
	resource.Required = []string{"id", "type"}

	doc := openapi3.NewObjectSchema()
	if e == Collection {
		doc.WithProperty("data", openapi3.NewArraySchema().WithItems(resource))
		doc.WithProperty("meta", openapi3.NewObjectSchema())
	} else {
		doc.WithProperty("data", resource)
	}
	doc.Required = []string{"data"}
	return openapi3.NewSchemaRef("", doc)
}

// ComponentName derives a component key from a primitive identity, e.g.
// "github.com/acme/domain/bank.IBAN" becomes "bank.IBAN".
func ComponentName(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return id
}

func jsonName(f reflect.StructField) (name string, omitempty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitempty = true
		}
	}
	return name, omitempty, false
}
