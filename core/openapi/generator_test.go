package openapi_test

import (
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/primitives/core/openapi"
	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/schema"
	"github.com/artpar/primitives/core/transform"
	"github.com/artpar/primitives/domain/primitive"
)

var tickerDesc = primitive.Define("Ticker",
	primitive.WithRule(func(s string) primitive.Result {
		if s == "" {
			return primitive.Reject("ticker is empty")
		}
		return primitive.OK()
	}),
	primitive.WithDefault("ACME"),
)

type ticker struct{ v string }

func (ticker) Descriptor() primitive.Descriptor { return tickerDesc }
func (t ticker) String() string                 { return t.v }

var windowDesc = primitive.Define("Window",
	primitive.WithRule(func(d time.Duration) primitive.Result { return primitive.OK() }),
	primitive.WithDefault(time.Minute),
)

type window struct{ v time.Duration }

func (window) Descriptor() primitive.Descriptor { return windowDesc }
func (w window) String() string                 { return windowDesc.Render(w.v) }

type order struct {
	Symbol   ticker            `json:"symbol"`
	Hint     ticker            `json:"hint" nullable:"true"`
	Alias    *ticker           `json:"alias,omitempty"`
	Window   *window           `json:"window,omitempty" nullable:"true"`
	Placed   time.Time         `json:"placed_at"`
	Legs     []leg             `json:"legs"`
	Labels   map[string]string `json:"labels,omitempty"`
	Internal string            `json:"-"`
}

type leg struct {
	Symbol ticker `json:"symbol"`
	Qty    int64  `json:"qty"`
}

const (
	tickerComponent = "openapi_test.ticker"
	orderComponent  = "openapi_test.order"
	legComponent    = "openapi_test.leg"
)

func fragmentsTransformer(t *testing.T) transform.Transformer {
	t.Helper()
	b := registry.NewBuilder()
	_, err := b.Add(reflect.TypeFor[ticker](), schema.Fragment{
		Kind:    schema.KindString,
		Title:   "Ticker",
		Pattern: "^[A-Z]+$",
	})
	require.NoError(t, err)
	return transform.NewFragments(b.Build())
}

func orderGenerator(tr transform.Transformer) *openapi.Generator {
	g := openapi.NewGenerator(tr, openapi3.Info{Title: "Orders", Version: "1.0.0"})
	g.Add(
		openapi.Operation{
			Method:   http.MethodPost,
			Path:     "/orders",
			ID:       "createOrder",
			Tags:     []string{"orders"},
			Request:  reflect.TypeFor[order](),
			Status:   http.StatusCreated,
			Response: reflect.TypeFor[order](),
			Envelope: openapi.Resource,
			Errors:   []int{http.StatusUnprocessableEntity},
		},
		openapi.Operation{
			Method: http.MethodGet,
			Path:   "/orders/{symbol}",
			ID:     "getOrder",
			Tags:   []string{"orders"},
			Params: []openapi.Param{
				{Name: "symbol", In: openapi3.ParameterInPath, Type: reflect.TypeFor[ticker]()},
			},
			Response: reflect.TypeFor[order](),
			Envelope: openapi.Resource,
		},
	)
	return g
}

func TestGenerate_HoistsPrimitives(t *testing.T) {
	doc, err := orderGenerator(fragmentsTransformer(t)).Generate()
	require.NoError(t, err)

	assert.Equal(t, openapi.Version, doc.OpenAPI)
	require.Contains(t, doc.Components.Schemas, tickerComponent)
	assert.Equal(t, "^[A-Z]+$", doc.Components.Schemas[tickerComponent].Value.Pattern)

	orderSchema := doc.Components.Schemas[orderComponent]
	require.NotNil(t, orderSchema)
	props := orderSchema.Value.Properties

	assert.Equal(t, "#/components/schemas/"+tickerComponent, props["symbol"].Ref)
	assert.Equal(t, "#/components/schemas/"+tickerComponent, doc.Components.Schemas[legComponent].Value.Properties["symbol"].Ref)
	assert.Equal(t, "#/components/schemas/"+legComponent, props["legs"].Value.Items.Ref)
	assert.NotContains(t, props, "Internal")
	assert.Equal(t, []string{"hint", "legs", "placed_at", "symbol"}, orderSchema.Value.Required)
}

func TestGenerate_NullableInline(t *testing.T) {
	doc, err := orderGenerator(fragmentsTransformer(t)).Generate()
	require.NoError(t, err)
	props := doc.Components.Schemas[orderComponent].Value.Properties

	tests := []struct {
		field string
		want  openapi3.Types
	}{
		{"hint", openapi3.Types{"string", "null"}},
		{"alias", openapi3.Types{"string", "null"}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			ref := props[tt.field]
			assert.Empty(t, ref.Ref, "nullable variants are not hoisted")
			require.NotNil(t, ref.Value.Type)
			assert.Equal(t, tt.want, *ref.Value.Type)
			assert.False(t, ref.Value.Nullable, "3.1 documents carry null in the type array only")
			assert.Equal(t, "^[A-Z]+$", ref.Value.Pattern)
		})
	}
}

func TestGenerate_UnregisteredPrimitivePassesThrough(t *testing.T) {
	doc, err := orderGenerator(fragmentsTransformer(t)).Generate()
	require.NoError(t, err)

	window := doc.Components.Schemas[orderComponent].Value.Properties["window"]
	assert.Nil(t, window.Value.Type, "fragments transformer leaves unknown primitives alone")
	assert.Equal(t, true, window.Value.Extensions[transform.NullableExtension])
}

func TestGenerate_UnderlyingTransformer(t *testing.T) {
	doc, err := orderGenerator(transform.NewUnderlying()).Generate()
	require.NoError(t, err)

	window := doc.Components.Schemas[orderComponent].Value.Properties["window"]
	require.NotNil(t, window.Value.Type)
	assert.Equal(t, openapi3.Types{"string", "null"}, *window.Value.Type)
	assert.Equal(t, "duration", window.Value.Format)

	assert.Contains(t, doc.Components.Schemas, tickerComponent)
	assert.Empty(t, doc.Components.Schemas[tickerComponent].Value.Pattern)
}

func TestGenerate_Operations(t *testing.T) {
	g := orderGenerator(fragmentsTransformer(t))
	g.SetErrorType(reflect.TypeFor[struct {
		Errors []string `json:"errors"`
	}]())
	doc, err := g.Generate()
	require.NoError(t, err)

	create := doc.Paths.Value("/orders").Post
	require.NotNil(t, create)
	assert.Equal(t, "createOrder", create.OperationID)
	assert.True(t, create.RequestBody.Value.Required)
	assert.NotNil(t, create.Responses.Status(http.StatusCreated))
	assert.NotNil(t, create.Responses.Status(http.StatusUnprocessableEntity))

	body := create.Responses.Status(http.StatusCreated).Value.Content.Get("application/json").Schema.Value
	data := body.Properties["data"].Value
	assert.Equal(t, "#/components/schemas/"+orderComponent, data.Properties["attributes"].Ref)

	get := doc.Paths.Value("/orders/{symbol}").Get
	require.NotNil(t, get)
	require.Len(t, get.Parameters, 1)
	assert.True(t, get.Parameters[0].Value.Required)
	assert.Equal(t, "#/components/schemas/"+tickerComponent, get.Parameters[0].Value.Schema.Ref)

	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "orders", doc.Tags[0].Name)
}

func TestGenerate_QualifiesComponentNames(t *testing.T) {
	// Declared locally, so it shares the package and name of the outer order.
	type order struct {
		Note string `json:"note"`
	}

	g := orderGenerator(fragmentsTransformer(t))
	g.Add(openapi.Operation{
		Method:   http.MethodPut,
		Path:     "/orders",
		ID:       "replaceOrder",
		Request:  reflect.TypeFor[order](),
		Response: reflect.TypeFor[order](),
	})
	doc, err := g.Generate()
	require.NoError(t, err)

	require.Contains(t, doc.Components.Schemas, orderComponent)
	assert.Contains(t, doc.Components.Schemas[orderComponent].Value.Properties, "symbol")

	require.Contains(t, doc.Components.Schemas, orderComponent+"_2")
	assert.Contains(t, doc.Components.Schemas[orderComponent+"_2"].Value.Properties, "note")

	put := doc.Paths.Value("/orders").Put
	assert.Equal(t, "#/components/schemas/"+orderComponent+"_2", put.RequestBody.Value.Content.Get("application/json").Schema.Ref)
}

func TestGenerate_RejectsDuplicateOperation(t *testing.T) {
	g := orderGenerator(fragmentsTransformer(t))
	g.Add(openapi.Operation{Method: http.MethodPost, Path: "/orders", ID: "again"})

	_, err := g.Generate()
	assert.ErrorContains(t, err, "duplicate operation")
}

func TestGenerate_RejectsRelativePath(t *testing.T) {
	g := openapi.NewGenerator(transform.NewUnderlying(), openapi3.Info{Title: "x", Version: "1"})
	g.Add(openapi.Operation{Method: http.MethodGet, Path: "orders", ID: "bad"})

	_, err := g.Generate()
	assert.Error(t, err)
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"github.com/acme/domain/bank.IBAN", "bank.IBAN"},
		{"bank.IBAN", "bank.IBAN"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := openapi.ComponentName(tt.id); got != tt.want {
			t.Errorf("ComponentName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
