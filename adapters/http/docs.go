package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"

	"github.com/artpar/primitives/adapters/jsonschema"
	"github.com/artpar/primitives/app"
	"github.com/artpar/primitives/core/openapi"
	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/domain/bank/ledger"
	"github.com/artpar/primitives/pkg/jsonapi"
)

// SwaggerInstance is the swag registry name of the generated document.
const SwaggerInstance = "primitives"

// swaggerDoc forwards swag lookups to the current document service, so the
// process-wide swag registry is written once.
type swaggerDoc struct {
	svc atomic.Pointer[openapi.Service]
}

func (d *swaggerDoc) ReadDoc() string {
	if svc := d.svc.Load(); svc != nil {
		return svc.ReadDoc()
	}
	return "{}"
}

var (
	swaggerOnce sync.Once
	swagger     = &swaggerDoc{}
)

// RegisterSwagger makes svc the document served by the swagger UI.
func RegisterSwagger(svc *openapi.Service) {
	swagger.svc.Store(svc)
	swaggerOnce.Do(func() {
		swag.Register(SwaggerInstance, swagger)
	})
}

// SwaggerHandler serves the swagger UI for the registered document.
func SwaggerHandler() http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.InstanceName(SwaggerInstance))
}

// OpenAPIHandler serves the generated OpenAPI document.
func OpenAPIHandler(svc *openapi.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := svc.JSON()
		if err != nil {
			logger.Error().Err(err).Msg("generate openapi document")
			jsonapi.WriteInternalError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Write(body)
	}
}

// SchemaIndexHandler lists the names served under /schemas.
func SchemaIndexHandler(gen *jsonschema.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"schemas": gen.Names()})
	}
}

// SchemaHandler serves the JSON Schema registered under {name}.
func SchemaHandler(gen *jsonschema.Generator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		s, err := gen.Schema(name)
		if errors.Is(err, jsonschema.ErrUnknownSchema) {
			jsonapi.WriteNotFound(w, "schema", name)
			return
		}
		if err != nil {
			logger.Error().Err(err).Str("schema", name).Msg("generate json schema")
			jsonapi.WriteInternalError(w)
			return
		}
		body, err := json.Marshal(s)
		if err != nil {
			logger.Error().Err(err).Str("schema", name).Msg("encode json schema")
			jsonapi.WriteInternalError(w)
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Write(body)
	}
}

// Schemas registers the documented payloads of the API with gen.
func Schemas(gen *jsonschema.Generator) {
	gen.Register("customer", CustomerAttributes{})
	gen.Register("transfer", TransferAttributes{})
	gen.Register("register-customer", app.RegisterCustomer{})
	gen.Register("create-transfer", app.CreateTransfer{})
	gen.Register("summary", ledger.Summary{})
}

// Operations describes the API for the OpenAPI generator.
func Operations() []openapi.Operation {
	var (
		idParam    = openapi.Param{Name: "id", In: "path", Description: "Customer ID", Type: reflect.TypeFor[bank.CustomerID]()}
		transferID = openapi.Param{Name: "id", In: "path", Description: "Transfer ID", Type: reflect.TypeFor[string]()}
		page       = []openapi.Param{
			{Name: "page[limit]", In: "query", Description: "Page size", Type: reflect.TypeFor[int]()},
			{Name: "page[offset]", In: "query", Description: "Index of the first item", Type: reflect.TypeFor[int]()},
		}
	)

	return []openapi.Operation{
		{
			Method:      http.MethodPost,
			Path:        "/customers",
			ID:          "registerCustomer",
			Summary:     "Register a customer",
			Tags:        []string{"Customers"},
			Request:     reflect.TypeFor[app.RegisterCustomer](),
			Status:      http.StatusCreated,
			Response:    reflect.TypeFor[CustomerAttributes](),
			Envelope:    openapi.Resource,
			Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:      http.MethodGet,
			Path:        "/customers",
			ID:          "listCustomers",
			Summary:     "List customers",
			Tags:        []string{"Customers"},
			Params:      page,
			Response:    reflect.TypeFor[CustomerAttributes](),
			Envelope:    openapi.Collection,
			Errors:      []int{http.StatusBadRequest},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:      http.MethodGet,
			Path:        "/customers/{id}",
			ID:          "getCustomer",
			Summary:     "Get a customer",
			Tags:        []string{"Customers"},
			Params:      []openapi.Param{idParam},
			Response:    reflect.TypeFor[CustomerAttributes](),
			Envelope:    openapi.Resource,
			Errors:      []int{http.StatusNotFound},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:      http.MethodGet,
			Path:        "/customers/{id}/transfers",
			ID:          "listCustomerTransfers",
			Summary:     "List the transfers of a customer",
			Tags:        []string{"Transfers"},
			Params:      []openapi.Param{idParam},
			Response:    reflect.TypeFor[TransferAttributes](),
			Envelope:    openapi.Collection,
			Errors:      []int{http.StatusNotFound},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:      http.MethodGet,
			Path:        "/customers/{id}/summary",
			ID:          "getCustomerSummary",
			Summary:     "Summarize the transfers of a customer",
			Tags:        []string{"Transfers"},
			Params:      []openapi.Param{idParam},
			Response:    reflect.TypeFor[ledger.Summary](),
			Envelope:    openapi.Resource,
			Errors:      []int{http.StatusNotFound},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:      http.MethodPost,
			Path:        "/transfers",
			ID:          "createTransfer",
			Summary:     "Create a transfer",
			Tags:        []string{"Transfers"},
			Request:     reflect.TypeFor[app.CreateTransfer](),
			Status:      http.StatusCreated,
			Response:    reflect.TypeFor[TransferAttributes](),
			Envelope:    openapi.Resource,
			Errors:      []int{http.StatusBadRequest, http.StatusUnprocessableEntity},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:      http.MethodGet,
			Path:        "/transfers/{id}",
			ID:          "getTransfer",
			Summary:     "Get a transfer",
			Tags:        []string{"Transfers"},
			Params:      []openapi.Param{transferID},
			Response:    reflect.TypeFor[TransferAttributes](),
			Envelope:    openapi.Resource,
			Errors:      []int{http.StatusNotFound},
			ContentType: jsonapi.ContentType,
		},
		{
			Method:   http.MethodGet,
			Path:     "/health",
			ID:       "health",
			Summary:  "Liveness check",
			Tags:     []string{"System"},
			Response: reflect.TypeFor[HealthResponse](),
		},
		{
			Method:   http.MethodGet,
			Path:     "/version",
			ID:       "version",
			Summary:  "Service version",
			Tags:     []string{"System"},
			Response: reflect.TypeFor[VersionResponse](),
		},
	}
}

// Describe adds the API operations and error body to gen.
func Describe(gen *openapi.Generator) *openapi.Generator {
	gen.SetErrorType(reflect.TypeFor[ErrorDocument]())
	gen.Add(Operations()...)
	return gen
}
