// Package http exposes the bank API and its documentation over HTTP.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/artpar/primitives/adapters/metrics"
	"github.com/artpar/primitives/app"
	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/domain/bank/ledger"
	"github.com/artpar/primitives/pkg/jsonapi"
)

// Resource types.
const (
	TypeCustomers = "customers"
	TypeTransfers = "transfers"
	TypeSummaries = "summaries"
)

// CustomerAttributes are the attributes of a customer resource.
type CustomerAttributes struct {
	Name      bank.CustomerName `json:"name"`
	IBAN      bank.IBAN         `json:"iban"`
	BirthDate bank.BirthDate    `json:"birth_date"`
	CreatedAt time.Time         `json:"created_at"`
}

// TransferAttributes are the attributes of a transfer resource.
type TransferAttributes struct {
	CustomerID   bank.CustomerID     `json:"customer_id"`
	Amount       bank.PositiveAmount `json:"amount"`
	ValueDate    bank.CompactDate    `json:"value_date"`
	Cutoff       bank.CutoffTime     `json:"cutoff"`
	Counterparty *bank.IBAN          `json:"counterparty,omitempty"`
	Hold         *bank.HoldPeriod    `json:"hold" nullable:"true"`
	Sequence     bank.TransferCount  `json:"sequence"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Handler serves the customer and transfer resources.
type Handler struct {
	customers *app.CustomerService
	transfers *app.TransferService
	logger    zerolog.Logger
	metrics   *metrics.Collector
}

// HandlerConfig contains the dependencies of Handler. Metrics is optional.
type HandlerConfig struct {
	Customers *app.CustomerService
	Transfers *app.TransferService
	Logger    zerolog.Logger
	Metrics   *metrics.Collector
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		customers: cfg.Customers,
		transfers: cfg.Transfers,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.RegisterCustomer)
		r.Get("/", h.ListCustomers)
		r.Get("/{id}", h.GetCustomer)
		r.Get("/{id}/transfers", h.ListTransfers)
		r.Get("/{id}/summary", h.GetSummary)
	})
	r.Route("/transfers", func(r chi.Router) {
		r.Post("/", h.CreateTransfer)
		r.Get("/{id}", h.GetTransfer)
	})
}

// RegisterCustomer handles POST /customers.
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterCustomer
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, r, "customer", "", err)
		return
	}

	c, err := h.customers.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "customer", "", err)
		return
	}
	jsonapi.WriteCreated(w, customerResource(c), customerPath(c.ID))
}

// ListCustomers handles GET /customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := jsonapi.ParsePage(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "customer", "", err)
		return
	}

	customers, err := h.customers.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, "customer", "", err)
		return
	}

	resources := make([]jsonapi.Resource, len(customers))
	for i, c := range customers {
		resources[i] = customerResource(c)
	}
	jsonapi.WriteCollection(w, resources, jsonapi.NewPagination(limit, offset, len(customers), "/customers"))
}

// GetCustomer handles GET /customers/{id}.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "customer", id.String(), err)
		return
	}
	jsonapi.WriteResource(w, http.StatusOK, customerResource(c))
}

// ListTransfers handles GET /customers/{id}/transfers.
func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	transfers, err := h.transfers.ListByCustomer(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "customer", id.String(), err)
		return
	}

	resources := make([]jsonapi.Resource, len(transfers))
	for i, t := range transfers {
		resources[i] = transferResource(t)
	}
	jsonapi.WriteCollection(w, resources, nil)
}

// GetSummary handles GET /customers/{id}/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	s, err := h.transfers.Summary(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "customer", id.String(), err)
		return
	}
	jsonapi.WriteResource(w, http.StatusOK, summaryResource(s))
}

// CreateTransfer handles POST /transfers.
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var in app.CreateTransfer
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, r, "transfer", "", err)
		return
	}

	t, err := h.transfers.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "transfer", "", err)
		return
	}
	jsonapi.WriteCreated(w, transferResource(t), "/transfers/"+t.ID)
}

// GetTransfer handles GET /transfers/{id}.
func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.transfers.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "transfer", id, err)
		return
	}
	jsonapi.WriteResource(w, http.StatusOK, transferResource(t))
}

// customerID parses the {id} path parameter. An unparsable ID names no
// customer and is answered with 404.
func (h *Handler) customerID(w http.ResponseWriter, r *http.Request) (bank.CustomerID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := bank.ParseCustomerID(raw)
	if err != nil {
		jsonapi.WriteNotFound(w, "customer", raw)
		return bank.CustomerID{}, false
	}
	return id, true
}

func customerPath(id bank.CustomerID) string {
	return "/customers/" + id.String()
}

func customerResource(c bank.Customer) jsonapi.Resource {
	return jsonapi.NewResource(TypeCustomers, c.ID.String()).
		Attributes(CustomerAttributes{
			Name:      c.Name,
			IBAN:      c.IBAN,
			BirthDate: c.BirthDate,
			CreatedAt: c.CreatedAt,
		}).
		Link(customerPath(c.ID)).
		Build()
}

func transferResource(t bank.Transfer) jsonapi.Resource {
	return jsonapi.NewResource(TypeTransfers, t.ID).
		Attributes(TransferAttributes{
			CustomerID:   t.CustomerID,
			Amount:       t.Amount,
			ValueDate:    t.ValueDate,
			Cutoff:       t.Cutoff,
			Counterparty: t.Counterparty,
			Hold:         t.Hold,
			Sequence:     t.Sequence,
			CreatedAt:    t.CreatedAt,
		}).
		BelongsTo("customer", TypeCustomers, t.CustomerID.String(), customerPath(t.CustomerID)).
		Link("/transfers/" + t.ID).
		Build()
}

func summaryResource(s ledger.Summary) jsonapi.Resource {
	return jsonapi.NewResource(TypeSummaries, s.CustomerID.String()).
		Attributes(s).
		Link(customerPath(s.CustomerID) + "/summary").
		Build()
}
