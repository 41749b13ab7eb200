package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/ports"
)

// CustomerService registers and reads customers.
type CustomerService struct {
	store  ports.CustomerStore
	clock  ports.Clock
	ids    ports.IDGenerator
	logger zerolog.Logger
}

// CustomerServiceConfig contains the dependencies of CustomerService.
// IDs must produce UUID strings.
type CustomerServiceConfig struct {
	Store  ports.CustomerStore
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(cfg CustomerServiceConfig) *CustomerService {
	return &CustomerService{
		store:  cfg.Store,
		clock:  cfg.Clock,
		ids:    cfg.IDs,
		logger: cfg.Logger,
	}
}

// Register validates the input and stores a new customer.
func (s *CustomerService) Register(ctx context.Context, in RegisterCustomer) (bank.Customer, error) {
	if err := in.Validate(); err != nil {
		return bank.Customer{}, err
	}

	id, err := bank.ParseCustomerID(s.ids.New())
	if err != nil {
		// Not a rejection of the caller's input.
		return bank.Customer{}, fmt.Errorf("generate customer id: %v", err)
	}

	c := bank.Customer{
		ID:        id,
		Name:      in.Name,
		IBAN:      in.IBAN,
		BirthDate: in.BirthDate,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return bank.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info().Str("customer_id", c.ID.String()).Msg("customer registered")
	return c, nil
}

// Get returns a customer by ID.
func (s *CustomerService) Get(ctx context.Context, id bank.CustomerID) (bank.Customer, error) {
	return s.store.Get(ctx, id)
}

// List returns customers with pagination.
func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]bank.Customer, error) {
	return s.store.List(ctx, limit, offset)
}
