package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/domain/bank/ledger"
	"github.com/artpar/primitives/ports"
)

// TransferRule names the rejection produced when a transfer is refused.
const TransferRule = "Transfer"

// maxSequenceAttempts bounds retries when a concurrent writer takes the
// customer's next sequence number.
const maxSequenceAttempts = 3

// TransferService accepts transfers and books them per customer.
type TransferService struct {
	customers ports.CustomerStore
	transfers ports.TransferStore
	clock     ports.Clock
	ids       ports.IDGenerator
	logger    zerolog.Logger
}

// TransferServiceConfig contains the dependencies of TransferService.
type TransferServiceConfig struct {
	Customers ports.CustomerStore
	Transfers ports.TransferStore
	Clock     ports.Clock
	IDs       ports.IDGenerator
	Logger    zerolog.Logger
}

// NewTransferService creates a new transfer service.
func NewTransferService(cfg TransferServiceConfig) *TransferService {
	return &TransferService{
		customers: cfg.Customers,
		transfers: cfg.Transfers,
		clock:     cfg.Clock,
		ids:       cfg.IDs,
		logger:    cfg.Logger,
	}
}

// Create validates the input, admits it against the customer and stores it
// with the customer's next sequence number.
func (s *TransferService) Create(ctx context.Context, in CreateTransfer) (bank.Transfer, error) {
	if err := in.Validate(); err != nil {
		return bank.Transfer{}, err
	}

	c, err := s.customer(ctx, in.CustomerID)
	if err != nil {
		return bank.Transfer{}, err
	}

	cutoff := defaultCutoff()
	if in.Cutoff != nil {
		cutoff = *in.Cutoff
	}

	for attempt := 1; ; attempt++ {
		existing, err := s.transfers.ListByCustomer(ctx, c.ID)
		if err != nil {
			return bank.Transfer{}, fmt.Errorf("list transfers: %w", err)
		}

		now := s.clock.Now()
		t := bank.Transfer{
			ID:           s.ids.New(),
			CustomerID:   c.ID,
			Amount:       in.Amount,
			ValueDate:    in.ValueDate,
			Cutoff:       cutoff,
			Counterparty: in.Counterparty,
			Hold:         in.Hold,
			Sequence:     ledger.NextSequence(c.ID, existing),
			CreatedAt:    now,
		}
		if err := bank.Admit(c, t, now).Err(TransferRule); err != nil {
			return bank.Transfer{}, err
		}

		err = s.transfers.Create(ctx, t)
		if errors.Is(err, ports.ErrAlreadyExists) && attempt < maxSequenceAttempts {
			s.logger.Debug().Str("customer_id", c.ID.String()).Int("attempt", attempt).Msg("sequence taken, retrying")
			continue
		}
		if err != nil {
			return bank.Transfer{}, fmt.Errorf("create transfer: %w", err)
		}

		s.logger.Info().
			Str("transfer_id", t.ID).
			Str("customer_id", c.ID.String()).
			Int64("sequence", t.Sequence.Raw()).
			Msg("transfer accepted")
		return t, nil
	}
}

// Get returns a transfer by ID.
func (s *TransferService) Get(ctx context.Context, id string) (bank.Transfer, error) {
	return s.transfers.Get(ctx, id)
}

// ListByCustomer returns the transfers of a customer ordered by sequence.
func (s *TransferService) ListByCustomer(ctx context.Context, id bank.CustomerID) ([]bank.Transfer, error) {
	if _, err := s.customers.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.transfers.ListByCustomer(ctx, id)
}

// Summary books the transfers of a customer.
func (s *TransferService) Summary(ctx context.Context, id bank.CustomerID) (ledger.Summary, error) {
	transfers, err := s.ListByCustomer(ctx, id)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(id, transfers), nil
}

func (s *TransferService) customer(ctx context.Context, id bank.CustomerID) (bank.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return bank.Customer{}, &FieldError{Field: "customer_id", Err: ErrUnknownCustomer}
	}
	if err != nil {
		return bank.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func defaultCutoff() bank.CutoffTime {
	return bank.MustCutoffTime(bank.CutoffTime{}.Descriptor().DefaultText())
}
