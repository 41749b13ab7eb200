// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/artpar/primitives/domain/bank"
)

// Store errors shared by every adapter.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// CustomerStore persists bank customers.
type CustomerStore interface {
	// Create stores a new customer. Returns ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, c bank.Customer) error

	// Get retrieves a customer by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id bank.CustomerID) (bank.Customer, error)

	// List returns customers ordered by creation time.
	List(ctx context.Context, limit, offset int) ([]bank.Customer, error)
}

// TransferStore persists transfer instructions.
type TransferStore interface {
	// Create stores a new transfer. Returns ErrAlreadyExists if the ID or
	// the customer's sequence number is taken.
	Create(ctx context.Context, t bank.Transfer) error

	// Get retrieves a transfer by ID.
	Get(ctx context.Context, id string) (bank.Transfer, error)

	// ListByCustomer returns all transfers of a customer ordered by sequence.
	ListByCustomer(ctx context.Context, id bank.CustomerID) ([]bank.Transfer, error)
}
