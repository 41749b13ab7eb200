package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/ports"
)

type sequenceKey struct {
	customer bank.CustomerID
	seq      int64
}

// TransferStore is an in-memory implementation of ports.TransferStore.
type TransferStore struct {
	mu         sync.RWMutex
	transfers  map[string]bank.Transfer     // by ID
	bySequence map[sequenceKey]string       // (customer, seq) -> ID
	byCustomer map[bank.CustomerID][]string // customer -> IDs
}

// NewTransferStore creates a new in-memory transfer store.
func NewTransferStore() *TransferStore {
	return &TransferStore{
		transfers:  make(map[string]bank.Transfer),
		bySequence: make(map[sequenceKey]string),
		byCustomer: make(map[bank.CustomerID][]string),
	}
}

// Create stores a new transfer.
func (s *TransferStore) Create(ctx context.Context, t bank.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sequenceKey{customer: t.CustomerID, seq: t.Sequence.Raw()}
	if _, exists := s.transfers[t.ID]; exists {
		return ports.ErrAlreadyExists
	}
	if _, exists := s.bySequence[key]; exists {
		return ports.ErrAlreadyExists
	}

	s.transfers[t.ID] = t
	s.bySequence[key] = t.ID
	s.byCustomer[t.CustomerID] = append(s.byCustomer[t.CustomerID], t.ID)
	return nil
}

// Get retrieves a transfer by ID.
func (s *TransferStore) Get(ctx context.Context, id string) (bank.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transfers[id]
	if !ok {
		return bank.Transfer{}, ports.ErrNotFound
	}
	return t, nil
}

// ListByCustomer returns all transfers of a customer ordered by sequence.
func (s *TransferStore) ListByCustomer(ctx context.Context, id bank.CustomerID) ([]bank.Transfer, error) {
	s.mu.RLock()
	ids := s.byCustomer[id]
	result := make([]bank.Transfer, 0, len(ids))
	for _, tid := range ids {
		result = append(result, s.transfers[tid])
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Sequence.Raw() < result[j].Sequence.Raw()
	})
	return result, nil
}

// Clear removes all transfers (for testing).
func (s *TransferStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = make(map[string]bank.Transfer)
	s.bySequence = make(map[sequenceKey]string)
	s.byCustomer = make(map[bank.CustomerID][]string)
}

// Ensure interface compliance.
var _ ports.TransferStore = (*TransferStore)(nil)
