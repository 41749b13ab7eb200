// Package memory provides in-memory implementations of storage ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/ports"
)

// CustomerStore is an in-memory implementation of ports.CustomerStore.
type CustomerStore struct {
	mu        sync.RWMutex
	customers map[bank.CustomerID]bank.Customer
}

// NewCustomerStore creates a new in-memory customer store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{
		customers: make(map[bank.CustomerID]bank.Customer),
	}
}

// Create stores a new customer.
func (s *CustomerStore) Create(ctx context.Context, c bank.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID]; exists {
		return ports.ErrAlreadyExists
	}
	s.customers[c.ID] = c
	return nil
}

// Get retrieves a customer by ID.
func (s *CustomerStore) Get(ctx context.Context, id bank.CustomerID) (bank.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return bank.Customer{}, ports.ErrNotFound
	}
	return c, nil
}

// List returns customers with pagination, oldest first.
func (s *CustomerStore) List(ctx context.Context, limit, offset int) ([]bank.Customer, error) {
	s.mu.RLock()
	all := make([]bank.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		all = append(all, c)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	return page(all, limit, offset), nil
}

// Count returns total customer count.
func (s *CustomerStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

// Clear removes all customers (for testing).
func (s *CustomerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = make(map[bank.CustomerID]bank.Customer)
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// Ensure interface compliance.
var _ ports.CustomerStore = (*CustomerStore)(nil)
