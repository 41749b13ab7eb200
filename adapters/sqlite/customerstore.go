package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/ports"
)

// CustomerStore implements ports.CustomerStore using SQLite.
type CustomerStore struct {
	db *DB
}

// NewCustomerStore creates a new SQLite customer store.
func NewCustomerStore(db *DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// Create stores a new customer.
func (s *CustomerStore) Create(ctx context.Context, c bank.Customer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, iban, birth_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.IBAN, c.BirthDate, c.CreatedAt.UTC())
	if isConstraintViolation(err) {
		return ports.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Get retrieves a customer by ID.
func (s *CustomerStore) Get(ctx context.Context, id bank.CustomerID) (bank.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, iban, birth_date, created_at
		FROM customers
		WHERE id = ?
	`, id)
	return scanCustomer(row)
}

// List returns customers with pagination, oldest first.
func (s *CustomerStore) List(ctx context.Context, limit, offset int) ([]bank.Customer, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, iban, birth_date, created_at
		FROM customers
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []bank.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (bank.Customer, error) {
	var c bank.Customer
	err := row.Scan(&c.ID, &c.Name, &c.IBAN, &c.BirthDate, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return bank.Customer{}, ports.ErrNotFound
	}
	if err != nil {
		return bank.Customer{}, fmt.Errorf("scan customer: %w", err)
	}
	return c, nil
}

// Ensure interface compliance.
var _ ports.CustomerStore = (*CustomerStore)(nil)
