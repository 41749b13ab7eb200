package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/ports"
)

// TransferStore implements ports.TransferStore using SQLite.
type TransferStore struct {
	db *DB
}

// NewTransferStore creates a new SQLite transfer store.
func NewTransferStore(db *DB) *TransferStore {
	return &TransferStore{db: db}
}

const transferColumns = `id, customer_id, amount, value_date, cutoff, counterparty, hold, sequence, created_at`

// Create stores a new transfer.
func (s *TransferStore) Create(ctx context.Context, t bank.Transfer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.CustomerID, t.Amount, t.ValueDate, t.Cutoff, t.Counterparty, t.Hold, t.Sequence, t.CreatedAt.UTC())
	if isConstraintViolation(err) {
		return ports.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// Get retrieves a transfer by ID.
func (s *TransferStore) Get(ctx context.Context, id string) (bank.Transfer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE id = ?
	`, id)
	return scanTransfer(row)
}

// ListByCustomer returns all transfers of a customer ordered by sequence.
func (s *TransferStore) ListByCustomer(ctx context.Context, id bank.CustomerID) ([]bank.Transfer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE customer_id = ?
		ORDER BY sequence ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []bank.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func scanTransfer(row rowScanner) (bank.Transfer, error) {
	var (
		t            bank.Transfer
		counterparty sql.Null[bank.IBAN]
		hold         sql.Null[bank.HoldPeriod]
	)
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.Amount, &t.ValueDate, &t.Cutoff,
		&counterparty, &hold, &t.Sequence, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return bank.Transfer{}, ports.ErrNotFound
	}
	if err != nil {
		return bank.Transfer{}, fmt.Errorf("scan transfer: %w", err)
	}

	if counterparty.Valid {
		t.Counterparty = &counterparty.V
	}
	if hold.Valid {
		t.Hold = &hold.V
	}
	return t, nil
}

// Ensure interface compliance.
var _ ports.TransferStore = (*TransferStore)(nil)
