// Package app contains the application services of the bank API.
package app

import (
	"errors"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/domain/primitive"
)

// ErrUnknownCustomer is returned when a transfer names a customer that does not exist.
var ErrUnknownCustomer = errors.New("customer does not exist")

// FieldError ties a rejection to the request field it came from.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// FieldErrors flattens err into its field errors. Errors that carry no
// field are returned with an empty Field.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*FieldError
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return []*FieldError{{Err: err}}
}

// required reports a missing value of p's kind.
func required(field string, p primitive.Primitive) error {
	return &FieldError{
		Field: field,
		Err:   &primitive.RejectionError{Primitive: p.Descriptor().Name(), Reason: "value is required"},
	}
}

// revalidate runs a constructor again so zero values of absent fields are rejected.
func revalidate[R, P any](field string, raw R, build func(R) (P, error)) error {
	if _, err := build(raw); err != nil {
		return &FieldError{Field: field, Err: err}
	}
	return nil
}

// RegisterCustomer is the input of CustomerService.Register.
type RegisterCustomer struct {
	Name      bank.CustomerName `json:"name"`
	IBAN      bank.IBAN         `json:"iban"`
	BirthDate bank.BirthDate    `json:"birth_date"`
}

// Validate rejects absent or invalid fields.
func (r RegisterCustomer) Validate() error {
	errs := []error{
		revalidate("name", r.Name.Raw(), bank.NewCustomerName),
		revalidate("iban", r.IBAN.Raw(), bank.NewIBAN),
	}
	if r.BirthDate.Raw().IsZero() {
		errs = append(errs, required("birth_date", r.BirthDate))
	}
	return errors.Join(errs...)
}

// CreateTransfer is the input of TransferService.Create.
type CreateTransfer struct {
	CustomerID   bank.CustomerID     `json:"customer_id"`
	Amount       bank.PositiveAmount `json:"amount"`
	ValueDate    bank.CompactDate    `json:"value_date"`
	Cutoff       *bank.CutoffTime    `json:"cutoff,omitempty"`
	Counterparty *bank.IBAN          `json:"counterparty,omitempty"`
	Hold         *bank.HoldPeriod    `json:"hold,omitempty" nullable:"true"`
}

// Validate rejects absent or invalid fields.
func (r CreateTransfer) Validate() error {
	var errs []error
	if r.CustomerID.IsZero() {
		errs = append(errs, required("customer_id", r.CustomerID))
	}
	errs = append(errs, revalidate("amount", r.Amount.Raw(), bank.NewPositiveAmount))
	if r.ValueDate.Raw().IsZero() {
		errs = append(errs, required("value_date", r.ValueDate))
	}
	if r.Counterparty != nil {
		errs = append(errs, revalidate("counterparty", r.Counterparty.Raw(), bank.NewIBAN))
	}
	return errors.Join(errs...)
}
