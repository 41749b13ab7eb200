package bank

import (
	"database/sql/driver"

	"github.com/google/uuid"

	"github.com/artpar/primitives/domain/primitive"
)

// CustomerName is a trimmed display name of 4 to 100 characters.
type CustomerName struct{ v string }

// NewCustomerName validates s.
func NewCustomerName(s string) (CustomerName, error) {
	v, err := customerNameType.New(s)
	return CustomerName{v}, err
}

// MustCustomerName is NewCustomerName for known-good literals.
func MustCustomerName(s string) CustomerName {
	n, err := NewCustomerName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n CustomerName) Raw() string                    { return n.v }
func (n CustomerName) String() string                 { return customerNameType.Render(n.v) }
func (CustomerName) Descriptor() primitive.Descriptor { return customerNameType }
func (n CustomerName) MarshalJSON() ([]byte, error)   { return customerNameType.MarshalJSON(n.v) }
func (n CustomerName) Value() (driver.Value, error)   { return customerNameType.Value(n.v) }
func (n CustomerName) MarshalText() ([]byte, error)   { return []byte(n.String()), nil }
func (n *CustomerName) UnmarshalText(b []byte) (err error) {
	n.v, err = customerNameType.Parse(string(b))
	return err
}
func (n *CustomerName) UnmarshalJSON(b []byte) (err error) {
	n.v, err = customerNameType.UnmarshalJSON(b)
	return err
}
func (n *CustomerName) Scan(src any) (err error) {
	n.v, err = customerNameType.Scan(src)
	return err
}

// CustomerID identifies a customer. The nil UUID is rejected.
type CustomerID struct{ v uuid.UUID }

// NewCustomerID validates id.
func NewCustomerID(id uuid.UUID) (CustomerID, error) {
	v, err := customerIDType.New(id)
	return CustomerID{v}, err
}

// ParseCustomerID parses and validates the canonical UUID form.
func ParseCustomerID(s string) (CustomerID, error) {
	v, err := customerIDType.Parse(s)
	return CustomerID{v}, err
}

// MustCustomerID is ParseCustomerID for known-good literals.
func MustCustomerID(s string) CustomerID {
	id, err := ParseCustomerID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id CustomerID) Raw() uuid.UUID                { return id.v }
func (id CustomerID) String() string                { return customerIDType.Render(id.v) }
func (CustomerID) Descriptor() primitive.Descriptor { return customerIDType }
func (id CustomerID) IsZero() bool                  { return id.v == uuid.Nil }
func (id CustomerID) MarshalJSON() ([]byte, error)  { return customerIDType.MarshalJSON(id.v) }
func (id CustomerID) Value() (driver.Value, error)  { return customerIDType.Value(id.v) }
func (id CustomerID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id *CustomerID) UnmarshalText(b []byte) (err error) {
	id.v, err = customerIDType.Parse(string(b))
	return err
}
func (id *CustomerID) UnmarshalJSON(b []byte) (err error) {
	id.v, err = customerIDType.UnmarshalJSON(b)
	return err
}
func (id *CustomerID) Scan(src any) (err error) {
	id.v, err = customerIDType.Scan(src)
	return err
}

// IBAN is an international bank account number with spaces removed.
type IBAN struct{ v string }

// NewIBAN validates s. Spaces are removed before validation.
func NewIBAN(s string) (IBAN, error) {
	v, err := ibanType.New(s)
	return IBAN{v}, err
}

// MustIBAN is NewIBAN for known-good literals.
func MustIBAN(s string) IBAN {
	i, err := NewIBAN(s)
	if err != nil {
		panic(err)
	}
	return i
}

func (i IBAN) Raw() string                    { return i.v }
func (i IBAN) String() string                 { return ibanType.Render(i.v) }
func (IBAN) Descriptor() primitive.Descriptor { return ibanType }
func (i IBAN) MarshalJSON() ([]byte, error)   { return ibanType.MarshalJSON(i.v) }
func (i IBAN) Value() (driver.Value, error)   { return ibanType.Value(i.v) }
func (i IBAN) MarshalText() ([]byte, error)   { return []byte(i.String()), nil }
func (i *IBAN) UnmarshalText(b []byte) (err error) {
	i.v, err = ibanType.Parse(string(b))
	return err
}
func (i *IBAN) UnmarshalJSON(b []byte) (err error) {
	i.v, err = ibanType.UnmarshalJSON(b)
	return err
}
func (i *IBAN) Scan(src any) (err error) {
	i.v, err = ibanType.Scan(src)
	return err
}
