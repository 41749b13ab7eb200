package bank

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"

	"github.com/artpar/primitives/domain/primitive"
)

// PositiveAmount is a monetary amount above zero with at most two decimal places.
type PositiveAmount struct{ v decimal.Decimal }

// NewPositiveAmount validates d.
func NewPositiveAmount(d decimal.Decimal) (PositiveAmount, error) {
	v, err := positiveAmountType.New(d)
	return PositiveAmount{v}, err
}

// ParsePositiveAmount parses a decimal literal such as "10.50".
func ParsePositiveAmount(s string) (PositiveAmount, error) {
	v, err := positiveAmountType.Parse(s)
	return PositiveAmount{v}, err
}

// MustPositiveAmount is ParsePositiveAmount for known-good literals.
func MustPositiveAmount(s string) PositiveAmount {
	a, err := ParsePositiveAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a PositiveAmount) Raw() decimal.Decimal                { return a.v }
func (a PositiveAmount) String() string                      { return positiveAmountType.Render(a.v) }
func (PositiveAmount) Descriptor() primitive.Descriptor      { return positiveAmountType }
func (a PositiveAmount) Equal(o PositiveAmount) bool         { return a.v.Equal(o.v) }
func (a PositiveAmount) Add(o PositiveAmount) PositiveAmount { return PositiveAmount{a.v.Add(o.v)} }
func (a PositiveAmount) MarshalJSON() ([]byte, error)        { return positiveAmountType.MarshalJSON(a.v) }
func (a PositiveAmount) Value() (driver.Value, error)        { return positiveAmountType.Value(a.v) }
func (a PositiveAmount) MarshalText() ([]byte, error)        { return []byte(a.String()), nil }
func (a *PositiveAmount) UnmarshalText(b []byte) (err error) {
	a.v, err = positiveAmountType.Parse(string(b))
	return err
}
func (a *PositiveAmount) UnmarshalJSON(b []byte) (err error) {
	a.v, err = positiveAmountType.UnmarshalJSON(b)
	return err
}
func (a *PositiveAmount) Scan(src any) (err error) {
	a.v, err = positiveAmountType.Scan(src)
	return err
}

// TransferCount is a non-negative number of transfers.
type TransferCount struct{ v int64 }

// NewTransferCount validates n.
func NewTransferCount(n int64) (TransferCount, error) {
	v, err := transferCountType.New(n)
	return TransferCount{v}, err
}

// MustTransferCount is NewTransferCount for known-good literals.
func MustTransferCount(n int64) TransferCount {
	c, err := NewTransferCount(n)
	if err != nil {
		panic(err)
	}
	return c
}

func (c TransferCount) Raw() int64                     { return c.v }
func (c TransferCount) String() string                 { return transferCountType.Render(c.v) }
func (TransferCount) Descriptor() primitive.Descriptor { return transferCountType }
func (c TransferCount) Next() TransferCount            { return TransferCount{c.v + 1} }
func (c TransferCount) MarshalJSON() ([]byte, error)   { return transferCountType.MarshalJSON(c.v) }
func (c TransferCount) Value() (driver.Value, error)   { return transferCountType.Value(c.v) }
func (c TransferCount) MarshalText() ([]byte, error)   { return []byte(c.String()), nil }
func (c *TransferCount) UnmarshalText(b []byte) (err error) {
	c.v, err = transferCountType.Parse(string(b))
	return err
}
func (c *TransferCount) UnmarshalJSON(b []byte) (err error) {
	c.v, err = transferCountType.UnmarshalJSON(b)
	return err
}
func (c *TransferCount) Scan(src any) (err error) {
	c.v, err = transferCountType.Scan(src)
	return err
}
