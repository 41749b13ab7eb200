package bank

import (
	"time"

	"github.com/artpar/primitives/domain/primitive"
)

// Customer is a registered account holder (immutable value type).
type Customer struct {
	ID        CustomerID   `json:"id"`
	Name      CustomerName `json:"name"`
	IBAN      IBAN         `json:"iban"`
	BirthDate BirthDate    `json:"birth_date"`
	CreatedAt time.Time    `json:"created_at"`
}

// Transfer is an outgoing payment instruction (immutable value type).
type Transfer struct {
	ID           string         `json:"id"`
	CustomerID   CustomerID     `json:"customer_id"`
	Amount       PositiveAmount `json:"amount"`
	ValueDate    CompactDate    `json:"value_date"`
	Cutoff       CutoffTime     `json:"cutoff"`
	Counterparty *IBAN          `json:"counterparty,omitempty"`
	Hold         *HoldPeriod    `json:"hold,omitempty" nullable:"true"`
	Sequence     TransferCount  `json:"sequence"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Reasons a transfer is refused.
const (
	ReasonValueDatePassed = "value date is in the past"
	ReasonAfterCutoff     = "same-day transfer requested after cutoff"
	ReasonSelfTransfer    = "counterparty is the customer's own account"
)

// Admit decides whether a transfer can be accepted at the given instant.
// This is a PURE function.
func Admit(c Customer, t Transfer, at time.Time) primitive.Result {
	today := dateOnly(at)
	value := t.ValueDate.Raw()

	if value.Before(today) {
		return primitive.Reject(ReasonValueDatePassed)
	}
	if value.Equal(today) && at.After(t.Cutoff.On(at)) {
		return primitive.Reject(ReasonAfterCutoff)
	}
	if t.Counterparty != nil && t.Counterparty.Raw() == c.IBAN.Raw() {
		return primitive.Reject(ReasonSelfTransfer)
	}
	return primitive.OK()
}
