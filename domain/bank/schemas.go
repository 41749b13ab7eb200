package bank

import (
	"reflect"

	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/core/schema"
)

// Module names in the discovery catalog.
const (
	ModuleName       = "bank"
	LedgerModuleName = "bank/ledger"
)

func init() {
	discovery.Register(discovery.Module{
		Name:               ModuleName,
		References:         []string{LedgerModuleName},
		ContainsPrimitives: true,
		Helper:             openAPIHelper{},
	})
}

// openAPIHelper contributes the wire format of the bank primitives.
// HoldPeriod is described by its raw kind only.
type openAPIHelper struct{}

func (openAPIHelper) Schemas() map[reflect.Type]schema.Fragment {
	return map[reflect.Type]schema.Fragment{
		reflect.TypeFor[CustomerName](): {
			Kind:        schema.KindString,
			Title:       "Customer name",
			Description: "Display name of the account holder, surrounding whitespace removed.",
			Example:     "John Doe",
			MinLength:   schema.Uint(CustomerNameMin),
			MaxLength:   schema.Uint(CustomerNameMax),
		},
		reflect.TypeFor[CustomerID](): {
			Kind:        schema.KindString,
			Format:      "uuid",
			Title:       "Customer ID",
			Description: "Customer identifier. The nil UUID is never issued.",
			Example:     "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		},
		reflect.TypeFor[PositiveAmount](): {
			Kind:        schema.KindNumber,
			Format:      "decimal",
			Title:       "Amount",
			Description: "Monetary amount greater than zero with at most two decimal places.",
			Example:     10.5,
			Minimum:     schema.Float(0.01),
		},
		reflect.TypeFor[IBAN](): {
			Kind:        schema.KindString,
			Format:      "iban",
			Title:       "IBAN",
			Description: "International bank account number. Spaces are ignored.",
			Example:     "GB82WEST12345698765432",
			Pattern:     IBANPattern,
		},
		reflect.TypeFor[CompactDate](): {
			Kind:        schema.KindString,
			Title:       "Compact date",
			Description: "Calendar date in yyyyMMdd form.",
			Example:     "20240115",
			Pattern:     `^\d{8}$`,
			MinLength:   schema.Uint(8),
			MaxLength:   schema.Uint(8),
		},
		reflect.TypeFor[BirthDate](): {
			Kind:        schema.KindString,
			Format:      "date",
			Title:       "Birth date",
			Description: "Date of birth. The customer must be at least 18 years old.",
			Example:     "1980-01-01",
		},
		reflect.TypeFor[CutoffTime](): {
			Kind:        schema.KindString,
			Format:      "time",
			Title:       "Cutoff time",
			Description: "Latest wall-clock time for same-day execution.",
			Example:     "17:00:00",
			Pattern:     `^\d{2}:\d{2}:\d{2}$`,
		},
	}
}
