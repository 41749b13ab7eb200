// Package ledger aggregates bank transfers per customer.
package ledger

import (
	"reflect"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/core/schema"
	"github.com/artpar/primitives/domain/bank"
)

func init() {
	discovery.Register(discovery.Module{
		Name:               bank.LedgerModuleName,
		ContainsPrimitives: true,
		Helper:             openAPIHelper{},
	})
}

type openAPIHelper struct{}

// Schemas describes the ledger's view of the amounts it books. The bank
// module is discovered first, so its PositiveAmount fragment takes precedence.
func (openAPIHelper) Schemas() map[reflect.Type]schema.Fragment {
	return map[reflect.Type]schema.Fragment{
		reflect.TypeFor[bank.PositiveAmount](): {
			Kind:   schema.KindNumber,
			Format: "double",
			Title:  "Ledger amount",
		},
		reflect.TypeFor[bank.TransferCount](): {
			Kind:        schema.KindInteger,
			Format:      "int64",
			Title:       "Transfer count",
			Description: "Number of transfers booked for a customer.",
			Example:     3,
			Minimum:     schema.Float(0),
		},
	}
}

// Summary is the booked position of one customer.
type Summary struct {
	CustomerID bank.CustomerID      `json:"customer_id"`
	Count      bank.TransferCount   `json:"count"`
	Total      decimal.Decimal      `json:"total"`
	ByDate     map[string]int64     `json:"by_value_date,omitempty"`
	Last       *bank.PositiveAmount `json:"last_amount,omitempty"`
}

// Summarize books transfers for a customer. Transfers of other customers are ignored.
// This is a PURE function.
func Summarize(id bank.CustomerID, transfers []bank.Transfer) Summary {
	s := Summary{CustomerID: id, Count: bank.MustTransferCount(0), Total: decimal.Zero}

	own := make([]bank.Transfer, 0, len(transfers))
	for _, t := range transfers {
		if t.CustomerID == id {
			own = append(own, t)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Sequence.Raw() < own[j].Sequence.Raw()
	})

	for _, t := range own {
		s.Count = s.Count.Next()
		s.Total = s.Total.Add(t.Amount.Raw())
		if s.ByDate == nil {
			s.ByDate = make(map[string]int64)
		}
		s.ByDate[t.ValueDate.String()]++
		amount := t.Amount
		s.Last = &amount
	}
	return s
}

// NextSequence returns the sequence number for a customer's next transfer.
func NextSequence(id bank.CustomerID, transfers []bank.Transfer) bank.TransferCount {
	return Summarize(id, transfers).Count.Next()
}
