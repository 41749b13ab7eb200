// Package bank provides the domain primitives and entities of a small
// retail-banking domain. Every raw input crosses into the domain through a
// primitive constructor; the entities hold only validated values.
package bank

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artpar/primitives/domain/primitive"
)

// Limits and layouts.
const (
	CustomerNameMin = 4
	CustomerNameMax = 100

	AmountScale = 2

	CompactDateLayout = "yyyyMMdd"
	ClockLayout       = "HH:mm:ss"

	MinCustomerAge = 18
	MaxHoldPeriod  = 30 * 24 * time.Hour
)

// IBANPattern is the accepted shape of an IBAN after spaces are removed.
const IBANPattern = `^[A-Z]{2}\d{2}[A-Za-z0-9]{4,}$`

var ibanRegexp = regexp.MustCompile(IBANPattern)

// now is the clock used by time-relative rules.
var now = time.Now

var customerNameType = primitive.Define("CustomerName",
	primitive.WithNormalize(strings.TrimSpace),
	primitive.WithRule(func(s string) primitive.Result {
		n := utf8.RuneCountInString(s)
		switch {
		case n < CustomerNameMin:
			return primitive.Rejectf("customer name must be at least %d characters", CustomerNameMin)
		case n > CustomerNameMax:
			return primitive.Rejectf("customer name must be at most %d characters", CustomerNameMax)
		}
		return primitive.OK()
	}),
	primitive.WithDefault("John Doe"),
)

var customerIDType = primitive.Define("CustomerID",
	primitive.WithCheck(func(id uuid.UUID) error {
		if id == uuid.Nil {
			return primitive.Rejection("customer id must not be the nil UUID")
		}
		return nil
	}),
	primitive.WithDefault(uuid.MustParse("00000000-0000-4000-8000-000000000001")),
)

var positiveAmountType = primitive.Define("PositiveAmount",
	primitive.WithRule(func(d decimal.Decimal) primitive.Result {
		if !d.IsPositive() {
			return primitive.Reject("amount must be greater than zero")
		}
		if !d.Equal(d.Truncate(AmountScale)) {
			return primitive.Rejectf("amount must have at most %d decimal places", AmountScale)
		}
		return primitive.OK()
	}),
	primitive.WithDefault(decimal.New(1, -AmountScale)),
)

var ibanType = primitive.Define("IBAN",
	primitive.WithNormalize(func(s string) string {
		return strings.ReplaceAll(s, " ", "")
	}),
	primitive.WithRule(func(s string) primitive.Result {
		if !ibanRegexp.MatchString(s) {
			return primitive.Reject("IBAN must be two uppercase letters, two check digits and at least four alphanumerics")
		}
		return primitive.OK()
	}),
	primitive.WithDefault("GB82WEST12345698765432"),
)

var compactDateType = primitive.Define("CompactDate",
	primitive.WithRawKind[time.Time](primitive.RawDate),
	primitive.WithLayout[time.Time](CompactDateLayout),
	primitive.WithNormalize(dateOnly),
	primitive.WithCheck(func(t time.Time) error {
		if y := t.Year(); y < 1900 || y > 9999 {
			return primitive.Rejectionf("year %d is outside 1900..9999", y)
		}
		return nil
	}),
	primitive.WithDefault(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
)

var birthDateType = primitive.Define("BirthDate",
	primitive.WithRawKind[time.Time](primitive.RawDate),
	primitive.WithNormalize(dateOnly),
	primitive.WithCheck(func(t time.Time) error {
		today := dateOnly(now())
		if t.After(today) {
			return primitive.Rejection("birth date must not be in the future")
		}
		if t.AddDate(MinCustomerAge, 0, 0).After(today) {
			return primitive.Rejectionf("customer must be at least %d years old", MinCustomerAge)
		}
		return nil
	}),
	primitive.WithDefault(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)),
)

var transferCountType = primitive.Define("TransferCount",
	primitive.WithRule(func(n int64) primitive.Result {
		if n < 0 {
			return primitive.Reject("transfer count must not be negative")
		}
		return primitive.OK()
	}),
)

var cutoffTimeType = primitive.Define("CutoffTime",
	primitive.WithRawKind[time.Time](primitive.RawTimeOfDay),
	primitive.WithLayout[time.Time](ClockLayout),
	primitive.WithNormalize(clockOnly),
	primitive.WithRule(func(t time.Time) primitive.Result {
		if t.Nanosecond() != 0 {
			return primitive.Reject("cutoff time must be on a whole second")
		}
		return primitive.OK()
	}),
	primitive.WithDefault(time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC)),
)

var holdPeriodType = primitive.Define("HoldPeriod",
	primitive.WithLayout[time.Duration](ClockLayout),
	primitive.WithRule(func(d time.Duration) primitive.Result {
		switch {
		case d <= 0:
			return primitive.Reject("hold period must be positive")
		case d > MaxHoldPeriod:
			return primitive.Rejectf("hold period must not exceed %s", MaxHoldPeriod)
		case d%time.Second != 0:
			return primitive.Reject("hold period must be whole seconds")
		}
		return primitive.OK()
	}),
	primitive.WithDefault(24*time.Hour),
)

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clockOnly(t time.Time) time.Time {
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Primitives returns the descriptor of every primitive in the package.
func Primitives() []primitive.Descriptor {
	return []primitive.Descriptor{
		customerNameType,
		customerIDType,
		positiveAmountType,
		ibanType,
		compactDateType,
		birthDateType,
		transferCountType,
		cutoffTimeType,
		holdPeriodType,
	}
}

// Lookup returns the descriptor with the given name.
func Lookup(name string) (primitive.Descriptor, bool) {
	for _, d := range Primitives() {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}
