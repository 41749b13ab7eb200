package bank

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/artpar/primitives/domain/primitive"
)

// CompactDate is a calendar date written as yyyyMMdd.
type CompactDate struct{ v time.Time }

// NewCompactDate validates t. The time of day is discarded.
func NewCompactDate(t time.Time) (CompactDate, error) {
	v, err := compactDateType.New(t)
	return CompactDate{v}, err
}

// ParseCompactDate parses "20240115".
func ParseCompactDate(s string) (CompactDate, error) {
	v, err := compactDateType.Parse(s)
	return CompactDate{v}, err
}

// MustCompactDate is ParseCompactDate for known-good literals.
func MustCompactDate(s string) CompactDate {
	d, err := ParseCompactDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d CompactDate) Raw() time.Time                 { return d.v }
func (d CompactDate) String() string                 { return compactDateType.Render(d.v) }
func (CompactDate) Descriptor() primitive.Descriptor { return compactDateType }
func (d CompactDate) Equal(o CompactDate) bool       { return d.v.Equal(o.v) }
func (d CompactDate) MarshalJSON() ([]byte, error)   { return compactDateType.MarshalJSON(d.v) }
func (d CompactDate) Value() (driver.Value, error)   { return compactDateType.Value(d.v) }
func (d CompactDate) MarshalText() ([]byte, error)   { return []byte(d.String()), nil }
func (d *CompactDate) UnmarshalText(b []byte) (err error) {
	d.v, err = compactDateType.Parse(string(b))
	return err
}
func (d *CompactDate) UnmarshalJSON(b []byte) (err error) {
	d.v, err = compactDateType.UnmarshalJSON(b)
	return err
}
func (d *CompactDate) Scan(src any) (err error) {
	d.v, err = compactDateType.Scan(src)
	return err
}

// BirthDate is the date of birth of a customer who is at least 18 years old.
type BirthDate struct{ v time.Time }

// NewBirthDate validates t against the current date.
func NewBirthDate(t time.Time) (BirthDate, error) {
	v, err := birthDateType.New(t)
	return BirthDate{v}, err
}

// ParseBirthDate parses "1980-01-01".
func ParseBirthDate(s string) (BirthDate, error) {
	v, err := birthDateType.Parse(s)
	return BirthDate{v}, err
}

// MustBirthDate is ParseBirthDate for known-good literals.
func MustBirthDate(s string) BirthDate {
	d, err := ParseBirthDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d BirthDate) Raw() time.Time                 { return d.v }
func (d BirthDate) String() string                 { return birthDateType.Render(d.v) }
func (BirthDate) Descriptor() primitive.Descriptor { return birthDateType }
func (d BirthDate) Equal(o BirthDate) bool         { return d.v.Equal(o.v) }
func (d BirthDate) MarshalJSON() ([]byte, error)   { return birthDateType.MarshalJSON(d.v) }
func (d BirthDate) Value() (driver.Value, error)   { return birthDateType.Value(d.v) }
func (d BirthDate) MarshalText() ([]byte, error)   { return []byte(d.String()), nil }
func (d *BirthDate) UnmarshalText(b []byte) (err error) {
	d.v, err = birthDateType.Parse(string(b))
	return err
}
func (d *BirthDate) UnmarshalJSON(b []byte) (err error) {
	d.v, err = birthDateType.UnmarshalJSON(b)
	return err
}

// Scan reads a stored birth date without re-applying the age rule.
func (d *BirthDate) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		d.v = dateOnly(v)
		return nil
	default:
		return &primitive.RejectionError{Primitive: birthDateType.Name(), Reason: fmt.Sprintf("cannot scan %T", src)}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return &primitive.RejectionError{Primitive: birthDateType.Name(), Reason: err.Error()}
	}
	d.v = t
	return nil
}

// CutoffTime is a wall-clock time of day written as HH:mm:ss.
type CutoffTime struct{ v time.Time }

// NewCutoffTime validates t. The date part is discarded.
func NewCutoffTime(t time.Time) (CutoffTime, error) {
	v, err := cutoffTimeType.New(t)
	return CutoffTime{v}, err
}

// ParseCutoffTime parses "17:00:00".
func ParseCutoffTime(s string) (CutoffTime, error) {
	v, err := cutoffTimeType.Parse(s)
	return CutoffTime{v}, err
}

// MustCutoffTime is ParseCutoffTime for known-good literals.
func MustCutoffTime(s string) CutoffTime {
	c, err := ParseCutoffTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// On returns the cutoff instant on the given day, in day's location.
func (c CutoffTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.v.Hour(), c.v.Minute(), c.v.Second(), 0, day.Location())
}

func (c CutoffTime) Raw() time.Time                 { return c.v }
func (c CutoffTime) String() string                 { return cutoffTimeType.Render(c.v) }
func (CutoffTime) Descriptor() primitive.Descriptor { return cutoffTimeType }
func (c CutoffTime) MarshalJSON() ([]byte, error)   { return cutoffTimeType.MarshalJSON(c.v) }
func (c CutoffTime) Value() (driver.Value, error)   { return cutoffTimeType.Value(c.v) }
func (c CutoffTime) MarshalText() ([]byte, error)   { return []byte(c.String()), nil }
func (c *CutoffTime) UnmarshalText(b []byte) (err error) {
	c.v, err = cutoffTimeType.Parse(string(b))
	return err
}
func (c *CutoffTime) UnmarshalJSON(b []byte) (err error) {
	c.v, err = cutoffTimeType.UnmarshalJSON(b)
	return err
}
func (c *CutoffTime) Scan(src any) (err error) {
	c.v, err = cutoffTimeType.Scan(src)
	return err
}

// HoldPeriod is how long funds are held, written as HH:mm:ss with no upper
// bound on hours. It must be positive and at most 30 days.
type HoldPeriod struct{ v time.Duration }

// NewHoldPeriod validates d.
func NewHoldPeriod(d time.Duration) (HoldPeriod, error) {
	v, err := holdPeriodType.New(d)
	return HoldPeriod{v}, err
}

// ParseHoldPeriod parses "36:00:00".
func ParseHoldPeriod(s string) (HoldPeriod, error) {
	v, err := holdPeriodType.Parse(s)
	return HoldPeriod{v}, err
}

// MustHoldPeriod is ParseHoldPeriod for known-good literals.
func MustHoldPeriod(s string) HoldPeriod {
	h, err := ParseHoldPeriod(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h HoldPeriod) Raw() time.Duration             { return h.v }
func (h HoldPeriod) String() string                 { return holdPeriodType.Render(h.v) }
func (HoldPeriod) Descriptor() primitive.Descriptor { return holdPeriodType }
func (h HoldPeriod) MarshalJSON() ([]byte, error)   { return holdPeriodType.MarshalJSON(h.v) }
func (h HoldPeriod) Value() (driver.Value, error)   { return holdPeriodType.Value(h.v) }
func (h HoldPeriod) MarshalText() ([]byte, error)   { return []byte(h.String()), nil }
func (h *HoldPeriod) UnmarshalText(b []byte) (err error) {
	h.v, err = holdPeriodType.Parse(string(b))
	return err
}
func (h *HoldPeriod) UnmarshalJSON(b []byte) (err error) {
	h.v, err = holdPeriodType.UnmarshalJSON(b)
	return err
}
func (h *HoldPeriod) Scan(src any) (err error) {
	h.v, err = holdPeriodType.Scan(src)
	return err
}
