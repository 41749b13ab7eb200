package primitive

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawKind identifies the raw scalar a primitive wraps.
type RawKind int

const (
	RawInvalid RawKind = iota
	RawBool
	RawInt8
	RawInt16
	RawInt32
	RawInt64
	RawUint8
	RawUint16
	RawUint32
	RawUint64
	RawFloat32
	RawFloat64
	RawDecimal
	RawString
	RawGUID
	RawDate
	RawDateTime
	RawTimeOfDay
	RawDuration
)

var rawKindNames = map[RawKind]string{
	RawInvalid:   "invalid",
	RawBool:      "bool",
	RawInt8:      "int8",
	RawInt16:     "int16",
	RawInt32:     "int32",
	RawInt64:     "int64",
	RawUint8:     "uint8",
	RawUint16:    "uint16",
	RawUint32:    "uint32",
	RawUint64:    "uint64",
	RawFloat32:   "float32",
	RawFloat64:   "float64",
	RawDecimal:   "decimal",
	RawString:    "string",
	RawGUID:      "guid",
	RawDate:      "date",
	RawDateTime:  "datetime",
	RawTimeOfDay: "timeofday",
	RawDuration:  "duration",
}

func (k RawKind) String() string {
	if name, ok := rawKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// RawKinds returns every supported raw kind in declaration order.
func RawKinds() []RawKind {
	kinds := make([]RawKind, 0, int(RawDuration))
	for k := RawBool; k <= RawDuration; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsTemporal reports whether the kind accepts a layout annotation.
func (k RawKind) IsTemporal() bool {
	switch k {
	case RawDate, RawDateTime, RawTimeOfDay, RawDuration:
		return true
	}
	return false
}

var (
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	uuidType     = reflect.TypeOf(uuid.UUID{})
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// InferRawKind maps a Go type to its natural raw kind.
// time.Time infers to RawDateTime; use WithRawKind for dates and times of day.
func InferRawKind(t reflect.Type) RawKind {
	switch t {
	case decimalType:
		return RawDecimal
	case uuidType:
		return RawGUID
	case timeType:
		return RawDateTime
	case durationType:
		return RawDuration
	}

	switch t.Kind() {
	case reflect.Bool:
		return RawBool
	case reflect.Int8:
		return RawInt8
	case reflect.Int16:
		return RawInt16
	case reflect.Int32:
		return RawInt32
	case reflect.Int, reflect.Int64:
		return RawInt64
	case reflect.Uint8:
		return RawUint8
	case reflect.Uint16:
		return RawUint16
	case reflect.Uint32:
		return RawUint32
	case reflect.Uint, reflect.Uint64:
		return RawUint64
	case reflect.Float32:
		return RawFloat32
	case reflect.Float64:
		return RawFloat64
	case reflect.String:
		return RawString
	}
	return RawInvalid
}

// compatible reports whether a declared kind can be carried by Go type t.
func compatible(k RawKind, t reflect.Type) bool {
	inferred := InferRawKind(t)
	switch k {
	case RawDate, RawDateTime, RawTimeOfDay:
		return t == timeType
	case RawDuration:
		return t == durationType
	}
	return inferred == k
}
