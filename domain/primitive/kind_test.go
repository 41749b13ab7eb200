package primitive

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cents int64

func TestInferRawKind(t *testing.T) {
	tests := []struct {
		value any
		want  RawKind
	}{
		{true, RawBool},
		{int8(0), RawInt8},
		{int16(0), RawInt16},
		{int32(0), RawInt32},
		{int64(0), RawInt64},
		{0, RawInt64},
		{cents(0), RawInt64},
		{uint8(0), RawUint8},
		{uint(0), RawUint64},
		{float32(0), RawFloat32},
		{float64(0), RawFloat64},
		{decimal.Zero, RawDecimal},
		{"", RawString},
		{uuid.UUID{}, RawGUID},
		{time.Time{}, RawDateTime},
		{time.Duration(0), RawDuration},
		{[]byte(nil), RawInvalid},
		{struct{}{}, RawInvalid},
	}

	for _, tt := range tests {
		typ := reflect.TypeOf(tt.value)
		t.Run(typ.String(), func(t *testing.T) {
			if got := InferRawKind(typ); got != tt.want {
				t.Errorf("InferRawKind(%v) = %v, want %v", typ, got, tt.want)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name string
		kind RawKind
		typ  reflect.Type
		want bool
	}{
		{"date on time", RawDate, timeType, true},
		{"time of day on time", RawTimeOfDay, timeType, true},
		{"date on string", RawDate, reflect.TypeOf(""), false},
		{"duration on int64", RawDuration, reflect.TypeOf(int64(0)), false},
		{"int32 on int64", RawInt32, reflect.TypeOf(int64(0)), false},
		{"string on string", RawString, reflect.TypeOf(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compatible(tt.kind, tt.typ); got != tt.want {
				t.Errorf("compatible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRawKinds(t *testing.T) {
	kinds := RawKinds()
	if len(kinds) != int(RawDuration) {
		t.Fatalf("len(RawKinds()) = %d, want %d", len(kinds), RawDuration)
	}
	for _, k := range kinds {
		if k.String() == "invalid" {
			t.Errorf("RawKind %d has no name", k)
		}
	}
}
