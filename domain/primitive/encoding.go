package primitive

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
)

// The helpers below back the marshalling glue of concrete primitive types.
// Every decode path validates; a primitive can never be materialized from
// the wire or a database row without passing its rule.

func (t *Type[T]) numeric() bool {
	switch t.kind {
	case RawInt8, RawInt16, RawInt32, RawInt64,
		RawUint8, RawUint16, RawUint32, RawUint64,
		RawFloat32, RawFloat64, RawDecimal:
		return true
	}
	return false
}

// MarshalJSON encodes v as a JSON number, boolean or string according to its kind.
func (t *Type[T]) MarshalJSON(v T) ([]byte, error) {
	text := t.Render(v)
	if t.numeric() || t.kind == RawBool {
		return []byte(text), nil
	}
	return json.Marshal(text)
}

// UnmarshalJSON decodes and validates a JSON value. Numbers may also arrive quoted.
func (t *Type[T]) UnmarshalJSON(b []byte) (T, error) {
	var zero T

	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return zero, &RejectionError{Primitive: t.name, Reason: "value is required"}
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return zero, fmt.Errorf("%s: %w", t.name, err)
		}
		return t.Parse(s)
	}
	if t.numeric() || t.kind == RawBool {
		return t.Parse(string(b))
	}
	return zero, &RejectionError{Primitive: t.name, Reason: fmt.Sprintf("expected a JSON string, got %s", b)}
}

// Value returns the database representation of v.
func (t *Type[T]) Value(v T) (driver.Value, error) {
	rv := reflect.ValueOf(v)
	switch t.kind {
	case RawBool:
		return rv.Bool(), nil
	case RawInt8, RawInt16, RawInt32, RawInt64:
		return rv.Int(), nil
	case RawFloat32, RawFloat64:
		return rv.Float(), nil
	}
	return t.Render(v), nil
}

// Scan decodes and validates a database value.
func (t *Type[T]) Scan(src any) (T, error) {
	var zero T

	switch s := src.(type) {
	case nil:
		return zero, &RejectionError{Primitive: t.name, Reason: "value is required"}
	case string:
		return t.Parse(s)
	case []byte:
		return t.Parse(string(s))
	case T:
		return t.New(s)
	}

	rv := reflect.ValueOf(src)
	if t.numeric() && t.kind != RawDecimal || t.kind == RawBool {
		if rv.Kind() != reflect.String && rv.Type().ConvertibleTo(t.rawType) {
			return t.New(rv.Convert(t.rawType).Interface().(T))
		}
	}
	return zero, fmt.Errorf("%s: cannot scan %T", t.name, src)
}
