package primitive

import (
	"reflect"
)

var primitiveType = reflect.TypeFor[Primitive]()

// DescriptorOf returns the descriptor of a primitive type.
// Pointer and interface types are not primitives; unwrap pointers first.
func DescriptorOf(t reflect.Type) (Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface:
		return nil, false
	}
	if !t.Implements(primitiveType) {
		return nil, false
	}
	p, ok := reflect.Zero(t).Interface().(Primitive)
	if !ok {
		return nil, false
	}
	d := p.Descriptor()
	if d == nil {
		return nil, false
	}
	return d, true
}

// UnderlyingOf returns the raw kind a primitive type wraps.
func UnderlyingOf(t reflect.Type) (RawKind, bool) {
	d, ok := DescriptorOf(t)
	if !ok {
		return RawInvalid, false
	}
	return d.RawKind(), true
}

// Is reports whether t is a primitive type.
func Is(t reflect.Type) bool {
	_, ok := DescriptorOf(t)
	return ok
}
