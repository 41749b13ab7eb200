package transform

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/artpar/primitives/core/schema"
	"github.com/artpar/primitives/domain/primitive"
)

// Underlying derives the schema from a primitive's raw kind. It needs no
// registry and ignores contributed fragments.
type Underlying struct{}

// NewUnderlying creates the fallback transformer.
func NewUnderlying() *Underlying {
	return &Underlying{}
}

func (u *Underlying) Name() string { return NameUnderlying }

// Transform describes t by its raw kind. Non-primitive types are returned unchanged.
func (u *Underlying) Transform(in *openapi3.Schema, t reflect.Type) (*openapi3.Schema, bool) {
	base, nullable := unwrap(t)
	if base == nil {
		return in, false
	}

	kind, ok := primitive.UnderlyingOf(base)
	if !ok {
		return in, false
	}
	frag, ok := schema.FromRawKind(kind)
	if !ok {
		return in, false
	}
	return decorate(in, base, frag, nullable), true
}

var _ Transformer = (*Underlying)(nil)
