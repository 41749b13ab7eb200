package transform

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

// Fragments applies explicitly contributed fragments.
type Fragments struct {
	src Source
}

// NewFragments creates a transformer backed by src.
func NewFragments(src Source) *Fragments {
	return &Fragments{src: src}
}

func (f *Fragments) Name() string { return NameFragments }

// Transform overwrites in with the registered fragment for t.
// Types without a fragment are returned unchanged.
func (f *Fragments) Transform(in *openapi3.Schema, t reflect.Type) (*openapi3.Schema, bool) {
	base, nullable := unwrap(t)
	if base == nil {
		return in, false
	}

	frag, ok := f.src.Lookup(base)
	if !ok {
		return in, false
	}
	return decorate(in, base, frag, nullable), true
}

var _ Transformer = (*Fragments)(nil)
