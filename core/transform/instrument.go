package transform

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

// Observer is notified of every transformation.
type Observer interface {
	Transformed(transformer string, matched bool)
}

type instrumented struct {
	Transformer
	obs Observer
}

// Instrument wraps t so that every call is reported to obs.
func Instrument(t Transformer, obs Observer) Transformer {
	if obs == nil {
		return t
	}
	return &instrumented{Transformer: t, obs: obs}
}

func (i *instrumented) Transform(in *openapi3.Schema, t reflect.Type) (*openapi3.Schema, bool) {
	out, ok := i.Transformer.Transform(in, t)
	i.obs.Transformed(i.Name(), ok)
	return out, ok
}
