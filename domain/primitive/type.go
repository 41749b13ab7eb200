package primitive

import (
	"fmt"
	"reflect"
)

// Descriptor is the type-erased view of a primitive definition.
// It is what reflection-driven consumers (schema fallback, CLI) see.
type Descriptor interface {
	// Name returns the primitive's name, e.g. "CustomerName".
	Name() string
	// RawKind returns the raw scalar kind the primitive wraps.
	RawKind() RawKind
	// RawType returns the Go type of the raw value.
	RawType() reflect.Type
	// Style reports whether the rule returns a Result or an error.
	Style() Style
	// Layout returns the serialization pattern, or "" for the natural form.
	Layout() string
	// DefaultText renders the default value.
	DefaultText() string
	// CheckText parses and validates a textual raw value.
	CheckText(s string) Result
}

// Primitive is implemented by every domain primitive value.
// Descriptor must not depend on the receiver; it is called on zero values.
type Primitive interface {
	fmt.Stringer
	Descriptor() Descriptor
}

// Type defines a primitive wrapping raw type T.
// A Type is built once with Define and is immutable afterwards.
type Type[T any] struct {
	name      string
	kind      RawKind
	rawType   reflect.Type
	style     Style
	rule      func(T) Result
	check     func(T) error
	normalize func(T) T
	def       T
	layout    *layout
	codec     codec
}

// Option configures a Type during Define.
type Option[T any] func(*definition[T])

type definition[T any] struct {
	rule      func(T) Result
	check     func(T) error
	normalize func(T) T
	def       *T
	kind      RawKind
	pattern   string
}

// WithRule sets a result-returning rule.
func WithRule[T any](rule func(T) Result) Option[T] {
	return func(d *definition[T]) { d.rule = rule }
}

// WithCheck sets an error-returning rule.
func WithCheck[T any](check func(T) error) Option[T] {
	return func(d *definition[T]) { d.check = check }
}

// WithDefault sets the canonical default value. Without it the zero value is used.
func WithDefault[T any](v T) Option[T] {
	return func(d *definition[T]) { d.def = &v }
}

// WithNormalize sets a canonicalization applied before validation.
func WithNormalize[T any](fn func(T) T) Option[T] {
	return func(d *definition[T]) { d.normalize = fn }
}

// WithRawKind overrides the inferred raw kind (e.g. RawDate for time.Time).
func WithRawKind[T any](kind RawKind) Option[T] {
	return func(d *definition[T]) { d.kind = kind }
}

// WithLayout attaches a serialization format annotation such as "yyyyMMdd".
func WithLayout[T any](pattern string) Option[T] {
	return func(d *definition[T]) { d.pattern = pattern }
}

// Define builds a primitive Type. It panics on an invalid definition,
// including a default value that does not pass its own rule.
func Define[T any](name string, opts ...Option[T]) *Type[T] {
	if name == "" {
		panic("primitive: empty name")
	}

	var d definition[T]
	for _, opt := range opts {
		opt(&d)
	}

	t := &Type[T]{
		name:      name,
		rawType:   reflect.TypeOf((*T)(nil)).Elem(),
		rule:      d.rule,
		check:     d.check,
		normalize: d.normalize,
	}

	switch {
	case d.rule != nil && d.check != nil:
		panic(fmt.Sprintf("primitive %s: WithRule and WithCheck are mutually exclusive", name))
	case d.rule != nil:
		t.style = StyleResult
	case d.check != nil:
		t.style = StyleError
	default:
		panic(fmt.Sprintf("primitive %s: a rule is required (WithRule or WithCheck)", name))
	}

	t.kind = d.kind
	if t.kind == RawInvalid {
		t.kind = InferRawKind(t.rawType)
	}
	if t.kind == RawInvalid || !compatible(t.kind, t.rawType) {
		panic(fmt.Sprintf("primitive %s: raw kind %s cannot wrap %s", name, t.kind, t.rawType))
	}

	if d.pattern != "" {
		l, err := compileLayout(d.pattern, t.kind)
		if err != nil {
			panic(fmt.Sprintf("primitive %s: %v", name, err))
		}
		t.layout = l
	}
	t.codec = newCodec(t.kind, t.layout)

	if d.def != nil {
		t.def = *d.def
	}
	if r := t.Validate(t.def); !r.Valid {
		panic(fmt.Sprintf("primitive %s: default %s is invalid: %s", name, t.Render(t.def), r.Reason))
	}

	return t
}

func (t *Type[T]) Name() string          { return t.name }
func (t *Type[T]) RawKind() RawKind      { return t.kind }
func (t *Type[T]) RawType() reflect.Type { return t.rawType }
func (t *Type[T]) Style() Style          { return t.style }

// Layout returns the serialization pattern, or "" when none is set.
func (t *Type[T]) Layout() string {
	if t.layout == nil {
		return ""
	}
	return t.layout.pattern
}

// Default returns the canonical default value, which always validates.
func (t *Type[T]) Default() T {
	return t.def
}

// Normalize applies the canonicalization, if any.
func (t *Type[T]) Normalize(v T) T {
	if t.normalize == nil {
		return v
	}
	return t.normalize(v)
}

// Validate checks v against the rule.
// This is a PURE function unless the rule is explicitly time-relative.
func (t *Type[T]) Validate(v T) Result {
	v = t.Normalize(v)

	if t.style == StyleError {
		err := t.check(v)
		if err == nil {
			return OK()
		}
		return Reject(t.reason(err.Error(), err))
	}

	r := t.rule(v)
	if !r.Valid {
		r.Reason = t.reason(r.Reason, nil)
	}
	return r
}

// Check validates v and returns a *RejectionError on failure.
func (t *Type[T]) Check(v T) error {
	return t.Validate(v).Err(t.name)
}

// New normalizes and validates v, returning the value to wrap.
func (t *Type[T]) New(v T) (T, error) {
	v = t.Normalize(v)
	if err := t.Check(v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Render returns the canonical text form of v.
func (t *Type[T]) Render(v T) string {
	return t.codec.render(reflect.ValueOf(&v).Elem())
}

// Parse reads the canonical text form and validates the result.
func (t *Type[T]) Parse(s string) (T, error) {
	var v T
	if err := t.codec.parse(s, reflect.ValueOf(&v).Elem()); err != nil {
		return v, &RejectionError{Primitive: t.name, Reason: fmt.Sprintf("cannot parse %q: %v", s, err)}
	}
	return t.New(v)
}

// DefaultText renders the default value.
func (t *Type[T]) DefaultText() string {
	return t.Render(t.def)
}

// CheckText parses and validates s.
func (t *Type[T]) CheckText(s string) Result {
	_, err := t.Parse(s)
	if err == nil {
		return OK()
	}
	return Reject(err.(*RejectionError).Reason)
}

// reason guarantees a non-empty rejection reason.
func (t *Type[T]) reason(msg string, err error) string {
	if re, ok := err.(*RejectionError); ok {
		msg = re.Reason
	}
	if msg == "" {
		return t.name + " is invalid"
	}
	return msg
}

var _ Descriptor = (*Type[string])(nil)
