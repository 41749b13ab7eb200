/*
Package schema defines schema fragments: the wire-format description a
domain primitive contributes to API documentation.

A fragment carries the JSON wire kind (a composable set such as
string|null), an optional format and the usual descriptive and bound
attributes:

	schema.Fragment{
		Kind:      schema.KindString,
		Format:    "iban",
		Pattern:   `^[A-Z]{2}\d{2}[A-Za-z0-9]{4,}$`,
		MinLength: schema.Uint(5),
	}

FromRawKind maps a primitive's raw kind to the fragment used when no
explicit fragment was contributed.
*/
package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is a set of JSON wire kinds.
type Kind uint8

const (
	KindString Kind = 1 << iota
	KindNumber
	KindInteger
	KindBoolean
	KindNull
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindString, "string"},
	{KindNumber, "number"},
	{KindInteger, "integer"},
	{KindBoolean, "boolean"},
	{KindNull, "null"},
}

// Has reports whether every kind in o is present in k.
func (k Kind) Has(o Kind) bool {
	return o != 0 && k&o == o
}

// Names returns the JSON type names in canonical order.
func (k Kind) Names() []string {
	var names []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			names = append(names, kn.name)
		}
	}
	return names
}

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	return strings.Join(k.Names(), "|")
}

// MarshalYAML renders the kind as its type names.
func (k Kind) MarshalYAML() (any, error) {
	return k.Names(), nil
}

// MarshalText renders the kind as "string|null".
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Fragment is the wire-format schema contribution of a single type.
type Fragment struct {
	Kind        Kind     `json:"kind" yaml:"kind"`
	Format      string   `json:"format,omitempty" yaml:"format,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Example     any      `json:"example,omitempty" yaml:"example,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinLength   *uint64  `json:"minLength,omitempty" yaml:"min_length,omitempty"`
	MaxLength   *uint64  `json:"maxLength,omitempty" yaml:"max_length,omitempty"`
	Pattern     string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Enum        []any    `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Nullable reports whether the fragment admits null.
func (f Fragment) Nullable() bool {
	return f.Kind.Has(KindNull)
}

// Clone returns a deep copy of the fragment.
func (f Fragment) Clone() Fragment {
	c := f
	c.Minimum = clonePtr(f.Minimum)
	c.Maximum = clonePtr(f.Maximum)
	c.MinLength = clonePtr(f.MinLength)
	c.MaxLength = clonePtr(f.MaxLength)
	c.Enum = slices.Clone(f.Enum)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// formatKinds lists the wire kinds each well-known format requires.
var formatKinds = map[string]Kind{
	"int8":      KindInteger,
	"int16":     KindInteger,
	"int32":     KindInteger,
	"int64":     KindInteger,
	"uint8":     KindInteger,
	"uint16":    KindInteger,
	"uint32":    KindInteger,
	"uint64":    KindInteger,
	"float":     KindNumber,
	"double":    KindNumber,
	"decimal":   KindNumber,
	"uuid":      KindString,
	"date":      KindString,
	"date-time": KindString,
	"time":      KindString,
	"duration":  KindString,
	"email":     KindString,
	"uri":       KindString,
	"byte":      KindString,
	"binary":    KindString,
}

// ValidationError describes an inconsistent fragment.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the fragment's internal consistency.
// This is a PURE function.
func (f Fragment) Validate() error {
	if f.Kind&^KindNull == 0 {
		return &ValidationError{Field: "kind", Message: "at least one non-null kind is required"}
	}

	if want, ok := formatKinds[f.Format]; ok && f.Kind&want == 0 {
		return &ValidationError{Field: "format", Message: fmt.Sprintf("format %q requires kind %s, got %s", f.Format, want, f.Kind)}
	}

	if f.Minimum != nil && f.Maximum != nil && *f.Minimum > *f.Maximum {
		return &ValidationError{Field: "minimum", Message: "minimum exceeds maximum"}
	}
	if (f.Minimum != nil || f.Maximum != nil) && f.Kind&(KindNumber|KindInteger) == 0 {
		return &ValidationError{Field: "minimum", Message: "numeric bounds require a numeric kind"}
	}

	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return &ValidationError{Field: "minLength", Message: "minLength exceeds maxLength"}
	}
	if (f.MinLength != nil || f.MaxLength != nil || f.Pattern != "") && f.Kind&KindString == 0 {
		return &ValidationError{Field: "minLength", Message: "length and pattern constraints require kind string"}
	}

	return nil
}

// Float returns a pointer to v, for fragment literals.
func Float(v float64) *float64 { return &v }

// Uint returns a pointer to v, for fragment literals.
func Uint(v uint64) *uint64 { return &v }
