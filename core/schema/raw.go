package schema

import (
	"github.com/artpar/primitives/domain/primitive"
)

var rawFragments = map[primitive.RawKind]Fragment{
	primitive.RawBool:      {Kind: KindBoolean},
	primitive.RawInt8:      {Kind: KindInteger, Format: "int8"},
	primitive.RawInt16:     {Kind: KindInteger, Format: "int16"},
	primitive.RawInt32:     {Kind: KindInteger, Format: "int32"},
	primitive.RawInt64:     {Kind: KindInteger, Format: "int64"},
	primitive.RawUint8:     {Kind: KindInteger, Format: "uint8"},
	primitive.RawUint16:    {Kind: KindInteger, Format: "uint16"},
	primitive.RawUint32:    {Kind: KindInteger, Format: "uint32"},
	primitive.RawUint64:    {Kind: KindInteger, Format: "uint64"},
	primitive.RawFloat32:   {Kind: KindNumber, Format: "float"},
	primitive.RawFloat64:   {Kind: KindNumber, Format: "double"},
	primitive.RawDecimal:   {Kind: KindNumber, Format: "decimal"},
	primitive.RawString:    {Kind: KindString},
	primitive.RawGUID:      {Kind: KindString, Format: "uuid"},
	primitive.RawDate:      {Kind: KindString, Format: "date"},
	primitive.RawDateTime:  {Kind: KindString, Format: "date-time"},
	primitive.RawTimeOfDay: {Kind: KindString, Format: "time"},
	primitive.RawDuration:  {Kind: KindString, Format: "duration"},
}

// FromRawKind returns the fallback fragment for a raw kind.
func FromRawKind(k primitive.RawKind) (Fragment, bool) {
	f, ok := rawFragments[k]
	return f, ok
}
