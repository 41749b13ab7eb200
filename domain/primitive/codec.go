package primitive

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04:05.999999999"
)

// codec renders and parses raw values of one kind. Values travel as
// reflect.Value so named scalar types (type Cents int64) work unchanged.
type codec struct {
	render func(v reflect.Value) string
	parse  func(s string, into reflect.Value) error
}

func newCodec(kind RawKind, l *layout) codec {
	switch kind {
	case RawBool:
		return codec{
			render: func(v reflect.Value) string { return strconv.FormatBool(v.Bool()) },
			parse: func(s string, into reflect.Value) error {
				b, err := strconv.ParseBool(s)
				if err != nil {
					return err
				}
				into.SetBool(b)
				return nil
			},
		}
	case RawInt8, RawInt16, RawInt32, RawInt64:
		return codec{
			render: func(v reflect.Value) string { return strconv.FormatInt(v.Int(), 10) },
			parse: func(s string, into reflect.Value) error {
				n, err := strconv.ParseInt(s, 10, into.Type().Bits())
				if err != nil {
					return err
				}
				into.SetInt(n)
				return nil
			},
		}
	case RawUint8, RawUint16, RawUint32, RawUint64:
		return codec{
			render: func(v reflect.Value) string { return strconv.FormatUint(v.Uint(), 10) },
			parse: func(s string, into reflect.Value) error {
				n, err := strconv.ParseUint(s, 10, into.Type().Bits())
				if err != nil {
					return err
				}
				into.SetUint(n)
				return nil
			},
		}
	case RawFloat32, RawFloat64:
		return codec{
			render: func(v reflect.Value) string {
				return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())
			},
			parse: func(s string, into reflect.Value) error {
				f, err := strconv.ParseFloat(s, into.Type().Bits())
				if err != nil {
					return err
				}
				into.SetFloat(f)
				return nil
			},
		}
	case RawDecimal:
		return codec{
			render: func(v reflect.Value) string { return v.Interface().(decimal.Decimal).String() },
			parse: func(s string, into reflect.Value) error {
				d, err := decimal.NewFromString(s)
				if err != nil {
					return err
				}
				into.Set(reflect.ValueOf(d))
				return nil
			},
		}
	case RawString:
		return codec{
			render: func(v reflect.Value) string { return v.String() },
			parse: func(s string, into reflect.Value) error {
				into.SetString(s)
				return nil
			},
		}
	case RawGUID:
		return codec{
			render: func(v reflect.Value) string { return v.Interface().(uuid.UUID).String() },
			parse: func(s string, into reflect.Value) error {
				u, err := uuid.Parse(s)
				if err != nil {
					return err
				}
				into.Set(reflect.ValueOf(u))
				return nil
			},
		}
	case RawDate, RawDateTime, RawTimeOfDay:
		return timeCodec(kind, l)
	case RawDuration:
		return durationCodec(l)
	}
	panic(fmt.Sprintf("primitive: no codec for raw kind %s", kind))
}

func timeCodec(kind RawKind, l *layout) codec {
	format := func(t time.Time) string { return t.Format(time.RFC3339Nano) }
	parse := func(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

	switch {
	case l != nil:
		format, parse = l.formatTime, l.parseTime
	case kind == RawDate:
		format = func(t time.Time) string { return t.Format(dateLayout) }
		parse = func(s string) (time.Time, error) { return time.Parse(dateLayout, s) }
	case kind == RawTimeOfDay:
		format = func(t time.Time) string { return t.Format(timeOfDayLayout) }
		parse = func(s string) (time.Time, error) { return time.Parse(timeOfDayLayout, s) }
	}

	return codec{
		render: func(v reflect.Value) string { return format(v.Interface().(time.Time)) },
		parse: func(s string, into reflect.Value) error {
			t, err := parse(s)
			if err != nil {
				return err
			}
			into.Set(reflect.ValueOf(t))
			return nil
		},
	}
}

func durationCodec(l *layout) codec {
	format := func(d time.Duration) string { return d.String() }
	parse := time.ParseDuration
	if l != nil {
		format, parse = l.formatDuration, l.parseDuration
	}

	return codec{
		render: func(v reflect.Value) string { return format(time.Duration(v.Int())) },
		parse: func(s string, into reflect.Value) error {
			d, err := parse(s)
			if err != nil {
				return err
			}
			into.SetInt(int64(d))
			return nil
		},
	}
}
