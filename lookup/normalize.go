package lookup

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Formattable renders a value as a string using a fixed, locale independent format.
type Formattable interface {
	FormatInvariant() string
}

// InvariantTimeLayout is the layout used to render time values as strings.
const InvariantTimeLayout = "01/02/2006 15:04:05"

var invariantTimeLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize renders raw as the string handed to string converters. nil stays nil.
// Named types keep their own String form, so a time.Duration renders as "5s".
func Normalize(raw any) *string {
	if raw == nil {
		return nil
	}
	var s string
	switch v := raw.(type) {
	case Formattable:
		s = v.FormatInvariant()
	default:
		if isPrimitive(reflect.TypeOf(raw)) {
			s = renderInvariant(reflect.ValueOf(raw))
		} else {
			s = fmt.Sprint(raw)
		}
	}
	return &s
}

// ParseTime parses s with the invariant date layouts (month first), falling back to
// the ISO and RFC formats understood by cast. Values without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range invariantTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	t, err := cast.ToTimeInDefaultLocationE(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date: %v", strconv.ErrSyntax, s, err)
	}
	return t, nil
}

// FormatTime renders t with InvariantTimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(InvariantTimeLayout)
}

func renderInvariant(v reflect.Value) string {
	if v.Type() == timeType {
		return FormatTime(v.Interface().(time.Time))
	}
	if v.Type().PkgPath() != "" && v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	var base any
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		base = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		base = v.Uint()
	case reflect.Float32:
		base = float32(v.Float())
	case reflect.Float64:
		base = v.Float()
	default:
		return fmt.Sprint(v.Interface())
	}
	s, err := cast.ToStringE(base)
	if err != nil {
		return fmt.Sprint(base)
	}
	return s
}
