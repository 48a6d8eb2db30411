package lookup

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Convertible is implemented by values that know how to turn themselves into the
// predeclared basic types and time.Time. It takes part in the first conversion
// strategy alongside the builtin numeric, bool, string and time values.
type Convertible interface {
	ConvertTo(target reflect.Type) (any, error)
}

var (
	timeType   = reflect.TypeFor[time.Time]()
	stringType = reflect.TypeFor[string]()
)

// strategy attempts a conversion of raw to target. handled=false falls through to
// the next strategy.
type strategy func(raw any, target reflect.Type) (out any, handled bool, err error)

// strategies is the ordered default conversion pipeline.
var strategies = []strategy{
	convertInvariant,
	convertNil,
	renderString,
	castIdentity,
}

// Convert is the default conversion from a raw value to T. Strategies run in order:
//
//  1. invariant conversion of bool, numeric, string, time.Time and Convertible values
//     into predeclared basic types and time.Time;
//  2. nil handling: nil becomes the zero value for pointer-like targets and
//     ErrInvalidCast for value types;
//  3. string targets render any other value with fmt.Sprint;
//  4. identity: raw must already be assignable to T.
//
// Parse failures are reported as ErrFormat, anything without an applicable
// strategy as ErrInvalidCast.
func Convert[T any](raw any) (T, error) {
	var zero T
	target := reflect.TypeFor[T]()
	for _, try := range strategies {
		out, handled, err := try(raw, target)
		if !handled {
			continue
		}
		if err != nil {
			return zero, err
		}
		if out == nil {
			if !isReferenceType(target) {
				return zero, InvalidCast(raw, target.String())
			}
			return zero, nil
		}
		value, ok := out.(T)
		if !ok {
			return zero, InvalidCast(out, target.String())
		}
		return value, nil
	}
	return zero, InvalidCast(raw, target.String())
}

func convertInvariant(raw any, target reflect.Type) (any, bool, error) {
	if !isConvertible(raw) {
		return nil, false, nil
	}
	switch {
	case isBasicTarget(target) || target == timeType:
		if c, ok := raw.(Convertible); ok {
			out, err := c.ConvertTo(target)
			if err != nil {
				return nil, true, FormatError(err)
			}
			return out, true, nil
		}
		out, err := changeType(reflect.ValueOf(raw), target)
		return out, true, err
	case reflect.TypeOf(raw).AssignableTo(target):
		return raw, true, nil
	default:
		return nil, true, InvalidCast(raw, target.String())
	}
}

func convertNil(raw any, target reflect.Type) (any, bool, error) {
	if raw != nil {
		return nil, false, nil
	}
	if isReferenceType(target) {
		return nil, true, nil
	}
	return nil, true, InvalidCast(raw, target.String())
}

func renderString(raw any, target reflect.Type) (any, bool, error) {
	if target != stringType {
		return nil, false, nil
	}
	return fmt.Sprint(raw), true, nil
}

func castIdentity(raw any, target reflect.Type) (any, bool, error) {
	if reflect.TypeOf(raw).AssignableTo(target) {
		return raw, true, nil
	}
	return nil, true, InvalidCast(raw, target.String())
}

// isConvertible reports whether raw takes part in invariant conversion.
func isConvertible(raw any) bool {
	if raw == nil {
		return false
	}
	if _, ok := raw.(Convertible); ok {
		return true
	}
	return isPrimitive(reflect.TypeOf(raw))
}

func isPrimitive(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// isBasicTarget reports whether t is one of the predeclared types (int, string, ...)
// rather than a named type built on top of them.
func isBasicTarget(t reflect.Type) bool {
	return t.PkgPath() == "" && t.Name() != "" && t != timeType && isPrimitive(t)
}

func isReferenceType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func changeType(v reflect.Value, target reflect.Type) (any, error) {
	if v.Type() == timeType {
		switch target {
		case timeType:
			return v.Interface(), nil
		case stringType:
			return FormatTime(v.Interface().(time.Time)), nil
		default:
			return nil, InvalidCast(v.Interface(), target.String())
		}
	}

	if target == timeType {
		if v.Kind() != reflect.String {
			return nil, InvalidCast(v.Interface(), target.String())
		}
		t, err := ParseTime(v.String())
		if err != nil {
			return nil, FormatError(err)
		}
		return t, nil
	}

	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.String:
		out.SetString(renderInvariant(v))
	case reflect.Bool:
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(v, target)
		if err != nil {
			return nil, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint(v, target)
		if err != nil {
			return nil, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat(v, target)
		if err != nil {
			return nil, err
		}
		out.SetFloat(f)
	default:
		return nil, InvalidCast(v.Interface(), target.String())
	}
	return out.Interface(), nil
}

func toBool(v reflect.Value) (bool, error) {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		s := strings.TrimSpace(v.String())
		switch {
		case strings.EqualFold(s, "true"):
			return true, nil
		case strings.EqualFold(s, "false"):
			return false, nil
		}
		return false, FormatError(fmt.Errorf("%w: %q is not a boolean", strconv.ErrSyntax, v.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}
	return false, InvalidCast(v.Interface(), "bool")
}

func toInt(v reflect.Value, target reflect.Type) (int64, error) {
	var n int64
	switch v.Kind() {
	case reflect.String:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, target.Bits())
		if err != nil {
			return 0, FormatError(err)
		}
		return parsed, nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, overflow(v, target)
		}
		n = int64(u)
	case reflect.Float32, reflect.Float64:
		f := math.RoundToEven(v.Float())
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, overflow(v, target)
		}
		n = int64(f)
	default:
		return 0, InvalidCast(v.Interface(), target.String())
	}
	if reflect.New(target).Elem().OverflowInt(n) {
		return 0, overflow(v, target)
	}
	return n, nil
}

func toUint(v reflect.Value, target reflect.Type) (uint64, error) {
	var n uint64
	switch v.Kind() {
	case reflect.String:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v.String()), 10, target.Bits())
		if err != nil {
			return 0, FormatError(err)
		}
		return parsed, nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < 0 {
			return 0, overflow(v, target)
		}
		n = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n = v.Uint()
	case reflect.Float32, reflect.Float64:
		f := math.RoundToEven(v.Float())
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return 0, overflow(v, target)
		}
		n = uint64(f)
	default:
		return 0, InvalidCast(v.Interface(), target.String())
	}
	if reflect.New(target).Elem().OverflowUint(n) {
		return 0, overflow(v, target)
	}
	return n, nil
}

func toFloat(v reflect.Value, target reflect.Type) (float64, error) {
	var f float64
	switch v.Kind() {
	case reflect.String:
		text := strings.TrimSpace(v.String())
		if !isDecimal(text) {
			return 0, FormatError(fmt.Errorf("%w: %q is not a decimal number", strconv.ErrSyntax, v.String()))
		}
		parsed, err := strconv.ParseFloat(text, target.Bits())
		if err != nil {
			return 0, FormatError(err)
		}
		return parsed, nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	default:
		return 0, InvalidCast(v.Interface(), target.String())
	}
	if reflect.New(target).Elem().OverflowFloat(f) {
		return 0, overflow(v, target)
	}
	return f, nil
}

// isDecimal rejects the forms strconv.ParseFloat accepts beyond plain decimal
// notation: hex mantissas and the Inf/NaN words.
func isDecimal(s string) bool {
	unsigned := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(unsigned, "0x") {
		return false
	}
	switch unsigned {
	case "inf", "infinity", "nan":
		return false
	}
	return true
}

func overflow(v reflect.Value, target reflect.Type) error {
	return FormatError(fmt.Errorf("%w: %v overflows %s", strconv.ErrRange, v.Interface(), target))
}
