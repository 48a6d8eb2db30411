package lookup

import (
	"fmt"
	"strconv"
	"strings"
)

// Converter turns a raw value found in a Source into T. It receives nil when the
// key is present with a nil value and is responsible for handling it.
type Converter[T any] func(raw any) (T, error)

// Default returns the default conversion, see Convert.
func Default[T any]() Converter[T] {
	return Convert[T]
}

// FromNullableString builds a Converter that normalizes the raw value to a string
// (see Normalize) before calling fn. fn receives nil for a nil raw value. Errors
// returned by fn, and panics raised while parsing, are reported as ErrFormat.
func FromNullableString[T any](fn func(*string) (T, error)) Converter[T] {
	if fn == nil {
		return Convert[T]
	}
	return func(raw any) (out T, err error) {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				out = zero
				if rerr, ok := r.(error); ok {
					err = FormatError(fmt.Errorf("string converter panic: %w", rerr))
					return
				}
				err = FormatError(fmt.Errorf("string converter panic: %v", r))
			}
		}()
		out, err = fn(Normalize(raw))
		if err != nil {
			var zero T
			return zero, FormatError(err)
		}
		return out, nil
	}
}

// FromString is FromNullableString for converters that do not care about nil; a
// nil raw value reaches fn as the empty string.
func FromString[T any](fn func(string) (T, error)) Converter[T] {
	if fn == nil {
		return Convert[T]
	}
	return FromNullableString(func(s *string) (T, error) {
		if s == nil {
			return fn("")
		}
		return fn(*s)
	})
}

// FlexibleBool parses form style booleans: anything strconv.ParseBool accepts, else
// true when the value matches one of trueValues (case insensitive, default "on"),
// else false. A nil value is false.
func FlexibleBool(trueValues ...string) Converter[bool] {
	if len(trueValues) == 0 {
		trueValues = []string{"on"}
	}
	return FromNullableString(func(s *string) (bool, error) {
		if s == nil {
			return false, nil
		}
		value := strings.TrimSpace(*s)
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed, nil
		}
		for _, candidate := range trueValues {
			if strings.EqualFold(value, strings.TrimSpace(candidate)) {
				return true, nil
			}
		}
		return false, nil
	})
}
