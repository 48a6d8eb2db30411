package decode

import (
	"github.com/goliatone/go-lookup/lookup"
)

// Into returns a lookup.Converter that decodes raw values with Build. It is the
// bridge for structured values such as a koanf section:
//
//	db, err := lookup.GetWith(src, "database", decode.Into[Database]())
//
// A nil raw value follows lookup.Convert: an error for value types and nil for
// pointers, maps and slices. Build failures are reported as lookup.ErrFormat
// wrapping the *StageError.
func Into[T any](opts ...Option[T]) lookup.Converter[T] {
	d := newDecoder(opts...)
	return func(raw any) (T, error) {
		if raw == nil {
			return lookup.Convert[T](nil)
		}
		v, err := d.build(raw)
		if err != nil {
			var zero T
			return zero, lookup.FormatError(err)
		}
		return v, nil
	}
}

// Get resolves key from src and decodes it into T; a missing key yields the zero value.
func Get[T any](src lookup.Source, key string, opts ...Option[T]) (T, error) {
	return lookup.GetWith(src, key, Into[T](opts...))
}

// GetOr is Get returning def when key is missing.
func GetOr[T any](src lookup.Source, key string, def T, opts ...Option[T]) (T, error) {
	return lookup.GetOrWith(src, key, def, Into[T](opts...))
}
