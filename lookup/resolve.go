package lookup

// Get resolves key from src into T using the default conversion. A missing key
// yields the zero value of T.
func Get[T any](src Source, key string) (T, error) {
	var zero T
	return GetOrWith(src, key, zero, nil)
}

// GetOr resolves key from src into T using the default conversion, returning def
// when the key is missing.
func GetOr[T any](src Source, key string, def T) (T, error) {
	return GetOrWith(src, key, def, nil)
}

// GetWith resolves key from src with conv. A missing key yields the zero value of T.
func GetWith[T any](src Source, key string, conv Converter[T]) (T, error) {
	var zero T
	return GetOrWith(src, key, zero, conv)
}

// GetOrWith resolves key from src with conv, returning def unchanged when the key
// is missing. conv is never called for a missing key; a nil conv means Convert.
// Errors from the source or the converter are returned as is.
func GetOrWith[T any](src Source, key string, def T, conv Converter[T]) (T, error) {
	raw, ok, err := find(src, key)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return def, nil
	}
	if conv == nil {
		conv = Convert[T]
	}
	return conv(raw)
}

// Require is like GetWith but fails with ErrMissingKey when the key is absent.
// Only the first converter is used.
func Require[T any](src Source, key string, conv ...Converter[T]) (T, error) {
	var zero T
	raw, ok, err := find(src, key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, &Error{Kind: ErrMissingKey, Key: key}
	}
	c := Convert[T]
	if len(conv) > 0 && conv[0] != nil {
		c = conv[0]
	}
	return c(raw)
}

// Must returns value or panics when err is not nil.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func find(src Source, key string) (any, bool, error) {
	if isNilSource(src) {
		return nil, false, NullSource("source")
	}
	return src.Lookup(key)
}
