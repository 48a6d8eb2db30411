package lookup

import "reflect"

// Source is a uniform key/value view over a backing container.
//
// Lookup reports whether key is present and, if so, its raw value. A non-nil
// error is reserved for containers that cannot answer for a key at all, e.g. a
// grouped source with several values or a nil container.
type Source interface {
	Lookup(key string) (value any, ok bool, err error)
}

// SourceFunc adapts a plain function into a Source.
type SourceFunc func(key string) (any, bool, error)

// Lookup calls f(key).
func (f SourceFunc) Lookup(key string) (any, bool, error) {
	return f(key)
}

// Null returns a Source that fails every lookup with ErrNullSource. Adapters use it
// when handed a nil container so the failure surfaces before any key lookup.
func Null(param string) Source {
	return nullSource{param: param}
}

type nullSource struct {
	param string
}

func (n nullSource) Lookup(string) (any, bool, error) {
	return nil, false, NullSource(n.param)
}

func isNilSource(src Source) bool {
	if src == nil {
		return true
	}
	val := reflect.ValueOf(src)
	switch val.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return val.IsNil()
	default:
		return false
	}
}
