package sources

import (
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strings"

	"github.com/goliatone/go-lookup/lookup"
)

// Map exposes m as a lookup.Source. A nil map is reported as ErrNullSource.
func Map[V any](m map[string]V) lookup.Source {
	if m == nil {
		return lookup.Null("map")
	}
	return mapSource[V](m)
}

type mapSource[V any] map[string]V

func (m mapSource[V]) Lookup(key string) (any, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	return rawValue(v), true, nil
}

// Grouped exposes a key to many values grouping. A key with no values is absent,
// a key with one value resolves to it and a key with more values fails with
// ErrAmbiguousKey.
func Grouped[V any](g map[string][]V) lookup.Source {
	if g == nil {
		return lookup.Null("lookup")
	}
	return groupedSource[V](g)
}

type groupedSource[V any] map[string][]V

func (g groupedSource[V]) Lookup(key string) (any, bool, error) {
	values := g[key]
	switch len(values) {
	case 0:
		return nil, false, nil
	case 1:
		return rawValue(values[0]), true, nil
	default:
		return nil, false, lookup.AmbiguousKey(key, len(values))
	}
}

// ToLookup groups a multi-value collection such as url.Values. A key holding a
// single value is split on commas, so "A,B,C" and three separate "A", "B", "C"
// entries produce the same grouping. Keys with several values are kept as is.
func ToLookup(values map[string][]string) (map[string][]string, error) {
	if values == nil {
		return nil, lookup.NullSource("collection")
	}
	out := make(map[string][]string, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			out[key] = strings.Split(vals[0], ",")
			continue
		}
		out[key] = append([]string(nil), vals...)
	}
	return out, nil
}

// Values exposes a form or query collection. See ToLookup and Grouped.
func Values(v url.Values) lookup.Source {
	grouped, err := ToLookup(v)
	if err != nil {
		return lookup.Null("collection")
	}
	return Grouped(grouped)
}

// Header is Values for HTTP headers; keys are matched in canonical form.
func Header(h http.Header) lookup.Source {
	grouped, err := ToLookup(h)
	if err != nil {
		return lookup.Null("header")
	}
	src := Grouped(grouped)
	return lookup.SourceFunc(func(key string) (any, bool, error) {
		return src.Lookup(textproto.CanonicalMIMEHeaderKey(key))
	})
}

// rawValue turns typed nils (a nil *T stored in a map[string]*T) into a plain nil.
func rawValue(v any) any {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if val.IsNil() {
			return nil
		}
	}
	return v
}
