package lookup_test

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/goliatone/go-lookup/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapSource(m map[string]any) lookup.Source {
	return lookup.SourceFunc(func(key string) (any, bool, error) {
		v, ok := m[key]
		return v, ok, nil
	})
}

func failingConverter[T any](t *testing.T) lookup.Converter[T] {
	t.Helper()
	return func(raw any) (T, error) {
		t.Fatalf("converter must not be called, got %v", raw)
		var zero T
		return zero, nil
	}
}

func TestGetMissingKeyReturnsZero(t *testing.T) {
	src := mapSource(map[string]any{"app id": "abc123"})

	s, err := lookup.Get[string](src, "cat id")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	b, err := lookup.Get[bool](src, "Allow Windows Live Writer")
	require.NoError(t, err)
	assert.False(t, b)

	n, err := lookup.GetWith(src, "other", failingConverter[int](t))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetOrMissingKeyReturnsDefault(t *testing.T) {
	src := mapSource(map[string]any{"app id": "abc123"})

	s, err := lookup.GetOr(src, "cat id", "Frank")
	require.NoError(t, err)
	assert.Equal(t, "Frank", s)

	b, err := lookup.GetOr(src, "Allow Windows Live Writer", true)
	require.NoError(t, err)
	assert.True(t, b)

	def := &url.URL{Host: "example.com"}
	u, err := lookup.GetOrWith(src, "endpoint", def, failingConverter[*url.URL](t))
	require.NoError(t, err)
	assert.Same(t, def, u)
}

func TestGetPresentValues(t *testing.T) {
	src := mapSource(map[string]any{
		"app id":    "abc123",
		"enabled":   "true",
		"appId":     "123",
		"price":     "1.23",
		"startDate": "05/04/2012 00:00:00",
	})

	s, err := lookup.GetOr(src, "app id", "abracadabra")
	require.NoError(t, err)
	assert.Equal(t, "abc123", s)

	b, err := lookup.GetOr(src, "enabled", false)
	require.NoError(t, err)
	assert.True(t, b)

	n, err := lookup.Get[int](src, "appId")
	require.NoError(t, err)
	assert.Equal(t, 123, n)

	f, err := lookup.Get[float64](src, "price")
	require.NoError(t, err)
	assert.Equal(t, 1.23, f)

	d, err := lookup.Get[time.Time](src, "startDate")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2012, 5, 4, 0, 0, 0, 0, time.UTC)), "got %v", d)
}

func TestGetIgnoresProcessLocale(t *testing.T) {
	t.Setenv("LANG", "nl_NL.UTF-8")
	t.Setenv("LC_ALL", "nl_NL.UTF-8")
	t.Setenv("LC_NUMERIC", "nl_NL.UTF-8")

	src := mapSource(map[string]any{
		"price":     "1.23",
		"startDate": "05/04/2012 00:00:00",
	})

	f, err := lookup.Get[float64](src, "price")
	require.NoError(t, err)
	assert.Equal(t, 1.23, f)

	d, err := lookup.Get[time.Time](src, "startDate")
	require.NoError(t, err)
	assert.Equal(t, 2012, d.Year())
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 4, d.Day())
}

func TestGetRoundTrip(t *testing.T) {
	identity := lookup.Default[int]()

	n, err := lookup.GetOrWith(mapSource(map[string]any{"key": "123"}), "key", 0, identity)
	require.NoError(t, err)
	assert.Equal(t, 123, n)

	n, err = lookup.GetOrWith(mapSource(map[string]any{"otherKey": "x"}), "key", 0, identity)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetWithStringConverter(t *testing.T) {
	src := mapSource(map[string]any{
		"allow":  "on",
		"length": "1h10m10s",
		"ID":     "abc123",
	})

	allowed, err := lookup.GetWith(src, "allow", lookup.FromString(func(v string) (bool, error) {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed, nil
		}
		return v == "on", nil
	}))
	require.NoError(t, err)
	assert.True(t, allowed)

	length, err := lookup.GetWith(src, "length", lookup.FromString(time.ParseDuration))
	require.NoError(t, err)
	assert.Equal(t, 4210*time.Second, length)

	_, err = lookup.GetWith(src, "ID", lookup.FromString(strconv.Atoi))
	require.Error(t, err)
	assert.ErrorIs(t, err, lookup.ErrFormat)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestGetErrors(t *testing.T) {
	src := mapSource(map[string]any{
		"length": "1:10:10",
		"empty":  nil,
		"ID":     "abc123",
	})

	_, err := lookup.Get[time.Duration](src, "length")
	assert.ErrorIs(t, err, lookup.ErrInvalidCast)

	_, err = lookup.Get[int](src, "empty")
	assert.ErrorIs(t, err, lookup.ErrInvalidCast)

	_, err = lookup.GetOr(src, "empty", 42)
	assert.ErrorIs(t, err, lookup.ErrInvalidCast, "a present nil value is converted, never defaulted")

	_, err = lookup.Get[int](src, "ID")
	assert.ErrorIs(t, err, lookup.ErrFormat)
	assert.NotErrorIs(t, err, lookup.ErrInvalidCast)
}

func TestGetNilValueForReferenceTypes(t *testing.T) {
	src := mapSource(map[string]any{"length": nil})

	e, err := lookup.Get[error](src, "length")
	require.NoError(t, err)
	assert.Nil(t, e)

	u, err := lookup.Get[*url.URL](src, "length")
	require.NoError(t, err)
	assert.Nil(t, u)

	list, err := lookup.Get[[]string](src, "length")
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestGetWithRawConverterHandlesNil(t *testing.T) {
	src := mapSource(map[string]any{"value": nil})

	var called bool
	n, err := lookup.GetOrWith(src, "value", 5, lookup.Converter[int](func(raw any) (int, error) {
		called = true
		if raw == nil {
			return -1, nil
		}
		return lookup.Convert[int](raw)
	}))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, -1, n)
}

func TestRawConverterErrorsPropagateUnchanged(t *testing.T) {
	sentinel := errors.New("boom")
	src := mapSource(map[string]any{"value": "x"})

	_, err := lookup.GetWith(src, "value", lookup.Converter[int](func(any) (int, error) {
		return 0, sentinel
	}))
	assert.Equal(t, sentinel, err)
}

func TestNullSource(t *testing.T) {
	_, err := lookup.Get[int](nil, "value ID")
	require.ErrorIs(t, err, lookup.ErrNullSource)

	var lerr *lookup.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "source", lerr.Param)

	var typedNil lookup.SourceFunc
	_, err = lookup.GetWith(typedNil, "value ID", failingConverter[int](t))
	assert.ErrorIs(t, err, lookup.ErrNullSource)

	_, err = lookup.GetOrWith(lookup.Null("dictionary"), "value ID", 1, failingConverter[int](t))
	require.ErrorIs(t, err, lookup.ErrNullSource)
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "dictionary", lerr.Param)
}

func TestSourceErrorsPropagate(t *testing.T) {
	src := lookup.SourceFunc(func(key string) (any, bool, error) {
		return nil, false, lookup.AmbiguousKey(key, 2)
	})

	_, err := lookup.GetOrWith(src, "state", "CA", failingConverter[string](t))
	assert.ErrorIs(t, err, lookup.ErrAmbiguousKey)
}

func TestRequire(t *testing.T) {
	src := mapSource(map[string]any{"port": "8080"})

	port, err := lookup.Require[int](src, "port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	port, err = lookup.Require(src, "port", lookup.FromString(func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		return n + 1, err
	}))
	require.NoError(t, err)
	assert.Equal(t, 8081, port)

	_, err = lookup.Require[int](src, "host")
	require.ErrorIs(t, err, lookup.ErrMissingKey)
	assert.Contains(t, err.Error(), `"host"`)
}

func TestMust(t *testing.T) {
	src := mapSource(map[string]any{"n": "12", "bad": "x"})

	assert.Equal(t, 12, lookup.Must(lookup.Get[int](src, "n")))
	assert.Panics(t, func() {
		lookup.Must(lookup.Get[int](src, "bad"))
	})
}
