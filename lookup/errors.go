package lookup

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNullSource reports that the backing container itself was nil.
	ErrNullSource = errors.New("lookup: source is nil")
	// ErrAmbiguousKey reports a grouped source holding more than one value for a key.
	ErrAmbiguousKey = errors.New("lookup: multiple values for key")
	// ErrInvalidCast reports a value that no conversion strategy could turn into the target type.
	ErrInvalidCast = errors.New("lookup: invalid cast")
	// ErrFormat reports a string that could not be parsed into the target type.
	ErrFormat = errors.New("lookup: invalid format")
	// ErrMissingKey is returned by Require when the key is absent.
	ErrMissingKey = errors.New("lookup: key not found")
)

var textCodes = map[error]string{
	ErrNullSource:   "NULL_SOURCE",
	ErrAmbiguousKey: "AMBIGUOUS_KEY",
	ErrInvalidCast:  "INVALID_CAST",
	ErrFormat:       "FORMAT_ERROR",
	ErrMissingKey:   "MISSING_KEY",
}

// Error describes a failed resolution. Kind is one of the Err* sentinels, Err the
// underlying cause (if any).
type Error struct {
	Kind  error
	Key   string
	Param string
	Err   error
	Meta  map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("lookup: error")
	}
	if e.Param != "" {
		fmt.Fprintf(&b, ": %s", e.Param)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, ": key %q", e.Key)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap allows errors.Is/As to inspect the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the target matches either the kind sentinel or the wrapped error.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if e.Kind != nil && e.Kind == target {
		return true
	}
	return errors.Is(e.Err, target)
}

// TextCode returns a stable upper-case code for the error kind, e.g. INVALID_CAST.
func (e *Error) TextCode() string {
	if e == nil {
		return ""
	}
	if code, ok := textCodes[e.Kind]; ok {
		return code
	}
	return "LOOKUP_ERROR"
}

func newError(kind error, err error, meta map[string]any) *Error {
	return &Error{
		Kind: kind,
		Err:  err,
		Meta: meta,
	}
}

// NullSource builds the error returned when a container is nil. param names the
// missing container, e.g. "map" or "node".
func NullSource(param string) error {
	return &Error{Kind: ErrNullSource, Param: param}
}

// AmbiguousKey builds the error returned by grouped sources holding count values for key.
func AmbiguousKey(key string, count int) error {
	return &Error{
		Kind: ErrAmbiguousKey,
		Key:  key,
		Err:  fmt.Errorf("found %d values", count),
		Meta: map[string]any{"count": count},
	}
}

// InvalidCast builds an ErrInvalidCast error for a value that cannot become target.
func InvalidCast(value any, target string) error {
	return newError(ErrInvalidCast, fmt.Errorf("cannot convert %T to %s", value, target), map[string]any{
		"source_type": fmt.Sprintf("%T", value),
		"target_type": target,
	})
}

// FormatError wraps err as an ErrFormat error. Errors that already carry a kind are
// returned unchanged.
func FormatError(err error) error {
	if err == nil {
		return nil
	}
	var lerr *Error
	if errors.As(err, &lerr) {
		return err
	}
	return newError(ErrFormat, err, nil)
}
