// Package lookup resolves typed values out of loosely typed key/value sources.
//
// A Source exposes "is key present, and what is its raw value" over any container;
// the sources package ships adapters for maps, grouped lookups, url.Values, XML
// trees and koanf instances. The resolver applies the presence policy and hands
// present values to a Converter:
//
//	port, err := lookup.GetOr(src, "port", 8080)
//	ttl, err := lookup.GetWith(src, "ttl", lookup.FromString(time.ParseDuration))
//
// Resolver catalog:
//   - Get, GetOr: default conversion, zero or explicit default.
//   - GetWith, GetOrWith: caller supplied Converter.
//   - Require: like GetWith but a missing key is an error.
//   - Must: panics instead of returning an error.
//
// A missing key returns the default untouched and never reaches the converter. A
// key present with a nil value is converted: the default conversion returns nil for
// pointer-like targets and fails with ErrInvalidCast for value types.
//
// Converter helpers:
//   - Convert / Default: ordered strategies (invariant primitive conversion, nil
//     handling, string rendering, identity cast).
//   - FromString, FromNullableString: parse the invariant string rendering of the
//     raw value; parse failures become ErrFormat.
//   - FlexibleBool: form style "on"/"yes" booleans.
//
// Numbers and dates are always parsed and rendered with fixed, locale independent
// rules: "." is the decimal separator and dates are month first
// ("05/04/2012 00:00:00" is May 4th).
//
// Errors are *Error values carrying one of ErrNullSource, ErrAmbiguousKey,
// ErrInvalidCast, ErrFormat or ErrMissingKey; match them with errors.Is.
package lookup
