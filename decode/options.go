package decode

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultTagName is the struct tag read when mapping keys to fields.
var DefaultTagName = "lookup"

// Option configures Build and Into.
type Option[T any] func(*decoder[T])

// Validator runs after a successful decode.
type Validator[T any] func(*T) error

// WithDefaults decodes over a deep copy of value, so fields missing from the
// input keep their default. Later calls win.
func WithDefaults[T any](value T) Option[T] {
	return func(d *decoder[T]) {
		d.defaults = func() (T, error) {
			return value, nil
		}
	}
}

// WithDefaultFunc is WithDefaults with a lazily built value.
func WithDefaultFunc[T any](fn func() (T, error)) Option[T] {
	return func(d *decoder[T]) {
		d.defaults = fn
	}
}

// WithDecodeHooks appends hooks after the default set.
func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(d *decoder[T]) {
		for _, hook := range hooks {
			if hook != nil {
				d.hooks = append(d.hooks, hook)
			}
		}
	}
}

// WithDecoder exposes the underlying mapstructure configuration. Result and
// DecodeHook are always overwritten.
func WithDecoder[T any](fn func(*mapstructure.DecoderConfig)) Option[T] {
	return func(d *decoder[T]) {
		if fn != nil {
			fn(&d.config)
		}
	}
}

// WithTagName overrides DefaultTagName.
func WithTagName[T any](tag string) Option[T] {
	return func(d *decoder[T]) {
		if tag != "" {
			d.config.TagName = tag
		}
	}
}

// WithStrictKeys fails on input keys that match no field.
func WithStrictKeys[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.config.ErrorUnused = true
		d.config.ZeroFields = true
	}
}

// WithWeakTyping toggles mapstructure's weak typing ("42" into an int field and
// the like). It is on by default.
func WithWeakTyping[T any](enabled bool) Option[T] {
	return func(d *decoder[T]) {
		d.config.WeaklyTypedInput = enabled
	}
}

// WithValidator registers the validator. Registering a second one is an ErrOption.
func WithValidator[T any](validator Validator[T]) Option[T] {
	return func(d *decoder[T]) {
		if validator == nil {
			return
		}
		if d.validator != nil {
			d.setOptionError(errors.New("validator already registered"))
			return
		}
		d.validator = validator
	}
}

// WithValidatorFunc adapts a value based validator.
func WithValidatorFunc[T any](validator func(T) error) Option[T] {
	if validator == nil {
		return func(*decoder[T]) {}
	}
	return WithValidator(func(v *T) error {
		if v == nil {
			var zero T
			return validator(zero)
		}
		return validator(*v)
	})
}

// WithoutDefaultHooks drops DefaultHooks, leaving only hooks added with WithDecodeHooks.
func WithoutDefaultHooks[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.useDefaults = false
	}
}

// WithDefaultHooks turns DefaultHooks back on.
func WithDefaultHooks[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.useDefaults = true
	}
}

// WithOptionError lets option helpers built on top of this package report their
// own misconfiguration. The first error wins.
func WithOptionError[T any](err error) Option[T] {
	return func(d *decoder[T]) {
		d.setOptionError(err)
	}
}
