package decode

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

const (
	stageDefaults = "defaults"
	stageDecode   = "decode"
	stageValidate = "validate"
)

var (
	// ErrDefaults wraps failures producing or cloning the default value.
	ErrDefaults = errors.New("decode: defaults stage failed")
	// ErrDecode wraps mapstructure failures.
	ErrDecode = errors.New("decode: decode stage failed")
	// ErrValidate wraps errors returned by the validator.
	ErrValidate = errors.New("decode: validate stage failed")
	// ErrOption reports a misconfigured option, e.g. a second validator.
	ErrOption = errors.New("decode: option configuration failed")
)

// StageError reports the stage that failed. errors.Is matches both the stage
// sentinel (Base) and the underlying error.
type StageError struct {
	Stage string
	Base  error
	Err   error
	Meta  map[string]any
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *StageError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if errors.Is(e.Base, target) {
		return true
	}
	return errors.Is(e.Err, target)
}

func stageError(stage string, base, err error, meta map[string]any) error {
	if err == nil {
		return nil
	}
	return &StageError{
		Stage: stage,
		Base:  base,
		Err:   err,
		Meta:  meta,
	}
}

type decoder[T any] struct {
	defaults    func() (T, error)
	hooks       []mapstructure.DecodeHookFunc
	config      mapstructure.DecoderConfig
	validator   Validator[T]
	useDefaults bool
	optionErr   error
}

func newDecoder[T any](opts ...Option[T]) *decoder[T] {
	d := &decoder[T]{
		config: mapstructure.DecoderConfig{
			TagName:          DefaultTagName,
			WeaklyTypedInput: true,
		},
		useDefaults: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Build decodes input (usually a map[string]any read from a source) into T.
// Stages run in order: defaults are cloned, input is decoded over them and the
// result is validated. Failures wrap ErrDefaults, ErrDecode or ErrValidate in a
// *StageError.
func Build[T any](input any, opts ...Option[T]) (T, error) {
	return newDecoder(opts...).build(input)
}

func (d *decoder[T]) build(input any) (T, error) {
	var zero T
	if d.optionErr != nil {
		return zero, d.optionErr
	}

	result, err := d.applyDefaults()
	if err != nil {
		return zero, err
	}
	if err := d.decode(input, &result); err != nil {
		return zero, err
	}
	if err := d.validate(&result); err != nil {
		return zero, err
	}
	return result, nil
}

func (d *decoder[T]) setOptionError(err error) {
	if err == nil || d.optionErr != nil {
		return
	}
	d.optionErr = fmt.Errorf("%w: %w", ErrOption, err)
}

func (d *decoder[T]) applyDefaults() (T, error) {
	var zero T
	if d.defaults == nil {
		return zero, nil
	}
	val, err := d.defaults()
	if err != nil {
		return zero, stageError(stageDefaults, ErrDefaults, err, nil)
	}
	cloned, err := clone(val)
	if err != nil {
		return zero, stageError(stageDefaults, ErrDefaults, err, map[string]any{
			"reason": "clone",
		})
	}
	return cloned, nil
}

func (d *decoder[T]) decode(input any, result *T) error {
	config := d.config
	config.Result = decodeTarget(result)
	config.DecodeHook = d.composeHooks()

	dec, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return stageError(stageDecode, ErrDecode, err, map[string]any{"reason": "decoder_config"})
	}
	if err := dec.Decode(input); err != nil {
		return stageError(stageDecode, ErrDecode, err, map[string]any{
			"input_type":  fmt.Sprintf("%T", input),
			"target_type": reflect.TypeFor[T]().String(),
		})
	}
	return nil
}

func (d *decoder[T]) composeHooks() mapstructure.DecodeHookFunc {
	hooks := make([]mapstructure.DecodeHookFunc, 0, len(d.hooks)+4)
	if d.useDefaults {
		hooks = append(hooks, DefaultHooks()...)
	}
	hooks = append(hooks, d.hooks...)
	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	default:
		return mapstructure.ComposeDecodeHookFunc(hooks...)
	}
}

// decodeTarget allocates pointer targets so *Config results decode in place.
func decodeTarget[T any](result *T) any {
	val := reflect.ValueOf(result).Elem()
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return val.Interface()
	}
	return val.Addr().Interface()
}

func (d *decoder[T]) validate(result *T) error {
	if d.validator == nil {
		return nil
	}
	if err := d.validator(result); err != nil {
		return stageError(stageValidate, ErrValidate, err, nil)
	}
	return nil
}

func clone[T any](value T) (T, error) {
	var zero T
	cloned, err := copystructure.Copy(value)
	if err != nil {
		return zero, err
	}
	if cloned == nil {
		return zero, nil
	}
	casted, ok := cloned.(T)
	if !ok {
		return zero, fmt.Errorf("decode: cloned value %T is not %s", cloned, reflect.TypeFor[T]())
	}
	return casted, nil
}
