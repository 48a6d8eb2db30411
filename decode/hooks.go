package decode

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-lookup/lookup"
)

var timeType = reflect.TypeFor[time.Time]()

// DefaultHooks returns the hooks every decode starts with, in order.
func DefaultHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		DurationHook(),
		InvariantTimeHook(),
		FlexibleBoolHook(),
		TextUnmarshalerHook(),
	}
}

// DurationHook parses strings such as "5s" into time.Duration.
func DurationHook() mapstructure.DecodeHookFunc {
	return mapstructure.StringToTimeDurationHookFunc()
}

// InvariantTimeHook parses strings into time.Time with lookup.ParseTime, so
// "01/02/2006 15:04:05" and RFC 3339 values both decode the same way regardless
// of the process locale.
func InvariantTimeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != timeType {
			return data, nil
		}
		s := reflect.ValueOf(data).String()
		if strings.TrimSpace(s) == "" {
			return time.Time{}, nil
		}
		return lookup.ParseTime(s)
	}
}

// FlexibleBoolHook accepts on/off, yes/no, y/n and 1/0 in addition to the
// values strconv.ParseBool understands.
func FlexibleBoolHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}
		return parseBoolString(reflect.ValueOf(data).String())
	}
}

func parseBoolString(val string) (bool, error) {
	val = strings.TrimSpace(strings.ToLower(val))
	switch val {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return strconv.ParseBool(val)
	}
}

// TextUnmarshalerHook decodes strings into encoding.TextUnmarshaler targets.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || from == to {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaler, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := unmarshaler.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result, nil
	}
}
