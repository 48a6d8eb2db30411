package sources

import (
	"context"

	"github.com/knadh/koanf/v2"
)

type mergeKey struct{}

// withMerge makes loaders run with fn as their koanf merge function.
func withMerge(ctx context.Context, fn func(src, dest map[string]any) error) context.Context {
	if fn == nil {
		return ctx
	}
	return context.WithValue(ctx, mergeKey{}, fn)
}

func loadOptions(ctx context.Context) []koanf.Option {
	if ctx == nil {
		return nil
	}
	fn, ok := ctx.Value(mergeKey{}).(func(src, dest map[string]any) error)
	if !ok {
		return nil
	}
	return []koanf.Option{koanf.WithMergeFunc(fn)}
}

// MergeSkipEmpty merges src into dest except for values that carry nothing: nil,
// empty strings and empty slices never replace a value already in dest. Nested
// maps are merged key by key.
func MergeSkipEmpty(src, dest map[string]any) error {
	for key, value := range src {
		existing, ok := dest[key]
		if !ok {
			dest[key] = value
			continue
		}
		switch v := value.(type) {
		case nil:
		case string:
			if v != "" {
				dest[key] = v
			}
		case []any:
			if len(v) > 0 {
				dest[key] = v
			}
		case map[string]any:
			if nested, ok := existing.(map[string]any); ok {
				if err := MergeSkipEmpty(v, nested); err != nil {
					return err
				}
				continue
			}
			dest[key] = v
		default:
			dest[key] = v
		}
	}
	return nil
}
