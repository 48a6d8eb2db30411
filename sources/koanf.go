package sources

import (
	"github.com/goliatone/go-lookup/lookup"
	"github.com/knadh/koanf/v2"
)

// Koanf exposes a koanf instance. Keys are koanf paths ("database.dsn"); presence
// follows k.Exists so nested sections resolve to their map value.
func Koanf(k *koanf.Koanf) lookup.Source {
	if k == nil {
		return lookup.Null("koanf")
	}
	return koanfSource{k: k}
}

type koanfSource struct {
	k *koanf.Koanf
}

func (s koanfSource) Lookup(key string) (any, bool, error) {
	if !s.k.Exists(key) {
		return nil, false, nil
	}
	return rawValue(s.k.Get(key)), true, nil
}
