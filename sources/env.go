package sources

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/sjson"
)

// envProvider is a koanf provider that renders prefixed environment variables as
// a JSON document. Numeric path segments become array indexes:
//
//	APP_DATABASE__0__DSN=one
//	APP_DATABASE__1__DSN=two
//
// yields {"database":[{"dsn":"one"},{"dsn":"two"}]} for prefix "APP_" and delim "__".
type envProvider struct {
	prefix  string
	delim   string
	environ func() []string
}

func newEnvProvider(prefix, delim string) *envProvider {
	return &envProvider{
		prefix:  prefix,
		delim:   delim,
		environ: os.Environ,
	}
}

// keyPath maps APP_DATABASE__DSN to database.dsn. An empty result skips the variable.
func (e *envProvider) keyPath(name string) string {
	if !strings.HasPrefix(name, e.prefix) {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(name, e.prefix))
	if e.delim != "" {
		key = strings.ReplaceAll(key, strings.ToLower(e.delim), ".")
	}
	return strings.Trim(key, ".")
}

// ReadBytes renders the matching variables as JSON. Variables are applied in name
// order so array elements are created from the lowest index up.
func (e *envProvider) ReadBytes() ([]byte, error) {
	environ := append([]string(nil), e.environ()...)
	sort.Strings(environ)

	out := "{}"
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		path := e.keyPath(name)
		if path == "" {
			continue
		}
		next, err := sjson.Set(out, path, value)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return []byte(out), nil
}

// Read is not supported; the provider is paired with the JSON parser.
func (e *envProvider) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support Read")
}
