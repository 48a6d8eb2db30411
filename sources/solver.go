package sources

import (
	"encoding/base64"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-lookup/lookup"
	"github.com/knadh/koanf/v2"
)

// Solver rewrites values after every loader has run.
type Solver interface {
	Solve(k *koanf.Koanf) error
}

// SolverFunc adapts a function into a Solver.
type SolverFunc func(k *koanf.Koanf) error

func (f SolverFunc) Solve(k *koanf.Koanf) error {
	return f(k)
}

type variables struct {
	start, end string
}

// VariablesSolver replaces references such as ${server.host} with the value at
// that path. A value that is exactly one reference takes the referenced value
// with its type; references embedded in text are rendered invariantly.
// Unknown paths are left untouched.
func VariablesSolver(start, end string) Solver {
	return variables{start: start, end: end}
}

func (s variables) Solve(k *koanf.Koanf) error {
	all := k.All()
	for _, key := range sortedKeys(all) {
		val, ok := all[key].(string)
		if !ok {
			continue
		}
		resolved, changed := s.resolve(val, k)
		if !changed {
			continue
		}
		if err := k.Set(key, resolved); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to set resolved variable").
				WithTextCode("SOLVER_FAILED").
				WithMetadata(map[string]any{"key": key})
		}
	}
	return nil
}

func (s variables) resolve(val string, k *koanf.Koanf) (any, bool) {
	start := strings.Index(val, s.start)
	if start == -1 {
		return nil, false
	}
	rest := val[start+len(s.start):]
	end := strings.Index(rest, s.end)
	if end <= 0 {
		return nil, false
	}
	path := rest[:end]
	if !k.Exists(path) {
		return nil, false
	}

	ref := k.Get(path)
	if start == 0 && len(s.start)+len(path)+len(s.end) == len(val) {
		return ref, true
	}

	text := ""
	if rendered := lookup.Normalize(ref); rendered != nil {
		text = *rendered
	}
	return val[:start] + text + rest[end+len(s.end):], true
}

type uris struct {
	fsys       fs.FS
	start, end string
}

// URISolver replaces values of the form <start>protocol<end>payload. Supported
// protocols are "file", which reads payload from fsys, and "base64", which
// decodes payload. With "@" and ":" the value "@file:secrets/db.txt" becomes the
// trimmed file content. A nil fsys reads from the working directory.
func URISolver(start, end string, fsys fs.FS) Solver {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	return uris{fsys: fsys, start: start, end: end}
}

func (s uris) Solve(k *koanf.Koanf) error {
	all := k.All()
	for _, key := range sortedKeys(all) {
		val, ok := all[key].(string)
		if !ok || !strings.HasPrefix(val, s.start) {
			continue
		}
		protocol, payload, ok := strings.Cut(strings.TrimPrefix(val, s.start), s.end)
		if !ok {
			continue
		}

		var (
			content string
			err     error
		)
		switch protocol {
		case "file":
			content, err = readFileContent(s.fsys, payload)
		case "base64":
			content, err = decodeBase64(payload)
		default:
			continue
		}
		if err == nil {
			err = k.Set(key, content)
		}
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to solve uri value").
				WithTextCode("SOLVER_FAILED").
				WithMetadata(map[string]any{
					"key":      key,
					"protocol": protocol,
				})
		}
	}
	return nil
}

func readFileContent(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func decodeBase64(payload string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", lookup.FormatError(err)
	}
	return string(data), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
