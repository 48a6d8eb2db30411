package sources

import (
	"context"
	goerrors "errors"
	"io/fs"
	"os"
	"sort"
	"syscall"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-lookup/logger"
	"github.com/goliatone/go-lookup/lookup"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

var (
	DefaultDelimiter    = "."
	DefaultLoadTimeout  = 30 * time.Second
	DefaultEnvPrefix    = "APP_"
	DefaultEnvDelimiter = "__"
)

type LoaderType string

func (t LoaderType) String() string {
	return string(t)
}

const (
	LoaderTypeDefault LoaderType = "default"
	LoaderTypeFile    LoaderType = "file"
	LoaderTypeEnv     LoaderType = "env"
	LoaderTypeFlag    LoaderType = "pflag"
	LoaderTypeStruct  LoaderType = "struct"
)

// Loader fills a koanf instance from one backing store.
type Loader interface {
	Type() LoaderType
	Priority() int
	Load(context.Context, *koanf.Koanf) error
}

type Priority int

// WithOffset shifts a priority, e.g. PriorityConfig.WithOffset(10) loads a local
// override file after the main one.
func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityDefaults Priority = 0
	PriorityStruct   Priority = 10
	PriorityConfig   Priority = 20
	PriorityEnv      Priority = 30
	PriorityFlags    Priority = 40
)

type loader struct {
	order      int
	loaderType LoaderType
	load       func(context.Context, *koanf.Koanf) error
}

func (l *loader) Type() LoaderType {
	return l.loaderType
}

func (l *loader) Priority() int {
	return l.order
}

func (l *loader) Load(ctx context.Context, k *koanf.Koanf) error {
	return l.load(ctx, k)
}

// MapLoader loads nested or delimiter-flattened values.
func MapLoader(values map[string]any, order ...int) Loader {
	return &loader{
		loaderType: LoaderTypeDefault,
		order:      getOrder(PriorityDefaults, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if values == nil {
				return lookup.NullSource("map")
			}
			if err := k.Load(confmap.Provider(values, k.Delim()), nil, loadOptions(ctx)...); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load map values").
					WithTextCode("MAP_LOAD_FAILED").
					WithMetadata(map[string]any{
						"values_count": len(values),
					})
			}
			return nil
		},
	}
}

// FileLoader loads a JSON, YAML or TOML file, picking the parser from the extension.
func FileLoader(path string, order ...int) Loader {
	return FileLoaderAs(path, FileTypeOf(path), order...)
}

// FileLoaderAs loads path with an explicit file type.
func FileLoaderAs(path string, filetype FileType, order ...int) Loader {
	return &loader{
		loaderType: LoaderTypeFile,
		order:      getOrder(PriorityConfig, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := filetype.Valid(); err != nil {
				return err
			}
			if err := k.Load(file.Provider(path), filetype.Parser(), loadOptions(ctx)...); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load file").
					WithTextCode("FILE_LOAD_FAILED").
					WithMetadata(map[string]any{
						"filepath":  path,
						"file_type": string(filetype),
					})
			}
			return nil
		},
	}
}

// EnvLoader loads environment variables starting with prefix. The prefix is
// dropped, names are lower cased and delim separates nesting levels, so with
// prefix "APP_" and delim "__" APP_DATABASE__DSN becomes database.dsn.
func EnvLoader(prefix, delim string, order ...int) Loader {
	return &loader{
		loaderType: LoaderTypeEnv,
		order:      getOrder(PriorityEnv, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := k.Load(newEnvProvider(prefix, delim), json.Parser(), loadOptions(ctx)...); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
					WithTextCode("ENV_LOAD_FAILED").
					WithMetadata(map[string]any{
						"prefix":    prefix,
						"delimiter": delim,
					})
			}
			return nil
		},
	}
}

// FlagsLoader loads a pflag set. Flags keep their defaults unless changed, and a
// default never overrides a key loaded earlier.
func FlagsLoader(flagset *pflag.FlagSet, order ...int) Loader {
	return &loader{
		loaderType: LoaderTypeFlag,
		order:      getOrder(PriorityFlags, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if flagset == nil {
				return lookup.NullSource("flagset")
			}
			if err := k.Load(posflag.Provider(flagset, k.Delim(), k), nil, loadOptions(ctx)...); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load posix flags").
					WithTextCode("FLAGS_LOAD_FAILED").
					WithMetadata(map[string]any{
						"delimiter": k.Delim(),
					})
			}
			return nil
		},
	}
}

// StructLoader loads the exported fields of v using tag for key names.
func StructLoader(v any, tag string, order ...int) Loader {
	return &loader{
		loaderType: LoaderTypeStruct,
		order:      getOrder(PriorityStruct, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if v == nil {
				return lookup.NullSource("struct")
			}
			if err := k.Load(structs.Provider(v, tag), nil, loadOptions(ctx)...); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load struct").
					WithTextCode("STRUCT_LOAD_FAILED").
					WithMetadata(map[string]any{
						"tag": tag,
					})
			}
			return nil
		},
	}
}

type ErrorFilter func(err error) bool

// DefaultErrorFilter ignores the listed errors, or missing files when none are given.
func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}
		if len(allowedErrors) == 0 {
			return goerrors.Is(err, fs.ErrNotExist) || goerrors.Is(err, syscall.ENOENT) || os.IsNotExist(err)
		}
		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}
		return false
	}
}

// OptionalLoader wraps l so that errors accepted by the filter (missing files by
// default) are ignored.
func OptionalLoader(l Loader, filters ...ErrorFilter) Loader {
	ignore := DefaultErrorFilter()
	if len(filters) > 0 && filters[0] != nil {
		ignore = filters[0]
	}
	return &loader{
		loaderType: l.Type(),
		order:      l.Priority(),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := l.Load(ctx, k); err != nil && !ignore(err) {
				return err
			}
			return nil
		},
	}
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}

type options struct {
	delimiter string
	timeout   time.Duration
	logger    logger.Logger
	merge     func(src, dest map[string]any) error
	solvers   []Solver
}

// Option configures Load.
type Option func(*options)

// WithDelimiter sets the koanf key path delimiter (default ".").
func WithDelimiter(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delimiter = delim
		}
	}
}

// WithTimeout bounds the whole Load call.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger used to trace loaders.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSkipEmpty keeps later loaders from replacing values with nil, empty
// strings or empty lists. See MergeSkipEmpty.
func WithSkipEmpty() Option {
	return WithMergeFunc(MergeSkipEmpty)
}

// WithMergeFunc replaces koanf's default merge for every loader.
func WithMergeFunc(fn func(src, dest map[string]any) error) Option {
	return func(o *options) {
		o.merge = fn
	}
}

// WithSolvers registers solvers that run, in order, once all loaders are done.
func WithSolvers(solvers ...Solver) Option {
	return func(o *options) {
		for _, s := range solvers {
			if s != nil {
				o.solvers = append(o.solvers, s)
			}
		}
	}
}

// Load runs loaders in ascending priority into a single koanf instance and
// exposes it as a lookup.Source. Later loaders override earlier keys.
func Load(ctx context.Context, loaders []Loader, opts ...Option) (lookup.Source, error) {
	k, err := LoadKoanf(ctx, loaders, opts...)
	if err != nil {
		return nil, err
	}
	return Koanf(k), nil
}

// LoadKoanf is Load returning the koanf instance itself.
func LoadKoanf(ctx context.Context, loaders []Loader, opts ...Option) (*koanf.Koanf, error) {
	o := options{
		delimiter: DefaultDelimiter,
		timeout:   DefaultLoadTimeout,
		logger:    logger.NewDefaultLogger("sources"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	ctx = withMerge(ctx, o.merge)

	ordered := make([]Loader, 0, len(loaders))
	for _, l := range loaders {
		if l != nil {
			ordered = append(ordered, l)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	k := koanf.New(o.delimiter)
	for i, l := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "load cancelled").
				WithTextCode("LOAD_CANCELLED").
				WithMetadata(map[string]any{
					"loader_index":  i,
					"total_loaders": len(ordered),
				})
		}
		o.logger.Debug("loading %s source (priority %d)", l.Type(), l.Priority())
		if err := l.Load(ctx, k); err != nil {
			o.logger.Error("%s source failed: %v", l.Type(), err)
			return nil, err
		}
	}

	for _, s := range o.solvers {
		if err := s.Solve(k); err != nil {
			o.logger.Error("solver failed: %v", err)
			return nil, err
		}
	}
	return k, nil
}
