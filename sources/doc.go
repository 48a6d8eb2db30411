// Package sources adapts concrete containers to lookup.Source.
//
// In-memory containers:
//
//	sources.Map(map[string]string{"id": "14"})
//	sources.Grouped(map[string][]string{"tag": {"a", "b"}}) // "tag" is ambiguous
//	sources.Values(r.URL.Query())
//	sources.Header(r.Header)
//	sources.Element(node) // etree element, descendants by local tag name
//
// Layered configuration is loaded into a single koanf instance. Loaders run in
// ascending priority (defaults, struct, file, env, flags) and later ones override
// earlier keys:
//
//	src, err := sources.Load(ctx, []sources.Loader{
//		sources.MapLoader(defaults),
//		sources.OptionalLoader(sources.FileLoader("config.yaml")),
//		sources.EnvLoader(sources.DefaultEnvPrefix, sources.DefaultEnvDelimiter),
//		sources.FlagsLoader(flags),
//	})
//	port, err := lookup.GetOr(src, "server.port", 8080)
//
// Every adapter reports lookup.ErrNullSource when handed a nil container.
package sources
