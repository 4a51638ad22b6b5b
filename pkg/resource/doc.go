// Package resource loads FTL sources for a localization chain.
//
// A [Fetcher] returns the source of one resource for one locale. Resources
// are addressed as "{locale}/{resourceID}" in every backend:
//
//	en-US/main.ftl
//	en-US/errors.ftl
//	pl/main.ftl
//
// # Backends
//
// [NewFS] reads from any fs.FS (os.DirFS, embed.FS):
//
//	//go:embed locales
//	var locales embed.FS
//
//	sub, _ := fs.Sub(locales, "locales")
//	f := resource.NewFS(sub)
//
// [NewS3] reads objects from an S3-compatible bucket:
//
//	f, err := resource.NewS3(resource.S3Config{
//		Bucket:    "translations",
//		Endpoint:  "http://localhost:9000",
//		PathStyle: true,
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//
// [FetcherFunc] adapts a plain function.
//
// # Caching
//
// [NewCached] puts a [Store] in front of a slow fetcher. Concurrent misses
// for the same resource are collapsed into one upstream request:
//
//	client, _ := resource.OpenRedis(ctx, os.Getenv("FLUENT_REDIS_URL"))
//	f = resource.NewCached(f, resource.NewRedisStore(client),
//		resource.WithTTL(10*time.Minute),
//	)
//
// [NewMemoryStore] keeps sources in process with TTL expiration and LRU
// eviction; [NewRedisStore] shares them between processes.
//
// # Errors
//
// Every backend maps a missing resource to [ErrNotFound] and refused access
// to [ErrAccessDenied]. Resource ids and locales that would escape the
// locale directory fail with [ErrInvalidPath].
package resource
