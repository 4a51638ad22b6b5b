// Package localization formats Fluent messages across a chain of locales.
//
// A Localization owns a list of resource ids, a resource.Fetcher that loads
// them per locale, and the negotiated fallback chain. Each locale gets one
// bundle: a fluent.Context with every resource added in order. Bundles are
// built lazily, fetched concurrently, and shared between forks.
//
// # Usage
//
//	fetcher := resource.NewFS(os.DirFS("locales"))
//
//	l10n, err := localization.New([]string{"main.ftl", "errors.ftl"}, fetcher,
//		localization.WithAvailableLocales("en", "pl", "de"),
//		localization.WithRequestedLocales("pl-PL", "en"),
//		localization.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	greeting := l10n.FormatValue(ctx, "hello", map[string]any{"name": "Anna"})
//
// # Fallback
//
// Keys are resolved against the first bundle. Only keys that are missing
// there or format with errors move on to the next bundle. A key that fails
// in every bundle keeps the earliest partial output and logs a warning;
// FormatValue returns the id when nothing was produced.
//
// # Negotiation
//
// [Negotiate] maps each requested locale to the longest available locale
// that equals it or is a subtag prefix of it ("de-AT" picks "de"), removes
// duplicates and appends the default locale. [Localization.RequestLanguages]
// renegotiates in place; an unchanged chain is a no-op.
//
// # HTTP
//
//	r := chi.NewRouter()
//	r.Use(localization.Middleware(l10n))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//		l, _ := localization.FromContext(r.Context())
//		fmt.Fprint(w, l.FormatValue(r.Context(), "hello", nil))
//	})
package localization
