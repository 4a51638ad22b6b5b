package localization

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrymomot/fluent/pkg/logger"
)

type contextKey struct{}

// Source extracts the requested locales from a request, most preferred first.
// It returns false when the request carries no preference.
type Source func(r *http.Request) ([]string, bool)

// FromCookie reads a single locale from the named cookie.
func FromCookie(name string) Source {
	return func(r *http.Request) ([]string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return nil, false
		}
		return []string{c.Value}, true
	}
}

// FromQuery reads a comma separated locale list from the named query parameter.
func FromQuery(name string) Source {
	return func(r *http.Request) ([]string, bool) {
		v := r.URL.Query().Get(name)
		if v == "" {
			return nil, false
		}
		var out []string
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, len(out) > 0
	}
}

// FromAcceptLanguage reads the Accept-Language header.
func FromAcceptLanguage() Source {
	return func(r *http.Request) ([]string, bool) {
		tags := ParseAcceptLanguage(r.Header.Get("Accept-Language"))
		return tags, len(tags) > 0
	}
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	sources []Source
}

// WithSources replaces the default source chain. The first source that
// returns a preference wins.
func WithSources(sources ...Source) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.sources = sources
	}
}

// Middleware forks l for each request's language preference and stores the
// fork in the request context. The resolved locale is also attached for
// logging and echoed in the Content-Language header.
//
// Default sources: cookie "lang", then Accept-Language.
func Middleware(l *Localization, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		sources: []Source{FromCookie("lang"), FromAcceptLanguage()},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var requested []string
			for _, src := range cfg.sources {
				if tags, ok := src(r); ok {
					requested = tags
					break
				}
			}

			fork := l.Fork(requested...)
			locale := fork.Locales()[0]

			ctx := WithContext(r.Context(), fork)
			ctx = logger.WithLocale(ctx, locale)
			w.Header().Set("Content-Language", locale)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *Localization) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the Localization stored by Middleware or WithContext.
func FromContext(ctx context.Context) (*Localization, bool) {
	l, ok := ctx.Value(contextKey{}).(*Localization)
	return l, ok
}
