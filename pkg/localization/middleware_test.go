package localization_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent/pkg/localization"
	"github.com/dmitrymomot/fluent/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	l := newLocalization(t, []string{"main.ftl"}, localization.WithRequestedLocales())

	handler := func(w http.ResponseWriter, r *http.Request) {
		fork, ok := localization.FromContext(r.Context())
		if !ok {
			http.Error(w, "no localization", http.StatusInternalServerError)
			return
		}
		locale, _ := logger.LocaleFromContext(r.Context())
		_, _ = io.WriteString(w, locale+":"+fork.FormatValue(r.Context(), "only-pl", nil))
	}

	tests := []struct {
		name        string
		opts        []localization.MiddlewareOption
		prepare     func(r *http.Request)
		target      string
		wantBody    string
		wantContent string
	}{
		{
			name:        "default locale",
			target:      "/",
			wantBody:    "en:only-pl",
			wantContent: "en",
		},
		{
			name:        "accept language",
			target:      "/",
			prepare:     func(r *http.Request) { r.Header.Set("Accept-Language", "pl-PL,en;q=0.8") },
			wantBody:    "pl:Tylko",
			wantContent: "pl",
		},
		{
			name:   "cookie wins over header",
			target: "/",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
				r.Header.Set("Accept-Language", "pl")
			},
			wantBody:    "en:only-pl",
			wantContent: "en",
		},
		{
			name:        "custom query source",
			opts:        []localization.MiddlewareOption{localization.WithSources(localization.FromQuery("locale"))},
			target:      "/?locale=de,pl",
			wantBody:    "pl:Tylko",
			wantContent: "pl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := chi.NewRouter()
			r.Use(localization.Middleware(l, tt.opts...))
			r.Get("/", handler)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.prepare != nil {
				tt.prepare(req)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantContent, rec.Header().Get("Content-Language"))
		})
	}

	assert.Equal(t, []string{"en"}, l.Locales(), "requests fork the shared localization")
}
