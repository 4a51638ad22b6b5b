package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/fluent/pkg/localization"
	"github.com/dmitrymomot/fluent/pkg/logger"
)

// argPrefix marks query parameters passed as message arguments: ?arg.count=3
const argPrefix = "arg."

// maxIDs bounds the number of messages per request.
const maxIDs = 100

type handlerConfig struct {
	logger       *slog.Logger
	checks       map[string]Check
	checkTimeout time.Duration
	sources      []localization.Source
}

// Option configures NewHandler.
type Option func(*handlerConfig)

// WithHandlerLogger sets the logger for request handling.
func WithHandlerLogger(l *slog.Logger) Option {
	return func(c *handlerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCheck registers a named readiness check.
func WithCheck(name string, check Check) Option {
	return func(c *handlerConfig) {
		c.checks[name] = check
	}
}

// WithCheckTimeout bounds all readiness checks. Default: 5s.
func WithCheckTimeout(d time.Duration) Option {
	return func(c *handlerConfig) {
		if d > 0 {
			c.checkTimeout = d
		}
	}
}

// WithLocaleSources replaces the request locale sources.
func WithLocaleSources(sources ...localization.Source) Option {
	return func(c *handlerConfig) {
		c.sources = sources
	}
}

// NewHandler returns the HTTP API:
//
//	GET /healthz                 liveness
//	GET /readyz                  readiness checks
//	GET /v1/messages?id=...      formatted messages, negotiated per request
//
// Message locales come from ?locale=, the "lang" cookie or Accept-Language.
func NewHandler(l10n *localization.Localization, opts ...Option) http.Handler {
	cfg := &handlerConfig{
		logger:       logger.NewNope(),
		checks:       make(map[string]Check),
		checkTimeout: defaultCheckTimeout,
		sources: []localization.Source{
			localization.FromQuery("locale"),
			localization.FromCookie("lang"),
			localization.FromAcceptLanguage(),
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", liveness)
	r.Get("/readyz", readiness(cfg.checks, cfg.checkTimeout, cfg.logger))

	r.Route("/v1", func(r chi.Router) {
		r.Use(localization.Middleware(l10n, localization.WithSources(cfg.sources...)))
		r.Get("/messages", messages(cfg.logger))
	})

	return r
}

type messagesResponse struct {
	Locales  []string  `json:"locales"`
	Messages []message `json:"messages"`
}

type message struct {
	ID         string            `json:"id"`
	Value      *string           `json:"value"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Locale     string            `json:"locale,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func messages(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l10n, ok := localization.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "localization is not configured"})
			return
		}

		query := r.URL.Query()
		ids := query["id"]
		switch {
		case len(ids) == 0:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "at least one id is required"})
			return
		case len(ids) > maxIDs:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "too many ids, max " + strconv.Itoa(maxIDs)})
			return
		}

		args := queryArgs(query)
		keys := make([]localization.Key, len(ids))
		for i, id := range ids {
			keys[i] = localization.Key{ID: id, Args: args}
		}

		translations := l10n.FormatEntities(r.Context(), keys...)
		resp := messagesResponse{Locales: l10n.Locales(), Messages: make([]message, len(translations))}
		for i, tr := range translations {
			m := message{ID: tr.ID, Attributes: tr.Attributes, Locale: tr.Locale}
			if tr.HasValue {
				m.Value = &tr.Value
			}
			for _, err := range tr.Errors {
				m.Errors = append(m.Errors, err.Error())
			}
			resp.Messages[i] = m
		}

		log.DebugContext(r.Context(), "messages formatted", slog.Int("count", len(ids)))
		writeJSON(w, http.StatusOK, resp)
	}
}

// queryArgs collects "arg."-prefixed parameters. Numeric values become
// numbers so they take part in plural selection.
func queryArgs(query map[string][]string) map[string]any {
	var args map[string]any
	for key, values := range query {
		name, ok := strings.CutPrefix(key, argPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		if args == nil {
			args = make(map[string]any)
		}
		v := values[0]
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			args[name] = n
			continue
		}
		args[name] = v
	}
	return args
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
