package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/fluent/pkg/logger"
)

const (
	defaultCheckTimeout = 5 * time.Second

	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type healthResponse struct {
	Checks map[string]checkResult `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func liveness(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, &healthResponse{Status: statusHealthy})
		return
	}
	_, _ = w.Write([]byte("OK"))
}

// readiness runs every check in parallel under a shared timeout.
func readiness(checks map[string]Check, timeout time.Duration, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := &healthResponse{Status: statusHealthy, Checks: make(map[string]checkResult, len(checks))}
		var mu sync.Mutex

		var g errgroup.Group
		for name, check := range checks {
			g.Go(func() error {
				res := checkResult{Status: statusHealthy}
				if err := check(ctx); err != nil {
					res = checkResult{Status: statusUnhealthy, Error: err.Error()}
					log.WarnContext(ctx, "readiness check failed", slog.String("check", name), logger.Err(err))
				}
				mu.Lock()
				resp.Checks[name] = res
				if res.Status == statusUnhealthy {
					resp.Status = statusUnhealthy
				}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		if resp.Status == statusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			writeJSON(w, status, resp)
			return
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte("OK"))
		} else {
			_, _ = w.Write([]byte("Service Unavailable"))
		}
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
