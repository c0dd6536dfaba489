// Package admin exposes the operational HTTP surface the storefront's
// admin screens call when shipping or discount configuration changes, so
// the next calculation reflects the change immediately instead of waiting
// for TTL expiry. The router carries no auth of its own; the host app
// mounts it behind its admin middleware.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-pricing/obs"
	"github.com/noah-isme/storefront-pricing/shopconfig"
)

// CacheControl is the slice of the configuration cache the admin surface
// operates on.
type CacheControl interface {
	Refresh(ctx context.Context, kind shopconfig.Kind) error
	Clear(ctx context.Context, kind shopconfig.Kind) error
	ClearAll(ctx context.Context) error
}

// Pinger probes the persistent store for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires cache administration to HTTP.
type Handler struct {
	Cache       CacheControl
	Store       Pinger
	Logger      zerolog.Logger
	PingTimeout time.Duration
}

// Routes returns the admin router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(obs.RequestLogger{Logger: h.Logger}.Middleware)
	r.Post("/cache/clear", h.ClearCache)
	r.Post("/cache/refresh", h.RefreshCache)
	r.Get("/health", h.Health)
	return r
}

// ClearCache drops the cached configuration, either one kind (?kind=) or
// every kind.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Cache == nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "config cache unavailable")
		return
	}
	ctx := r.Context()
	raw := strings.TrimSpace(r.URL.Query().Get("kind"))
	if raw == "" {
		if err := h.Cache.ClearAll(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"cleared": "all"}})
		return
	}
	kind, err := shopconfig.ParseKind(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown configuration kind")
		return
	}
	if err := h.Cache.Clear(ctx, kind); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"cleared": string(kind)}})
}

// RefreshCache forces a fetch and overwrite for one kind (?kind=) or every
// kind. A failed refresh reports upstream unavailability; cached values
// stay usable.
func (h *Handler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Cache == nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "config cache unavailable")
		return
	}
	ctx := r.Context()
	raw := strings.TrimSpace(r.URL.Query().Get("kind"))

	kinds := shopconfig.Kinds()
	if raw != "" {
		kind, err := shopconfig.ParseKind(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown configuration kind")
			return
		}
		kinds = []shopconfig.Kind{kind}
	}

	refreshed := make([]string, 0, len(kinds))
	var joined error
	for _, kind := range kinds {
		if err := h.Cache.Refresh(ctx, kind); err != nil {
			joined = errors.Join(joined, err)
			continue
		}
		refreshed = append(refreshed, string(kind))
	}
	if joined != nil {
		h.Logger.Warn().Err(joined).Msg("config refresh failed")
		writeError(w, http.StatusBadGateway, "UPSTREAM", joined.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"refreshed": refreshed}})
}

// Health reports readiness based on the persistent store probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h != nil && h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout())
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			status = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{"store": status})
}

func (h *Handler) pingTimeout() time.Duration {
	if h == nil || h.PingTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.PingTimeout
}
