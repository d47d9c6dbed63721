// Package api provides the local REST control surface for Proxy Toggle.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rennerdo30/proxy-toggle/internal/logging"
	"github.com/rennerdo30/proxy-toggle/internal/manager"
	"github.com/rennerdo30/proxy-toggle/internal/metrics"
	"github.com/rennerdo30/proxy-toggle/internal/profile"
	"github.com/rennerdo30/proxy-toggle/internal/version"
)

// API serves the REST control surface. It renders only from manager
// snapshots and mutates only through the manager's entry points.
type API struct {
	manager *manager.Manager
	metrics *metrics.Metrics
	token   string
}

// Config holds API configuration.
type Config struct {
	Manager *manager.Manager
	Metrics *metrics.Metrics
	Token   string
}

// New creates a new API server.
func New(cfg Config) *API {
	return &API{
		manager: cfg.Manager,
		metrics: cfg.Metrics,
		token:   cfg.Token,
	}
}

// Handler returns the HTTP handler for the API.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(securityHeadersMiddleware)

	if a.token != "" {
		r.Use(a.authMiddleware)
	}

	r.Get("/api/v1/health", a.handleHealth)
	r.Get("/api/v1/version", a.handleVersion)

	r.Route("/api/v1/profiles", func(r chi.Router) {
		r.Get("/", a.handleGetProfiles)
		r.Post("/{index}/toggle", a.handleToggle)
	})

	r.Post("/api/v1/refresh", a.handleRefresh)
	r.Post("/api/v1/deactivate", a.handleDeactivate)

	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}

	return r
}

func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		// Constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}

// profilesResponse is the snapshot shape every mutating endpoint returns.
type profilesResponse struct {
	Profiles    []profile.Profile `json:"profiles"`
	ActiveIndex int               `json:"active_index"`
	Error       string            `json:"error,omitempty"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (a *API) handleVersion(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, version.GetInfo())
}

func (a *API) handleGetProfiles(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, profilesResponse{
		Profiles:    a.manager.Snapshot(),
		ActiveIndex: a.manager.ActiveIndex(),
	})
}

func (a *API) handleToggle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid profile index", http.StatusBadRequest)
		return
	}

	snapshot, err := a.manager.Activate(index)
	if errors.Is(err, manager.ErrIndexOutOfRange) {
		http.Error(w, "unknown profile index", http.StatusNotFound)
		return
	}
	if err != nil {
		// The flags were rolled back; return the prior snapshot so the
		// caller can snap its toggle back to where it was.
		a.writeJSON(w, http.StatusBadGateway, profilesResponse{
			Profiles:    snapshot,
			ActiveIndex: a.manager.ActiveIndex(),
			Error:       err.Error(),
		})
		return
	}

	a.writeJSON(w, http.StatusOK, profilesResponse{
		Profiles:    snapshot,
		ActiveIndex: a.manager.ActiveIndex(),
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot := a.manager.Refresh()
	a.writeJSON(w, http.StatusOK, profilesResponse{
		Profiles:    snapshot,
		ActiveIndex: a.manager.ActiveIndex(),
	})
}

func (a *API) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.manager.Deactivate()
	if err != nil {
		a.writeJSON(w, http.StatusBadGateway, profilesResponse{
			Profiles:    snapshot,
			ActiveIndex: a.manager.ActiveIndex(),
			Error:       err.Error(),
		})
		return
	}

	a.writeJSON(w, http.StatusOK, profilesResponse{
		Profiles:    snapshot,
		ActiveIndex: a.manager.ActiveIndex(),
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WithComponent("api").Error("failed to encode response", "error", err)
	}
}
