package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler builds the handler used by both the dashboard and simulator:
// - /api/v1/* for the API
// - /metrics and /healthz
// - / for the web UI
//
// Extra routes may be added to the returned router before serving.
func NewHandler(cfg ServerConfig, api *API, gatherer prometheus.Gatherer) (http.Handler, *mux.Router) {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if api != nil {
		api.AllowAnyOrigin = cfg.DevMode
		api.Register(router.PathPrefix("/api/v1").Subrouter())
	}

	var handler http.Handler = router
	if cfg.AuthEnabled() {
		handler = WithBasicAuth(handler, cfg.AuthUser, cfg.AuthHash)
	}
	if cfg.DevMode {
		handler = WithDevCORS(handler)
	}
	return handler, router
}

// MountUI registers the web UI as the catch-all route. Call it after every
// other route so it does not shadow them.
func MountUI(router *mux.Router, staticDir string) {
	router.PathPrefix("/").Handler(StaticUIHandler(staticDir)).Methods(http.MethodGet, http.MethodHead)
}
