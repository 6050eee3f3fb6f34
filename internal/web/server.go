// Package web serves the glossary client in a browser: an HTML page, a JSON
// API over the same state, intent endpoints, and a websocket that pushes
// the state after every change.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/alfredjeanlab/glossary/internal/metrics"
	"github.com/alfredjeanlab/glossary/internal/view"
)

// Server exposes a view.Coordinator over HTTP.
type Server struct {
	coord    *view.Coordinator
	fetcher  view.Fetcher
	metrics  *metrics.Collector
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a server. fetcher serves /api/term/{name}; m may be nil.
func New(c *view.Coordinator, fetcher view.Fetcher, m *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		coord:   c,
		fetcher: fetcher,
		metrics: m,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handlePage)
	r.Get("/graph.svg", s.handleGraphSVG)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Get("/terms", s.handleListTerms)
		r.Get("/term/{name}", s.handleGetTerm)
		r.Get("/graph", s.handleGetGraph)
		r.Get("/state", s.handleGetState)
	})

	r.Route("/ui", func(r chi.Router) {
		r.Post("/select/{name}", s.handleSelect)
		r.Get("/select/{name}", s.handleSelect) // graph node links
		r.Post("/list", s.handleShowList)
		r.Post("/add", s.handleAdd)
		r.Post("/edit", s.handleEdit)
		r.Post("/cancel", s.handleCancel)
		r.Post("/save", s.handleSave)
		r.Post("/delete", s.handleDelete)
		r.Post("/draft", s.handleDraftFields)
		r.Post("/draft/links", s.handleAddLink)
		r.Put("/draft/links/{id}", s.handleUpdateLink)
		r.Delete("/draft/links/{id}", s.handleRemoveLink)
		r.Post("/draft/links/{id}/remove", s.handleRemoveLink)
		r.Post("/draft/relations", s.handleAddRelation)
		r.Put("/draft/relations/{id}", s.handleUpdateRelation)
		r.Delete("/draft/relations/{id}", s.handleRemoveRelation)
		r.Post("/draft/relations/{id}/remove", s.handleRemoveRelation)
	})
	return r
}

// observe records request metrics and logs each request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(r.Method, route, strconv.Itoa(status), time.Since(start))
		s.logger.Debug("http request", "method", r.Method, "route", route, "status", status,
			"duration", time.Since(start), "request_id", chimiddleware.GetReqID(r.Context()))
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathParam returns the decoded value of a route parameter. chi matches
// against the escaped path when the request carries one, so a name such as
// "TCP/IP" arrives still encoded.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
