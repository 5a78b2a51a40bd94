// Package server exposes the rectification search over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"rectification-lab/internal/config"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/observability"
	"rectification-lab/internal/orchestrator"
	"rectification-lab/internal/reporting"
)

// Searcher runs a search with an optional per-attempt observer.
type Searcher interface {
	Run(ctx context.Context, req domain.SearchRequest, observe func(orchestrator.AttemptTrace)) (*orchestrator.SearchResult, error)
}

// Options configures a Server. Searcher is required.
type Options struct {
	Config    config.ServerConfig
	Searcher  Searcher
	Generator *reporting.Generator // default: reporting.NewGenerator()
	Logger    *zap.Logger
}

// Server represents the HTTP server.
type Server struct {
	server    *http.Server
	router    *chi.Mux
	searcher  Searcher
	generator *reporting.Generator
	log       *zap.Logger
}

// New creates a new HTTP server.
func New(opts Options) *Server {
	if opts.Generator == nil {
		opts.Generator = reporting.NewGenerator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	s := &Server{
		searcher:  opts.Searcher,
		generator: opts.Generator,
		log:       opts.Logger.Named("server"),
	}

	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/v1", func(r chi.Router) {
			r.With(middleware.Timeout(cfg.RequestTimeout)).Post("/rectify", s.handleRectify)
			r.Get("/ws/rectify", s.handleStream)
		})
	})

	router.Handle("/metrics", observability.Handler())

	s.router = router
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	observability.RecordHTTPRequest("health", http.StatusOK)
	w.Write([]byte("OK"))
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleRectify(w http.ResponseWriter, r *http.Request) {
	var body RectifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, "rectify", http.StatusBadRequest, "invalid_input", "decode body: "+err.Error())
		return
	}
	req, err := body.ToDomain()
	if err != nil {
		s.writeSearchError(w, "rectify", err)
		return
	}

	result, err := s.searcher.Run(r.Context(), req, nil)
	if err != nil {
		s.writeSearchError(w, "rectify", err)
		return
	}

	observability.RecordHTTPRequest("rectify", http.StatusOK)
	writeJSON(w, http.StatusOK, s.generator.Generate(result, nil))
}

// classify maps a search error to an HTTP status and error kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, ephemeris.ErrAstronomical):
		return http.StatusUnprocessableEntity, "astronomical"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "timeout"
	case errors.Is(err, orchestrator.ErrAbandoned), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "abandoned"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeSearchError(w http.ResponseWriter, route string, err error) {
	code, kind := classify(err)
	if code >= 500 {
		s.log.Error("search failed", zap.String("route", route), zap.Error(err))
	}
	s.writeError(w, route, code, kind, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, route string, code int, kind, msg string) {
	observability.RecordHTTPRequest(route, code)
	writeJSON(w, code, ErrorResponse{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
