package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/internal/config"
	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

// MaxModelSize bounds the body of a compile request.
const MaxModelSize = 1 << 20

// CompileFunc compiles a validated model file.
type CompileFunc func(ctx context.Context, file *config.ModelFile) (*galvani.Result, error)

// CompileResponse is returned by POST /compile.
type CompileResponse struct {
	Model        string             `json:"model"`
	Size         int                `json:"size"`
	Differential int                `json:"differential"`
	Changed      bool               `json:"changed"`
	Layout       *discretise.Layout `json:"layout"`
}

// Server serves compiled layouts over HTTP.
type Server struct {
	Compile CompileFunc
	Store   ports.LayoutStore
	Metrics http.Handler
	Logger  *slog.Logger
	Limiter *rate.Limiter
}

// Option configures the handler returned by NewHandler.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithCompileRateLimit bounds POST /compile to limit requests per second
// with bursts of burst. Excess requests get 429.
func WithCompileRateLimit(limit rate.Limit, burst int) Option {
	return func(s *Server) {
		s.Limiter = rate.NewLimiter(limit, burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// NewHandler creates the HTTP handler. Layout routes read from store, which
// should be the same store the compile function saves into.
func NewHandler(compile CompileFunc, store ports.LayoutStore, opts ...Option) http.Handler {
	server := &Server{
		Compile: compile,
		Store:   store,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.With(server.limit).Post("/compile", server.PostCompile)
	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", server.ListLayouts)
		r.Get("/{model}", server.GetLayout)
		r.Delete("/{model}", server.DeleteLayout)
	})
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}
	return enableCORS(r)
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Limiter != nil && !s.Limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, r, http.StatusTooManyRequests, errors.New("compile rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostCompile handles POST /compile. The body is a model file, read as JSON
// when the content type says so and as YAML otherwise.
func (s *Server) PostCompile(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxModelSize))
	if err != nil {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, err)
		return
	}

	format := config.FormatYAML
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		format = config.FormatJSON
	}
	file, err := config.Parse(data, format)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid model file: %w", err))
		return
	}
	if strings.TrimSpace(file.Name) == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("model name is required"))
		return
	}
	if err := file.Validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := s.Compile(r.Context(), file)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		s.writeError(w, r, status, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, CompileResponse{
		Model:        res.Model.Name,
		Size:         res.System.Len(),
		Differential: res.System.Differential(),
		Changed:      res.Changed,
		Layout:       res.System.Layout,
	})
}

// ListLayouts handles GET /layouts.
func (s *Server) ListLayouts(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	slices.Sort(names)
	s.writeJSON(w, r, http.StatusOK, map[string][]string{"models": names})
}

// GetLayout handles GET /layouts/{model}.
func (s *Server) GetLayout(w http.ResponseWriter, r *http.Request) {
	layout, err := s.Store.Load(r.Context(), chi.URLParam(r, "model"))
	if err != nil {
		s.writeError(w, r, storeStatus(err), err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, layout)
}

// DeleteLayout handles DELETE /layouts/{model}.
func (s *Server) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "model")); err != nil {
		s.writeError(w, r, storeStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"name":    "galvani",
		"version": strings.TrimSpace(galvani.Version),
	})
}

func storeStatus(err error) int {
	if errors.Is(err, ports.ErrLayoutNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.Logger.Log(r.Context(), level, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
