package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/input"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is the subset of *mosaic.Service served over HTTP.
type Service interface {
	Avatar(ctx context.Context, identifier string, format domain.Format) (*mosaic.AvatarResult, error)
	ETag(identifier string, format domain.Format) string
	Define(ctx context.Context, word string) (*dictionary.Definition, error)
	Determinant(ctx context.Context, source string) (string, error)
}

// Server holds the HTTP handlers.
type Server struct {
	Service   Service
	logger    *slog.Logger
	sanitizer input.Sanitizer
	gatherer  prometheus.Gatherer
	index     []byte
	maxAge    time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize limits identifiers and words to n bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.sanitizer = input.New(n)
	}
}

// WithGatherer serves g on /metrics. Without it /metrics is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCacheMaxAge sets the Cache-Control max-age of avatar responses.
func WithCacheMaxAge(d time.Duration) Option {
	return func(s *Server) {
		s.maxAge = d
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) (http.Handler, error) {
	s := &Server{
		Service: svc,
		logger:  logging.NewNop(),
		maxAge:  24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}

	index, err := renderIndex()
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	s.index = index

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := newRequestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(escapedRouting)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.GetIndex)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec())
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(limitBody(int64(s.sanitizer.Limit() + bodyOverhead)))
		r.Use(validator.Middleware)
		r.Get("/random-avatar/{id}", s.GetRandomAvatar)
		r.Get("/define/{word}", s.GetDefinition)
		r.Post("/matrix-determinant", s.PostMatrixDeterminant)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bodyOverhead leaves room for the JSON envelope around a limited field.
const bodyOverhead = 256

// limitBody caps request bodies at n bytes.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > n {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// escapedRouting makes chi match on the escaped path so every path
// parameter is unescaped exactly once, by the parameter binder.
func escapedRouting(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.RawPath = r.URL.EscapedPath()
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// pathParam binds a simple-style path parameter the way generated servers do.
func pathParam(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return value, nil
}

// GetIndex serves the rendered landing page.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.index)
}

// GetRandomAvatar handles GET /random-avatar/{id}.
func (s *Server) GetRandomAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if id, err = s.sanitizer.Identifier(id); err != nil {
		http.Error(w, fmt.Sprintf("Invalid identifier: %v", err), http.StatusBadRequest)
		return
	}

	var formatParam *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &formatParam); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter format: %v", err), http.StatusBadRequest)
		return
	}
	var format domain.Format
	if formatParam != nil {
		if format, err = domain.ParseFormat(*formatParam); err != nil {
			http.Error(w, fmt.Sprintf("Unknown image format %q", *formatParam), http.StatusBadRequest)
			return
		}
	}

	cacheControl := fmt.Sprintf("public, max-age=%d", int(s.maxAge.Seconds()))
	if match := r.Header.Get("If-None-Match"); match != "" {
		if etag := s.Service.ETag(id, format); etag != "" && etagMatches(match, etag) {
			w.Header().Set("ETag", etag)
			w.Header().Set("Cache-Control", cacheControl)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	res, err := s.Service.Avatar(r.Context(), id, format)
	if err != nil {
		s.avatarError(w, err)
		return
	}

	w.Header().Set("ETag", res.ETag)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Type", res.ContentType())
	if _, err := w.Write(res.Data); err != nil {
		s.logger.Debug("avatar write failed", "seed", res.Seed, "error", err)
	}
}

func (s *Server) avatarError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownFormat):
		http.Error(w, "Unknown image format", http.StatusBadRequest)
	case errors.Is(err, domain.ErrEncoding):
		s.logger.Error("avatar encoding failed", "error", err)
		http.Error(w, "Image encoding error", http.StatusInternalServerError)
	case errors.Is(err, context.Canceled):
		// Client went away.
	default:
		s.logger.Error("avatar construction failed", "error", err)
		http.Error(w, "Image construction error", http.StatusInternalServerError)
	}
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// GetDefinition handles GET /define/{word}.
func (s *Server) GetDefinition(w http.ResponseWriter, r *http.Request) {
	word, err := pathParam(r, "word")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if word, err = s.sanitizer.Word(word); err != nil {
		http.Error(w, fmt.Sprintf("Invalid word: %v", err), http.StatusBadRequest)
		return
	}

	def, err := s.Service.Define(r.Context(), word)
	if err != nil {
		kind := dictionary.Kind(err)
		if errors.Is(err, dictionary.ErrNoAPIKey) {
			http.Error(w, kind, http.StatusServiceUnavailable)
			return
		}
		s.logger.Warn("definition failed", "word", word, "error", err)
		http.Error(w, kind, http.StatusInternalServerError)
		return
	}

	body, err := renderDefinition(def)
	if err != nil {
		s.logger.Error("definition render failed", "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// DeterminantRequest is the POST /matrix-determinant body.
type DeterminantRequest struct {
	Value string `json:"value"`
}

// DeterminantResponse carries either Value or ErrorReason.
type DeterminantResponse struct {
	Value       *string `json:"value,omitempty"`
	ErrorReason *string `json:"error_reason,omitempty"`
}

// PostMatrixDeterminant handles POST /matrix-determinant. Calculation
// failures are reported in the body with status 200.
func (s *Server) PostMatrixDeterminant(w http.ResponseWriter, r *http.Request) {
	var body DeterminantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostMatrixDeterminant: Invalid request body", "error", err)
		return
	}
	source, err := s.sanitizer.Sanitize(body.Value)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid matrix: %v", err), http.StatusBadRequest)
		return
	}

	var resp DeterminantResponse
	if value, err := s.Service.Determinant(r.Context(), source); err != nil {
		reason := err.Error()
		resp.ErrorReason = &reason
	} else {
		resp.Value = &value
	}
	writeJSON(w, s.logger, resp)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, s.logger, map[string]string{
		"app":         "mosaic-http",
		"version":     strings.TrimSpace(mosaic.Version),
		"api_version": apiVersion,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
