// Package server serves the interactive viewer and the network JSON over
// HTTP.
//
// The server holds one input graph in memory and rebuilds it per request,
// so query parameters can change the build without restarting:
//
//	GET /                        viewer page (html)
//	GET /api/network             network JSON
//	GET /render/{format}         any pipeline format (svg, dot, png, pdf, ...)
//	GET /healthz                 liveness and version
//
// Accepted query parameters: min_weight, edges_proportion, policy,
// coloring, all_edges. Rendered artifacts are cached by the runner.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/occugraph/pkg/buildinfo"
	"github.com/matzehuels/occugraph/pkg/errors"
	"github.com/matzehuels/occugraph/pkg/observability"
	"github.com/matzehuels/occugraph/pkg/pipeline"
)

// Timeouts of the underlying http.Server.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 60 * time.Second
	IdleTimeout     = 120 * time.Second
	RequestTimeout  = 45 * time.Second
	ShutdownTimeout = 5 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatHTML: "text/html; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// Server builds networks from one input graph on demand.
type Server struct {
	runner   *pipeline.Runner
	source   string
	input    []byte
	defaults pipeline.Options
	logger   *log.Logger
}

// New creates a server for the adjacency JSON in input. defaults holds the
// build options used when a request sets no query parameters.
func New(runner *pipeline.Runner, source string, input []byte, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		runner:   runner,
		source:   source,
		input:    input,
		defaults: defaults,
		logger:   logger,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/", s.handleFormat(pipeline.FormatHTML))
	r.Get("/api/network", s.handleFormat(pipeline.FormatJSON))
	r.Get("/render/{format}", s.handleRender)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving viewer", "addr", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down viewer")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.handleFormat(chi.URLParam(r, "format"))(w, r)
}

func (s *Server) handleFormat(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pipeline.ValidateFormat(format); err != nil {
			s.writeError(w, err)
			return
		}
		opts, err := s.options(r.URL.Query())
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Formats = []string{format}

		result, err := s.runner.ExecuteBytes(r.Context(), s.source, s.input, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Build-ID", result.BuildID)
		if result.CacheHit {
			w.Header().Set("X-Cache", "hit")
		} else {
			w.Header().Set("X-Cache", "miss")
		}
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// options applies query parameters on top of the server defaults.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.defaults.Clone()

	parseFloat := func(key string, dst *float64) error {
		v := q.Get(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not a number", key, v)
		}
		*dst = f
		return nil
	}
	if err := parseFloat("min_weight", &opts.MinWeight); err != nil {
		return opts, err
	}
	if q.Has("edges_proportion") {
		if err := parseFloat("edges_proportion", &opts.EdgesProportion); err != nil {
			return opts, err
		}
		if err := errors.ValidateProportion(opts.EdgesProportion); err != nil {
			return opts, err
		}
	}
	if v := q.Get("policy"); v != "" {
		opts.Policy = v
	}
	if v := q.Get("coloring"); v != "" {
		opts.Coloring = v
	}
	if v := q.Get("all_edges"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "all_edges: %q is not a boolean", v)
		}
		opts.AllEdges = b
	}
	return opts, nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput,
		errors.ErrCodePrecondition:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	body := map[string]string{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests reports every request to the server hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
	})
}
