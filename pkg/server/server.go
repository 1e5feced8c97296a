// Package server exposes a waypoint library over HTTP.
//
// The server owns one [library.Library] and one [store.Store]. Every
// request holds the server's lock for the duration of the library call, so
// concurrent clients see a consistent sequence of operations.
//
// # Routes
//
//	GET    /waypoints          the JSON document (ETag, If-None-Match)
//	GET    /waypoints/names    names in entry order
//	GET    /waypoints/{name}   one waypoint
//	POST   /waypoints          add {lat, lon, ele, name, address}
//	PUT    /waypoints/{name}   update {lat, lon, ele, address}
//	DELETE /waypoints/{name}   remove, returns {"removed": n}
//	POST   /save               write the library to the store
//	POST   /restore            reload the library from the store
//	GET    /healthz            liveness
//
// Errors are returned as {"code": ..., "message": ...} with a status
// derived from the error code.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/library"
	"github.com/matzehuels/waypoints/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves one library.
type Server struct {
	mu     sync.Mutex
	lib    *library.Library
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server for lib, persisting through s.
// A nil lib starts empty; a nil logger uses log.Default().
func New(lib *library.Library, s store.Store, logger *log.Logger) *Server {
	if lib == nil {
		lib = library.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{lib: lib, store: s, logger: logger}
	srv.router = srv.routes()
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/waypoints", func(r chi.Router) {
		r.Get("/", s.handleDocument)
		r.Post("/", s.handleAdd)
		r.Get("/names", s.handleNames)
		r.Get("/{name}", s.handleGet)
		r.Put("/{name}", s.handleUpdate)
		r.Delete("/{name}", s.handleRemove)
	})
	r.Post("/save", s.handleSave)
	r.Post("/restore", s.handleRestore)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeIO, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}

// logRequests logs each request at debug level, or warn for server errors.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Warn("request", kv...)
			return
		}
		s.logger.Debug("request", kv...)
	})
}

// nameParam returns the unescaped {name} path segment.
func nameParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw, nil
	}
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "waypoint name")
	}
	return name, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// writeError reports err with the status matching its code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDuplicateName:
		return http.StatusConflict
	case errors.ErrCodeParse, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidWaypoint, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
