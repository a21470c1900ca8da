// Package server exposes report generation over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe, no authentication
//	GET  /variants           configured variants and their layouts
//	POST /reports/{variant}  multipart upload of shift reports
//
// The report endpoint takes one or more "files" parts and the optional form
// values week, year, layout (repeatable) and format=html. A single output is
// returned as is; several outputs are bundled in a zip archive.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tsawler/debrief/auth"
	"github.com/tsawler/debrief/config"
)

// ErrNoUsers is returned by New when no users are configured and anonymous
// access was not allowed.
var ErrNoUsers = errors.New("no users configured (set allow_anonymous or pass --insecure to serve without authentication)")

// Server is the HTTP front end.
type Server struct {
	cfg    *config.Config
	creds  *auth.Credentials
	log    *zap.Logger
	router chi.Router

	// now is the clock handed to pipelines; tests replace it.
	now func() time.Time
}

// New builds a server from cfg. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	creds, err := auth.NewCredentials(cfg.Users)
	if err != nil {
		return nil, err
	}
	if creds.Empty() && !cfg.AllowAnonymous {
		return nil, ErrNoUsers
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:   cfg,
		creds: creds,
		log:   log,
		now:   time.Now,
	}
	if creds.Empty() {
		log.Warn("anonymous access allowed, report endpoints are open")
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if !s.creds.Empty() {
			r.Use(auth.BasicAuth(s.creds, s.cfg.Realm))
		}
		r.Get("/variants", s.handleVariants)
		r.Post("/reports/{variant}", s.handleReport)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Listen))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc
	return nil
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
