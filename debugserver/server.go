/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package debugserver provides an HTTP server for inspecting a running process:
// pprof profiles, Prometheus metrics, rate limiter windows and integrity checks.
// It is meant for non-production builds only.
package debugserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nautilus-one/synckit/integrity"
	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/ratelimit"
	"github.com/nautilus-one/synckit/service"
)

// IntegrityInspector is the read-only part of integrity.Checker exposed by the server.
type IntegrityInspector interface {
	Stats() integrity.Stats
	PendingChecks() []integrity.Check
	FailedChecks() []integrity.Check
	Get(id string) (integrity.Check, bool)
}

var _ IntegrityInspector = (*integrity.Checker)(nil)

// Opts contains optional parameters for constructing Server.
// Routes of nil components are not registered.
type Opts struct {
	Limiter  ratelimit.StatsProvider
	Checker  IntegrityInspector
	Gatherer prometheus.Gatherer
}

// Server is the debug HTTP server. It implements service.Unit.
type Server struct {
	URL        string
	HTTPServer *http.Server
	logger     log.FieldLogger
	done       chan struct{}
}

var _ service.Unit = (*Server)(nil)

// New creates a new debug server.
func New(cfg *Config, logger log.FieldLogger, opts Opts) *Server {
	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewRouter(logger, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{
		URL:        "http://" + cfg.Address,
		HTTPServer: httpServer,
		logger:     logger.With(log.String("address", cfg.Address)),
		done:       make(chan struct{}),
	}
}

// NewRouter returns the handler serving all debug routes.
func NewRouter(logger log.FieldLogger, opts Opts) chi.Router {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID, requestLogger(logger), chimiddleware.Recoverer)
	router.Mount("/debug", chimiddleware.Profiler())
	router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	if opts.Limiter != nil {
		h := &rateLimitHandler{limiter: opts.Limiter, logger: logger}
		router.Get("/debug/ratelimit/{key}", h.getStats)
		router.Post("/debug/ratelimit/reset", h.reset)
	}
	if opts.Checker != nil {
		h := &integrityHandler{checker: opts.Checker, logger: logger}
		router.Get("/debug/integrity/stats", h.getStats)
		router.Get("/debug/integrity/pending", h.listPending)
		router.Get("/debug/integrity/failed", h.listFailed)
		router.Get("/debug/integrity/checks/{id}", h.getCheck)
	}
	return router
}

// Start starts the server and blocks until it is stopped.
func (s *Server) Start(fatalErr chan<- error) {
	defer close(s.done)

	s.logger.Info("starting debug HTTP server...")
	if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("debug HTTP server error", log.Error(err))
		fatalErr <- err
		return
	}
	s.logger.Info("debug HTTP server closed")
}

// Stop closes the server. Debug requests are never waited for.
func (s *Server) Stop(bool) error {
	if err := s.HTTPServer.Close(); err != nil {
		s.logger.Error("debug HTTP server closing error", log.Error(err))
		return err
	}
	<-s.done
	return nil
}

func requestLogger(logger log.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			startedAt := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(rw, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("debug request handled",
				log.String("request_id", chimiddleware.GetReqID(r.Context())),
				log.String("method", r.Method),
				log.String("path", r.URL.Path),
				log.Int("status", ww.Status()),
				log.DurationIn(time.Since(startedAt), time.Millisecond),
			)
		})
	}
}
