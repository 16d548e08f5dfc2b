// Package srv serves documents on demand and runs exports with websocket
// progress.
package srv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/patrickmn/go-cache"

	"github.com/opd-ai/chordbook/export"
)

// Options tune the server. Zero values select the defaults.
type Options struct {
	// RateLimit is the number of requests one address may make per
	// RateWindow.
	RateLimit  int
	RateWindow time.Duration
	// CacheTTL is how long rendered documents and finished runs are kept.
	CacheTTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.RateLimit <= 0 {
		o.RateLimit = 60
	}
	if o.RateWindow <= 0 {
		o.RateWindow = time.Minute
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 24 * time.Hour
	}
	return o
}

type Server struct {
	router   chi.Router
	exporter *export.Exporter
	logger   *slog.Logger
	docs     *cache.Cache
	runs     *runManager
}

func New(e *export.Exporter, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	s := &Server{
		router:   chi.NewRouter(),
		exporter: e,
		logger:   logger,
		docs:     cache.New(opts.CacheTTL, opts.CacheTTL/4),
		runs:     newRunManager(opts.CacheTTL),
	}
	s.routes(opts)
	return s
}

func (s *Server) routes(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	s.router.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	s.router.Use(httprate.LimitByIP(opts.RateLimit, opts.RateWindow))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/pdf/{kind}", s.handleDocument)
	s.router.Get("/pdf/{kind}/{slug}", s.handleDocument)
	s.router.Post("/exports", s.handleStartExport)
	s.router.Get("/exports/{id}", s.handleExportStatus)
	s.router.Get("/ws/{id}", s.handleWebSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done. With a certificate and
// key file it serves TLS, generating development certificates when the
// files are missing.
func (s *Server) ListenAndServe(ctx context.Context, addr, certFile, keyFile string) error {
	server := newHTTPServer(addr, s)
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "tls", certFile != "")
		if certFile != "" {
			errc <- listenAndServeTLS(server, certFile, keyFile)
			return
		}
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.runs.cancelAll()
	if err := server.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
