// Package api exposes the HTTP interface for the link gateway.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dmarrero/linkveil/internal/config"
	"github.com/dmarrero/linkveil/internal/imageurl"
	"github.com/dmarrero/linkveil/internal/link"
	"github.com/dmarrero/linkveil/internal/meta"
	"github.com/dmarrero/linkveil/internal/negotiate"
	"github.com/dmarrero/linkveil/internal/render"
	"github.com/dmarrero/linkveil/internal/telemetry"
	"github.com/dmarrero/linkveil/internal/upstream"
)

// PostFetcher is the upstream content API as seen by the post handler.
type PostFetcher interface {
	PostByPath(ctx context.Context, path string) (upstream.Post, error)
}

// Server wires HTTP handlers to the store, negotiator, and upstream client.
type Server struct {
	router     chi.Router
	store      link.Store
	negotiator *negotiate.Negotiator
	synth      *meta.Synthesizer
	resolver   imageurl.Resolver
	posts      PostFetcher
	renderer   *render.Renderer
	logger     *zap.Logger
	cfg        config.Config
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	store link.Store,
	negotiator *negotiate.Negotiator,
	synth *meta.Synthesizer,
	resolver imageurl.Resolver,
	posts PostFetcher,
	logger *zap.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		store:      store,
		negotiator: negotiator,
		synth:      synth,
		resolver:   resolver,
		posts:      posts,
		renderer:   render.New(),
		logger:     logger,
		cfg:        cfg,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(telemetry.Middleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/shorten", s.createLink)
		r.Get("/shorten", s.listLinks)
		r.Get("/url/{code}", s.getLink)
	})

	r.Get("/img-proxy/*", s.imageProxy)
	r.Get("/{code}", s.resolveCode)
	r.NotFound(s.servePost)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// baseURL returns the configured base URL, or derives scheme+host from the
// request when none is configured.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.Server.BaseURL != "" {
		return strings.TrimSuffix(s.cfg.Server.BaseURL, "/")
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}
