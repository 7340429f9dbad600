// Copyright Contributors to the KubeTask project

// Package dashboard implements the read-only status surface (C7a): a
// small HTTP API reporting the phase, message, and conditions of
// DocsRuns and CodeRuns in a namespace. It never creates, updates, or
// deletes a run; submission stays the Request Gateway's job.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Options configures the dashboard HTTP server.
type Options struct {
	// Address is the address the server listens on (e.g., ":8081").
	Address string
}

// Server is the status dashboard's HTTP server.
type Server struct {
	opts       Options
	httpServer *http.Server
	client     client.Client
}

func New(opts Options, c client.Client) *Server {
	return &Server{opts: opts, client: c}
}

func (s *Server) Run(ctx context.Context) error {
	router := s.routes()

	s.httpServer = &http.Server{
		Addr:              s.opts.Address,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", s.health)

	r.Route("/api/v1/namespaces/{namespace}/runs", func(r chi.Router) {
		h := &runHandler{client: s.client}
		r.Get("/", h.List)
		r.Get("/{name}", h.Get)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
