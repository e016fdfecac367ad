// Package httpapi exposes the query engine as a read-only JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kamusis/pixdex/internal/logger"
)

// Searcher is the query surface served over HTTP.
type Searcher interface {
	Search(term string, limit int) []string
	SearchColor(ctx context.Context, category, color string) ([]string, error)
}

// Options configures the server.
type Options struct {
	Addr string
	// DefaultCap applies to /v1/search when cap is omitted.
	DefaultCap int
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

// Server is a thin wrapper over chi + stdlib http.Server.
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *http.Server
}

// NewServer builds the router for q.
func NewServer(q Searcher, opts Options) *Server {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	m := chi.NewRouter()
	m.Use(
		chimw.RealIP,
		requestID,
		recoverJSON,
		accessLog(500*time.Millisecond),
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", headerRequestID},
			ExposedHeaders: []string{headerRequestID},
			MaxAge:         300,
		}),
	)

	h := &handlers{q: q, defaultCap: opts.DefaultCap}
	m.Get("/healthz", h.health)
	m.Route("/v1", func(r chi.Router) {
		r.Get("/search", h.search)
		r.Get("/color", h.color)
	})
	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, errors.New("no such route"))
	})
	m.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	return &Server{
		addr: opts.Addr,
		mux:  m,
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the listening address.
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		log.Info().Msg("http shutting down")
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
