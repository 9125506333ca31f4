// Package api serves the latest ranking document over HTTP for the
// dashboard, plus health and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/report"
)

// RankingsProvider yields the most recent finished ranking document.
type RankingsProvider interface {
	Latest(ctx context.Context) (*report.Document, error)
}

// ProviderFunc adapts a plain function into a RankingsProvider.
type ProviderFunc func(ctx context.Context) (*report.Document, error)

// Latest calls the wrapped function.
func (f ProviderFunc) Latest(ctx context.Context) (*report.Document, error) {
	return f(ctx)
}

// DirProvider serves rankings straight off the output directory.
type DirProvider struct {
	Dir string
}

// Latest loads the newest document in the directory.
func (d DirProvider) Latest(context.Context) (*report.Document, error) {
	return report.LatestFromDir(d.Dir)
}

// Server is the read-only rankings API.
type Server struct {
	provider RankingsProvider
	router   *mux.Router
	log      zerolog.Logger
}

// NewServer wires the routes.
func NewServer(provider RankingsProvider) *Server {
	s := &Server{
		provider: provider,
		router:   mux.NewRouter(),
		log:      log.With().Str("component", "api").Logger(),
	}
	s.router.HandleFunc("/api/rankings/latest", s.handleLatest).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the API until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", addr).Msg("serving rankings API")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("response write failed")
	}
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	doc, err := s.provider.Latest(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("no rankings available")
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no rankings available"})
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
