// Package httpapi serves a read-only JSON status API next to the SSH server:
// high scores, score statistics and the list of connected players.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// ScoreSource is the read side of the score store.
type ScoreSource interface {
	TopScores(mode string, limit int) ([]storage.ScoreEntry, error)
	Scores(mode string) ([]storage.ScoreEntry, error)
	Modes() ([]string, error)
}

// SessionLister reports connected players.
type SessionLister interface {
	List() []session.Info
}

// MaxLimit caps the limit query parameter of /api/scores.
const MaxLimit = 100

// Server is the HTTP status server.
type Server struct {
	scores   ScoreSource
	sessions SessionLister
	logger   *log.Logger
	router   chi.Router
	server   *http.Server
}

// NewServer builds the router. scores and sessions may be nil, in which case
// the matching endpoints answer 503.
func NewServer(addr string, scores ScoreSource, sessions SessionLister, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		scores:   scores,
		sessions: sessions,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.Recoverer)
	r.Use(accessLog(logger))
	r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/scores", s.handleScores)
		r.Get("/stats", s.handleStats)
		r.Get("/sessions", s.handleSessions)
	})
	s.router = r

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting HTTP status server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// accessLog logs one line per request, at a level chosen by status code.
func accessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"status", status,
				"method", r.Method,
				"path", r.URL.Path,
				"latency", time.Since(start),
				"request_id", chimid.GetReqID(r.Context()),
			}
			switch {
			case status >= 500:
				logger.Error("http request", kv...)
			case status >= 400:
				logger.Warn("http request", kv...)
			default:
				logger.Debug("http request", kv...)
			}
		})
	}
}
