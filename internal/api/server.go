// Package api exposes the operational HTTP interface for the bot:
// health probes, Prometheus metrics, and the most recent post.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PostStatus describes the most recent successful post.
type PostStatus struct {
	CameraID string    `json:"camera_id"`
	Caption  string    `json:"caption"`
	PostID   string    `json:"post_id"`
	PostURL  string    `json:"post_url"`
	PostedAt time.Time `json:"posted_at"`
}

var (
	lastPostMu sync.RWMutex
	lastPost   *PostStatus
)

// RecordPost stores the most recent successful post for /v1/last-post.
func RecordPost(status PostStatus) {
	lastPostMu.Lock()
	defer lastPostMu.Unlock()
	lastPost = &status
}

// Server wires the operational HTTP handlers.
type Server struct {
	router chi.Router
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(logger *zap.Logger) *Server {
	s := &Server{logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/last-post", s.getLastPost)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) getLastPost(w http.ResponseWriter, _ *http.Request) {
	lastPostMu.RLock()
	status := lastPost
	lastPostMu.RUnlock()

	if status == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "nothing posted yet"})
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response failed", zap.Error(err))
	}
}
