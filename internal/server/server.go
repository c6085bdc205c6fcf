// Package server exposes the watch-mode status API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"autoff/internal/journal"
	"autoff/internal/metrics"
	"autoff/internal/policy"
	"autoff/internal/record"
)

// Server wraps HTTP serving of the status API.
type Server struct {
	httpServer   *http.Server
	policy       policy.Policy
	store        *record.Store
	journal      *journal.Journal
	historyLimit int
}

// New creates a configured HTTP server for the watch mode.
func New(addr string, p policy.Policy, store *record.Store, jnl *journal.Journal) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer:   &http.Server{Addr: addr, Handler: mux},
		policy:       p,
		store:        store,
		journal:      jnl,
		historyLimit: 200,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/policy", s.handlePolicy)
	mux.HandleFunc("/api/live", s.handleLive)
}

type statusSnapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Policy      policy.Policy     `json:"policy"`
	Latest      *journal.Entry    `json:"latest,omitempty"`
	Stats       metrics.IdleStats `json:"stats"`
}

func (s *Server) buildSnapshot() statusSnapshot {
	snapshot := statusSnapshot{
		GeneratedAt: time.Now().UTC(),
		Policy:      s.policy,
	}
	if entry, ok := s.journal.Latest(); ok {
		snapshot.Latest = &entry
	}
	if samples, err := s.store.All(); err == nil {
		snapshot.Stats = metrics.ComputeIdleStats(samples, s.policy.IdleLoadThreshold)
	}
	return snapshot
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.buildSnapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	samples, err := s.store.Tail(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if samples == nil {
		samples = []float64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"samples": samples,
		"ticks":   s.journal.History(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	samples, err := s.store.All()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, metrics.ComputeIdleStats(samples, s.policy.IdleLoadThreshold))
}

func (s *Server) handlePolicy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.policy)
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > fallback {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
