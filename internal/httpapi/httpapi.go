// Package httpapi exposes the simulator's admin surface: health checks
// and prometheus metrics, served alongside the websocket endpoint (spec
// §6's "the port also answers basic HTTP", generalised into a proper
// admin router per SPEC_FULL.md's domain stack).
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsProvider supplies the aggregate counters served at "/stats".
// cmd/marketsim's statsAdapter satisfies this by wrapping the Multiplexer.
type StatsProvider interface {
	Stats() StatsSnapshot
}

// StatsSnapshot is the shape returned by a StatsProvider.
type StatsSnapshot struct {
	ActiveSessions  int
	SessionsCreated int64
	TicksTotal      int64
	TradesTotal     int64
	ShocksTotal     int64
}

// Server is the admin HTTP surface: health, metrics, and simulator info.
type Server struct {
	startedAt time.Time
	stats     StatsProvider
}

// NewServer builds an admin server. stats may be nil, in which case
// "/stats" reports zeroed counters.
func NewServer(stats StatsProvider) *Server {
	return &Server{startedAt: time.Now(), stats: stats}
}

// Router builds the chi router for the admin surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	active := 0
	if s.stats != nil {
		active = s.stats.Stats().ActiveSessions
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"uptime":         time.Since(s.startedAt).String(),
		"activeSessions": active,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var snap StatsSnapshot
	if s.stats != nil {
		snap = s.stats.Stats()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"activeSessions":  snap.ActiveSessions,
		"sessionsCreated": snap.SessionsCreated,
		"ticksTotal":      snap.TicksTotal,
		"tradesTotal":     snap.TradesTotal,
		"shocksTotal":     snap.ShocksTotal,
	})
}
