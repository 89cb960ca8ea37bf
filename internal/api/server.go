// Package api provides the HTTP server for clickwar: the JSON game API,
// the live event feed and the metrics endpoint.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clickwar-arcade/clickwar/internal/app/game"
	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// Version is reported by GET /api/version.
var Version = "0.1.0"

// MatchHistory is the read side of the match archive.
type MatchHistory interface {
	ListMatches(limit int) ([]domain.MatchRecord, error)
	TeamWins() (map[domain.Team]int, error)
}

// Server is the clickwar HTTP API server.
type Server struct {
	engine         *game.Engine
	hub            *Hub
	history        MatchHistory // nil when the archive is disabled
	metricsEnabled bool
	corsOrigin     string
}

// NewServer creates a server for engine.
func NewServer(engine *game.Engine) *Server {
	return &Server{engine: engine, corsOrigin: "*"}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHub sets the live event hub serving /api/events and /api/ws.
func (s *Server) SetHub(h *Hub) { s.hub = h }

// Hub returns the live event hub (nil if not set).
func (s *Server) Hub() *Hub { return s.hub }

// SetHistory enables GET /api/history.
func (s *Server) SetHistory(h MatchHistory) { s.history = h }

// SetCORSOrigin sets the Access-Control-Allow-Origin value.
func (s *Server) SetCORSOrigin(origin string) {
	if origin != "" {
		s.corsOrigin = origin
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.corsOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, domain.KindNotFound.String(), "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	// JSON game API. Streaming routes below are mounted outside the timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"version": Version,
			})
		})

		r.Get("/api/game", s.handleGetState)
		r.Get("/api/scoreboard", s.handleScoreboard)
		r.Post("/api/join", s.handleJoin)
		r.Post("/api/click", s.handleClick)
		r.Post("/api/heartbeat", s.handleHeartbeat)
		r.Get("/api/player/{id}", s.handleGetPlayer)
		r.Post("/api/reset", s.handleReset)

		r.Get("/api/shop", s.handleGetShop)
		r.Post("/api/shop/purchase", s.handlePurchase)
		r.Post("/api/shop/select-path", s.handleSelectPath)

		if s.history != nil {
			r.Get("/api/history", s.handleHistory)
		}
		if s.hub != nil {
			r.Get("/api/events/recent", s.hub.HandleRecent)
		}
	})

	// Live event feed
	if s.hub != nil {
		r.Get("/api/events", s.hub.HandleSSE)
		r.Get("/api/ws", s.hub.HandleWS)
	}

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, typ, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"message": msg,
			"type":    typ,
		},
	})
}

// writeEngineError maps an engine error onto its HTTP status.
func writeEngineError(w http.ResponseWriter, err error) {
	kind := domain.Classify(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Printf("[api] internal error: %v", err)
	}
	writeError(w, status, kind.String(), err.Error())
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput, domain.KindPurchaseRejected:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// corsMiddleware adds CORS headers so the browser client can be served
// from another origin.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
