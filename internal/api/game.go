package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clickwar-arcade/clickwar/internal/app/game"
	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// ─── Request Types ──────────────────────────────────────────────────────────

type joinRequest struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

type playerRequest struct {
	PlayerID string `json:"playerId"`
}

type purchaseRequest struct {
	PlayerID string `json:"playerId"`
	ItemID   string `json:"itemId"`
}

type selectPathRequest struct {
	PlayerID string `json:"playerId"`
	PathID   string `json:"pathId"`
}

type purchaseResponse struct {
	Success bool `json:"success"`
	game.PurchaseResult
}

type historyResponse struct {
	Matches []domain.MatchRecord `json:"matches"`
	Wins    map[domain.Team]int  `json:"wins"`
}

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, domain.KindInvalidInput.String(), "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func success(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ─── Read Models ────────────────────────────────────────────────────────────

// GET /api/game
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State())
}

// GET /api/scoreboard
func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Scoreboard())
}

// GET /api/player/{id}
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.Player(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ─── Player Actions ─────────────────────────────────────────────────────────

// POST /api/join
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	team, err := domain.ParseTeam(req.Team)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	res, err := s.engine.Join(req.Name, team)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/click
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.engine.Click(req.PlayerID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/heartbeat
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.engine.Heartbeat(req.PlayerID); err != nil {
		writeEngineError(w, err)
		return
	}
	success(w)
}

// POST /api/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine.Reset()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Game reset",
	})
}

// ─── Shop ───────────────────────────────────────────────────────────────────

// GET /api/shop?playerId=...
func (s *Server) handleGetShop(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.Shop(r.URL.Query().Get("playerId"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /api/shop/purchase
// Every rejection is a 400 carrying the reason, including unknown ids.
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.engine.Purchase(req.PlayerID, req.ItemID)
	if err != nil {
		kind := domain.Classify(err)
		if kind == domain.KindInternal {
			log.Printf("[api] purchase failed: %v", err)
		}
		writeError(w, http.StatusBadRequest, kind.String(), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, purchaseResponse{Success: true, PurchaseResult: res})
}

// POST /api/shop/select-path
func (s *Server) handleSelectPath(w http.ResponseWriter, r *http.Request) {
	var req selectPathRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.engine.SelectBuildPath(req.PlayerID, req.PathID); err != nil {
		writeEngineError(w, err)
		return
	}
	success(w)
}

// ─── History ────────────────────────────────────────────────────────────────

// GET /api/history?limit=N
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, domain.KindInvalidInput.String(), "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	matches, err := s.history.ListMatches(limit)
	if err != nil {
		log.Printf("[api] history: %v", err)
		writeError(w, http.StatusInternalServerError, domain.KindInternal.String(), "failed to read match history")
		return
	}
	wins, err := s.history.TeamWins()
	if err != nil {
		log.Printf("[api] history wins: %v", err)
		writeError(w, http.StatusInternalServerError, domain.KindInternal.String(), "failed to read match history")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Matches: matches, Wins: wins})
}
