package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// ─── Live Event Hub ─────────────────────────────────────────────────────────
// Fans engine events out to SSE and websocket clients and keeps a short
// ring buffer for GET /api/events/recent.

const (
	clientBuffer     = 64
	defaultRecentMax = 200

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub is a domain.EventSink broadcasting to live feed subscribers.
type Hub struct {
	mu        sync.Mutex
	clients   map[chan []byte]struct{}
	recent    []domain.GameEvent
	maxRecent int
}

// NewHub creates a hub remembering the last maxRecent events.
func NewHub(maxRecent int) *Hub {
	if maxRecent <= 0 {
		maxRecent = defaultRecentMax
	}
	return &Hub{
		clients:   make(map[chan []byte]struct{}),
		recent:    make([]domain.GameEvent, 0, maxRecent),
		maxRecent: maxRecent,
	}
}

// Publish implements domain.EventSink. Player ids are session credentials
// and are stripped before anything reaches the public feed.
func (h *Hub) Publish(ev domain.GameEvent) {
	ev.PlayerID = ""
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[api] marshal %s event: %v", ev.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Ring buffer: drop the oldest once full
	if len(h.recent) >= h.maxRecent {
		h.recent = h.recent[1:]
	}
	h.recent = append(h.recent, ev)

	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client too slow, drop message
		}
	}
}

// Subscribe registers a new client. Returns the channel and an unsubscribe func.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Recent returns up to limit of the most recent events, oldest first.
func (h *Hub) Recent(limit int) []domain.GameEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.recent) {
		limit = len(h.recent)
	}
	out := make([]domain.GameEvent, limit)
	copy(out, h.recent[len(h.recent)-limit:])
	return out
}

// HandleRecent serves GET /api/events/recent?limit=N.
func (h *Hub) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": h.Recent(limit),
	})
}

// HandleSSE serves the live feed via Server-Sent Events.
// GET /api/events
func (h *Hub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, unsub := h.Subscribe()
	defer unsub()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS serves the live feed over a websocket. The feed is one-way;
// anything the client sends is read and discarded.
// GET /api/ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ch, unsub := h.Subscribe()
	defer unsub()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[api] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
