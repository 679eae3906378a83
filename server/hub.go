// Package server lets spectators follow a running game over websockets.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"catan/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Spectating is read-only
	},
}

// Update is sent to spectators after every move.
type Update struct {
	View    game.View `json:"view"`
	Actions []string  `json:"actions"` // the move and what it caused
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts public snapshots of a game. It implements engine.Observer
// and only ever reads the state it is given.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte
}

func NewHub() *Hub {
	return &Hub{clients: map[*client]struct{}{}}
}

func (h *Hub) Observe(state *game.GameState, records []game.Record) {
	update := Update{View: state.PublicView(-1)}
	for _, r := range records {
		update.Actions = append(update.Actions, r.Action.Description())
	}
	msg, err := json.Marshal(update)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode spectator update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default: // Too slow to keep up
			log.Warn().Msgf("dropping spectator %s", c.conn.RemoteAddr())
			h.remove(c)
		}
	}
}

// Handler serves /ws for live updates and /state for the latest snapshot.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.serveWS)
	mux.HandleFunc("GET /state", h.serveState)
	return mux
}

func (h *Hub) serveState(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		http.Error(w, "no game in progress", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(latest)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()

	go c.writePump()
	h.readPump(c)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards whatever spectators send until they disconnect.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		h.remove(c)
		h.mu.Unlock()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// remove must be called with the lock held.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Spectators returns the number of connected clients.
func (h *Hub) Spectators() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
