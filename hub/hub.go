// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MaplrCanada/ss-petitions/models"
)

const (
	pingInterval = 20 * time.Second
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	readLimit    = 1024
)

// Hub fans events out to connected panels.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

func New() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Broadcast sends the event to every client and returns how many received
// it. Clients that fail the write are dropped.
func (h *Hub) Broadcast(e models.Event) int {
	b, err := json.Marshal(e)
	if err != nil {
		slog.Error("failed to encode event", "type", e.Type, "error", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			slog.Warn("ws write failed", "error", err)
			_ = c.Close()
			delete(h.clients, c)
			continue
		}
		n++
	}
	slog.Info("broadcast event", "type", e.Type, "petition_id", e.PetitionID, "clients", n)
	return n
}

func (h *Hub) ClientsCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the connection and keeps it alive until the client goes
// away or the hub is closed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}

	if !h.add(c) {
		_ = c.Close()
		return
	}

	done := make(chan struct{})
	go h.keepalive(c, done)

	c.SetReadLimit(readLimit)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Panels never send anything meaningful; reading drives pong handling.
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	close(done)
	h.remove(c)
}

func (h *Hub) add(c *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	slog.Info("ws connected", "clients", len(h.clients))
	return true
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		slog.Info("ws disconnected", "clients", len(h.clients))
	}
	_ = c.Close()
}

func (h *Hub) keepalive(c *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if err := c.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				// Unblocks the read loop in ServeWS
				_ = c.Close()
				return
			}
		case <-done:
			return
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = c.Close()
		delete(h.clients, c)
	}
}
