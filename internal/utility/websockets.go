package utility

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow CORS for development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub holds active connections: Map[DashboardID] -> set of connections.
// A dashboard may be open in several tabs.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]struct{})}
}

// Register a new client connection
func (h *Hub) Register(dashboardID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[dashboardID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.clients[dashboardID] = conns
	}
	conns[conn] = struct{}{}
	log.Info().Str("dashboard_id", dashboardID).Msg("WebSocket Client Connected")
}

// Unregister a client (when they close the tab)
func (h *Hub) Unregister(dashboardID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(dashboardID, conn)
}

// Broadcast sends msg to every connection of a dashboard and returns how many
// received it. Connections that fail the write are closed and dropped.
func (h *Hub) Broadcast(dashboardID string, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.clients[dashboardID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Error().Err(err).Str("dashboard_id", dashboardID).Msg("Failed to send WS message, removing client")
			h.remove(dashboardID, conn)
			continue
		}
		sent++
	}
	return sent
}

// Count returns the number of open connections of a dashboard.
func (h *Hub) Count(dashboardID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[dashboardID])
}

// CloseAll closes every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conns := range h.clients {
		for conn := range conns {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
		}
		delete(h.clients, id)
	}
}

// remove must be called with mu held.
func (h *Hub) remove(dashboardID string, conn *websocket.Conn) {
	conns, ok := h.clients[dashboardID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	conn.Close()
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, dashboardID)
	}
	log.Info().Str("dashboard_id", dashboardID).Msg("WebSocket Client Disconnected")
}
