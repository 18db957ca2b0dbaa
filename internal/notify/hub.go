package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultHistorySize = 50
	writeTimeout       = 2 * time.Second
)

const (
	EventWelcome        = "welcome"
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
	EventContentReload  = "content.reloaded"
)

// Event is one message on the admin live feed.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

type Stats struct {
	Clients   int `json:"clients"`
	Broadcast int `json:"broadcast"`
	History   int `json:"history"`
}

// Hub fans events out to connected admin websockets and keeps a short
// backlog so a client that reconnects sees what it missed.
type Hub struct {
	mu          sync.Mutex
	clients     map[*websocket.Conn]struct{}
	history     []json.RawMessage
	historySize int
	sent        int
	closed      bool
}

func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Hub{
		clients:     make(map[*websocket.Conn]struct{}),
		historySize: historySize,
	}
}

// Join replays the backlog to ws and then registers it. Both happen under
// the hub lock so no event is delivered twice or skipped.
func (h *Hub) Join(ws *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		_ = ws.Close()
		return false
	}

	for _, payload := range h.history {
		if !write(ws, payload) {
			_ = ws.Close()
			return false
		}
	}
	h.clients[ws] = struct{}{}
	return true
}

func (h *Hub) Leave(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Publish records the event in the backlog and sends it to every client.
// Clients that fail to accept the write are dropped.
func (h *Hub) Publish(eventType string, data any) {
	h.BroadcastJSON(Event{Type: eventType, Data: data, At: time.Now().UTC()})
}

func (h *Hub) BroadcastJSON(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		zap.L().Warn("hub: marshal event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.history = append(h.history, payload)
	if len(h.history) > h.historySize {
		h.history = h.history[len(h.history)-h.historySize:]
	}
	h.sent++

	for ws := range h.clients {
		if !write(ws, payload) {
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}

func write(ws *websocket.Conn, payload []byte) bool {
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, payload) == nil
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Clients:   len(h.clients),
		Broadcast: h.sent,
		History:   len(h.history),
	}
}

// Close disconnects every client. Later joins and publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ws := range h.clients {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeTimeout))
		_ = ws.Close()
		delete(h.clients, ws)
	}
}
