package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// StockEvent is pushed to every connected dashboard client whenever a
// product or its on-hand quantity changes.
type StockEvent struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// Publish marshals the event and queues it for broadcast. Safe to call from
// any goroutine; a nil hub is a no-op so callers without a web layer (the
// CLI) can skip wiring one.
func (h *Hub) Publish(event StockEvent) {
	if h == nil {
		return
	}
	event.Type = "stock_update"
	msg, err := json.Marshal(event)
	if err != nil {
		slog.Warn("dropping undecodable stock event", "action", event.Action, "error", err)
		return
	}
	h.Broadcast <- msg
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			slog.Info("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
