// Package push fans out scoreboard events to connected websocket clients.
// It replaces the polling a display would otherwise do: every score change,
// side switch and match win is pushed as a typed event.
package push

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event names on the wire.
const (
	EventGameState         = "gamestateupdate"
	EventPointScored       = "pointscored"
	EventSideSwitch        = "sideswitchrequired"
	EventMatchWon          = "matchwon"
	EventSensorValidation  = "sensor_validation_result"
	EventCalibrationDone   = "calibration_complete"
	EventMappingUpdated    = "sensor_mapping_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type conn struct {
	ws   *websocket.Conn
	send chan []byte
}

// Hub tracks websocket clients. Broadcasts never block scoring: a client
// that cannot keep up is dropped.
type Hub struct {
	mu       sync.Mutex
	conns    map[*conn]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		conns: map[*conn]struct{}{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler upgrades the request and registers the client. initial supplies
// the messages every new client receives immediately (current game state,
// sensor validation).
func (h *Hub) Handler(initial func() []Message) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade: %v", err)
			return
		}
		c := &conn{ws: ws, send: make(chan []byte, 32)}

		h.mu.Lock()
		h.conns[c] = struct{}{}
		h.mu.Unlock()

		if initial != nil {
			for _, m := range initial() {
				if raw, err := json.Marshal(m); err == nil {
					c.send <- raw
				}
			}
		}

		go h.writePump(c)
		go h.readPump(c)
	}
}

// Broadcast sends one event to every connected client.
func (h *Hub) Broadcast(event string, data interface{}) {
	raw, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("ws marshal %s: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- raw:
		default:
			// Slow client: drop it rather than stall the board.
			delete(h.conns, c)
			close(c.send)
		}
	}
}

// Clients reports how many displays are connected.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) writePump(c *conn) {
	defer c.ws.Close()
	for raw := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; it exists to notice disconnects.
func (h *Hub) readPump(c *conn) {
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.ws.Close()
}
