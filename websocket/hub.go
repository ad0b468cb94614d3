package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event represents a message sent over WebSocket
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	PatientID primitive.ObjectID
	Admin     bool
	Conn      *websocket.Conn
}

// Hub maintains the set of active clients: patients watching their own
// wallet and admin dashboards watching the whole ledger.
type Hub struct {
	patients   map[primitive.ObjectID][]*Client
	admins     map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		patients:   make(map[primitive.ObjectID][]*Client),
		admins:     make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.Admin {
				h.admins[client] = true
			} else {
				h.patients[client.PatientID] = append(h.patients[client.PatientID], client)
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if client.Admin {
				delete(h.admins, client)
			} else {
				conns := h.patients[client.PatientID]
				for i, c := range conns {
					if c == client {
						h.patients[client.PatientID] = append(conns[:i], conns[i+1:]...)
						break
					}
				}
				if len(h.patients[client.PatientID]) == 0 {
					delete(h.patients, client.PatientID)
				}
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToPatient sends an event to every open connection of one patient.
// A patient with no open connection is not an error; the in-app
// notification row is the durable channel.
func (h *Hub) SendToPatient(patientID primitive.ObjectID, event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.patients[patientID] {
		client.Conn.WriteJSON(event)
	}
}

// BroadcastToAdmins sends an event to all connected admin dashboards.
func (h *Hub) BroadcastToAdmins(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.admins {
		client.Conn.WriteJSON(event)
	}
}
