package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The protocol carries no credentials; origin checks are left to
		// the deployment's proxy.
		return true
	},
}

// Handler receives inbound protocol frames and disconnect notifications.
// HandleEvent is called from the connection's read goroutine.
type Handler interface {
	HandleEvent(connID, event string, payload []byte)
	HandleDisconnect(connID string)
}

// Envelope is the JSON frame exchanged in both directions: an event name
// plus an event-specific payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub maintains the set of active connections and their room subscriptions.
// Rooms keep join order so membership enumeration is stable.
type Hub struct {
	logger  *zap.Logger
	handler Handler

	mu      sync.Mutex
	clients map[string]*Client
	rooms   map[string][]string
}

// NewHub creates a hub with no connections.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
		rooms:   make(map[string][]string),
	}
}

// SetHandler binds the protocol handler. Must be called before ServeWS.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeWS upgrades an HTTP request, assigns the connection an id, and
// starts its read and write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.NewString(),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	h.logger.Info("connection established", zap.String("socket_id", client.id))

	go client.writePump()
	go client.readPump()
}

// Join subscribes the connection to the named room. Joining a room twice is
// a no-op; join order is preserved for enumeration.
func (h *Hub) Join(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[connID]; !ok {
		return
	}
	for _, id := range h.rooms[room] {
		if id == connID {
			return
		}
	}
	h.rooms[room] = append(h.rooms[room], connID)
}

// Leave removes the connection from the named room.
func (h *Hub) Leave(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(connID, room)
}

// Members returns the connections subscribed to the room, in join order.
func (h *Hub) Members(room string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := make([]string, len(h.rooms[room]))
	copy(members, h.rooms[room])
	return members
}

// Broadcast sends an event to every member of the room. Delivery walks a
// snapshot of the membership: deliverLocked may drop a slow member, and
// mutating the live slice mid-iteration would skip the next member.
func (h *Hub) Broadcast(room, event string, payload any) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	h.mu.Lock()
	members := make([]string, len(h.rooms[room]))
	copy(members, h.rooms[room])
	var dropped []string
	for _, id := range members {
		if client, ok := h.clients[id]; ok {
			if !h.deliverLocked(client, data) {
				dropped = append(dropped, id)
			}
		}
	}
	h.mu.Unlock()

	h.notifyDropped(dropped)
}

// Send sends an event to a single connection.
func (h *Hub) Send(connID, event string, payload any) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	h.mu.Lock()
	var dropped []string
	if client, ok := h.clients[connID]; ok {
		if !h.deliverLocked(client, data) {
			dropped = append(dropped, connID)
		}
	}
	h.mu.Unlock()

	h.notifyDropped(dropped)
}

// BroadcastAll sends an event to every live connection regardless of room.
func (h *Hub) BroadcastAll(event string, payload any) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	var dropped []string
	for _, client := range clients {
		if _, ok := h.clients[client.id]; !ok {
			continue
		}
		if !h.deliverLocked(client, data) {
			dropped = append(dropped, client.id)
		}
	}
	h.mu.Unlock()

	h.notifyDropped(dropped)
}

func (h *Hub) marshal(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshaling payload", zap.String("event", event), zap.Error(err))
		return nil, err
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		h.logger.Error("marshaling envelope", zap.String("event", event), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// deliverLocked queues a frame without blocking. A connection whose send
// buffer is full is dropped; its pumps observe the closed channel and exit.
// Returns false when the connection was dropped: the caller must report the
// id through notifyDropped once h.mu is released.
func (h *Hub) deliverLocked(client *Client, data []byte) bool {
	select {
	case client.send <- data:
		return true
	default:
		h.logger.Warn("send buffer full, dropping connection", zap.String("socket_id", client.id))
		h.removeLocked(client.id)
		return false
	}
}

// notifyDropped runs the disconnect lifecycle for connections removed on the
// slow-client path. removeLocked has already forgotten the ids, so the
// readPump's own unregister will not notify a second time. The handler is
// called on a fresh goroutine: a drop can happen inside one of the handler's
// own broadcasts, and calling back into it synchronously would deadlock.
func (h *Hub) notifyDropped(ids []string) {
	if len(ids) == 0 || h.handler == nil {
		return
	}
	go func() {
		for _, id := range ids {
			h.logger.Info("connection closed", zap.String("socket_id", id))
			h.handler.HandleDisconnect(id)
		}
	}()
}

func (h *Hub) leaveLocked(connID, room string) {
	members := h.rooms[room]
	for i, id := range members {
		if id == connID {
			h.rooms[room] = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// removeLocked forgets the connection entirely: registry entry and every
// room subscription. Safe to call twice for the same id.
func (h *Hub) removeLocked(connID string) {
	client, ok := h.clients[connID]
	if !ok {
		return
	}
	delete(h.clients, connID)
	for room := range h.rooms {
		h.leaveLocked(connID, room)
	}
	close(client.send)
}

// unregister is the disconnect path: forget the connection and notify the
// protocol handler exactly once.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client.id]
	if known {
		h.removeLocked(client.id)
	}
	h.mu.Unlock()

	if known {
		h.logger.Info("connection closed", zap.String("socket_id", client.id))
		if h.handler != nil {
			h.handler.HandleDisconnect(client.id)
		}
	}
}
