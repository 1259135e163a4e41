package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageType is the type of a message pushed to inspector clients.
type MessageType string

const (
	MessageHello MessageType = "hello"
	MessageStep  MessageType = "step"
	MessageReset MessageType = "reset"
	MessageError MessageType = "error"
)

// Message is sent to clients via WebSocket.
type Message struct {
	Type   MessageType `json:"type"`
	Run    string      `json:"run"`
	Client string      `json:"client,omitempty"`
	Step   *StepResult `json:"step,omitempty"`
	Tree   *TreeState  `json:"tree,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// hub manages WebSocket connections and fans out messages.
type hub struct {
	clients  map[*websocket.Conn]string
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	onCount func(n int)
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local tool; any origin may watch.
			},
		},
		logger:  logger,
		onCount: func(int) {},
	}
}

// serve upgrades the connection, hands it to join and keeps it registered
// until the client disconnects. join must register the connection with add
// and send the hello message; callers hold the lock that serializes
// broadcasts while doing so, so no message is lost in between.
func (h *hub) serve(w http.ResponseWriter, req *http.Request, join func(conn *websocket.Conn, client string) error) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	id := uuid.NewString()
	if err := join(conn, id); err != nil {
		h.remove(conn)
		return
	}
	h.logger.Debug("client connected", slog.String("client", id))

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	h.logger.Debug("client disconnected", slog.String("client", id))
}

// add registers conn as client.
func (h *hub) add(conn *websocket.Conn, client string) {
	h.mu.Lock()
	h.clients[conn] = client
	n := len(h.clients)
	h.mu.Unlock()
	h.onCount(n)
}

// broadcast sends a message to all connected clients. Callers serialize
// broadcasts.
func (h *hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(client)
		}
	}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	conn.Close()
	if ok {
		h.onCount(n)
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// close closes all client connections.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	h.onCount(0)
}
