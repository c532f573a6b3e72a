package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/abrezinsky/snailderby/internal/errors"
	"github.com/abrezinsky/snailderby/internal/logger"
	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Hub maintains the set of active clients and delivers events to them by id
type Hub struct {
	log        logger.Logger
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	rooms      services.RoomServicer
	newID      func() string
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// ready is closed once the room service knows the client
	ready chan struct{}
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, rooms services.RoomServicer) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      rooms,
		newID:      uuid.NewString,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration. The room service is called
// outside the hub lock because it calls back into Send.
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "client", client.id, "total_clients", total)
			h.rooms.Connect(client.id)
			close(client.ready)

		case client := <-h.unregister:
			h.mutex.Lock()
			current, ok := h.clients[client.id]
			if ok && current == client {
				delete(h.clients, client.id)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if ok && current == client {
				h.log.Debug("Client disconnected", "client", client.id, "total_clients", total)
				h.rooms.Disconnect(client.id)
			}
		}
	}
}

// Send implements services.Messenger. It never blocks: a client whose buffer
// is full is dropped.
func (h *Hub) Send(clientID, msgType string, payload interface{}) {
	data, err := json.Marshal(models.WSMessage{Type: msgType, Payload: payload})
	if err != nil {
		h.log.Error("Failed to encode message", "type", msgType, "error", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		h.log.Warn("Client send buffer full, dropping", "client", clientID)
		go func(c *Client) {
			h.unregister <- c
		}(client)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// readPump pumps messages from the websocket connection to the room service
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	<-c.ready
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		if err := c.hub.dispatch(context.Background(), c.id, message); err != nil {
			c.hub.alert(c.id, err)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// alert reports a failed action to the client that sent it
func (h *Hub) alert(clientID string, err error) {
	if errors.KindOf(err) == errors.ErrInternal {
		h.log.Error("Action failed", "client", clientID, "error", err)
		h.Send(clientID, models.MsgAlert, "Something went wrong, please try again.")
		return
	}
	h.Send(clientID, models.MsgAlert, err.Error())
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		id:    h.newID(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		ready: make(chan struct{}),
	}
	h.register <- client

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
