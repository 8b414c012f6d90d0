package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"helpnet/models"
	"helpnet/utils"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for client send channel
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// Upgrade upgrades an HTTP request to a websocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

type Client struct {
	conn *websocket.Conn

	userID       string
	connectionID string
	connectedAt  time.Time

	// Buffered channel of outbound messages
	send chan models.WSMessage

	hub *Hub

	rateLimiter *utils.RateLimiter

	// Rooms this client has joined, guarded by the hub mutex.
	rooms map[string]bool
}

func NewClient(conn *websocket.Conn, hub *Hub, userID string) *Client {
	return &Client{
		conn:         conn,
		hub:          hub,
		userID:       userID,
		connectionID: utils.GenerateUUID(),
		connectedAt:  time.Now(),
		send:         make(chan models.WSMessage, sendBufferSize),
		rateLimiter:  utils.NewRateLimiter(100, time.Minute),
		rooms:        make(map[string]bool),
	}
}

// Register announces the client to the hub and starts its pumps.
func (c *Client) Register() {
	c.hub.register <- c
	go c.WritePump()
	go c.ReadPump()
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageData, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Errorf("WebSocket error for user %s: %v", c.userID, err)
			}
			return
		}

		if !c.rateLimiter.Allow() {
			c.sendError("Rate limit exceeded")
			continue
		}

		var msg models.WSMessage
		if err := json.Unmarshal(messageData, &msg); err != nil {
			c.sendError("Invalid message format")
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) WritePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				logrus.Debugf("Write failed for user %s: %v", c.userID, err)
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

func (c *Client) handleMessage(msg models.WSMessage) {
	switch msg.Event {
	case models.EventSubscribeEmergency:
		if req, ok := subscribePayload(msg.Data); ok {
			c.hub.joinRoom(c, models.EmergencyChannel(req.EmergencyID))
		} else {
			c.sendError("emergencyId is required")
		}

	case models.EventUnsubscribeEmergency:
		if req, ok := subscribePayload(msg.Data); ok {
			c.hub.leaveRoom(c, models.EmergencyChannel(req.EmergencyID))
		}

	case models.EventPing:
		c.trySend(models.WSMessage{
			Event:     models.EventPong,
			Timestamp: time.Now(),
		})

	default:
		c.sendError("Unknown event: " + msg.Event)
	}
}

// subscribePayload decodes the loosely typed frame data into a
// SubscribeRequest.
func subscribePayload(data interface{}) (models.SubscribeRequest, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return models.SubscribeRequest{}, false
	}
	var req models.SubscribeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.SubscribeRequest{}, false
	}
	return req, req.EmergencyID != ""
}

// trySend queues a message without blocking. Slow consumers lose messages
// instead of stalling the hub.
func (c *Client) trySend(message models.WSMessage) {
	select {
	case c.send <- message:
	default:
		logrus.Debugf("Send buffer full for user %s, dropping %s", c.userID, message.Event)
	}
}

func (c *Client) sendError(message string) {
	c.trySend(models.WSMessage{
		Event:     "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now(),
	})
}
