package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"helpnet/models"
)

// Hub routes realtime events to connected clients. It implements the
// RealtimeBus used by the services: per-user delivery, per-emergency rooms
// and global broadcast. Emits are fire-and-forget; a hub that cannot keep up
// drops messages rather than blocking the caller.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Emergency rooms
	rooms map[string]*Room

	// User to clients mapping for direct messaging. A user may hold
	// several connections (multiple devices).
	userClients map[string]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Broadcast messages to rooms or everyone
	broadcast chan BroadcastMessage

	// Send message to a specific user
	sendToUser chan UserMessage

	// Hub statistics
	stats HubStats

	mutex sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

type BroadcastMessage struct {
	// RoomID empty means broadcast to every connected client.
	RoomID  string
	Message models.WSMessage
}

type UserMessage struct {
	UserID  string
	Message models.WSMessage
}

type HubStats struct {
	TotalConnections  int64
	ActiveConnections int
	MessagesSent      int64
	MessagesDropped   int64
	StartTime         time.Time

	mutex sync.RWMutex
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:     make(map[*Client]bool),
		rooms:       make(map[string]*Room),
		userClients: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan BroadcastMessage, 256),
		sendToUser:  make(chan UserMessage, 256),
		stats: HubStats{
			StartTime: time.Now(),
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *Hub) Run() {
	logrus.Info("WebSocket Hub starting...")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case userMessage := <-h.sendToUser:
			h.sendMessageToUser(userMessage)

		case <-h.ctx.Done():
			logrus.Info("WebSocket Hub shutting down...")
			return
		}
	}
}

func (h *Hub) Shutdown() {
	h.cancel()
}

// =================== RealtimeBus ===================

func (h *Hub) EmitToUser(userID string, event string, data interface{}) {
	h.enqueueUser(UserMessage{
		UserID: userID,
		Message: models.WSMessage{
			Event:     event,
			Data:      data,
			Timestamp: time.Now(),
		},
	})
}

func (h *Hub) EmitToEmergency(emergencyID string, event string, data interface{}) {
	h.enqueueBroadcast(BroadcastMessage{
		RoomID: models.EmergencyChannel(emergencyID),
		Message: models.WSMessage{
			Event:     event,
			Data:      data,
			Timestamp: time.Now(),
		},
	})
}

func (h *Hub) EmitToAll(event string, data interface{}) {
	h.enqueueBroadcast(BroadcastMessage{
		Message: models.WSMessage{
			Event:     event,
			Data:      data,
			Timestamp: time.Now(),
		},
	})
}

func (h *Hub) enqueueBroadcast(msg BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.incrementDropped()
		logrus.Warnf("Hub broadcast queue full, dropping %s", msg.Message.Event)
	}
}

func (h *Hub) enqueueUser(msg UserMessage) {
	select {
	case h.sendToUser <- msg:
	default:
		h.incrementDropped()
		logrus.Warnf("Hub user queue full, dropping %s for %s", msg.Message.Event, msg.UserID)
	}
}

// =================== INTERNAL ===================

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	if h.userClients[client.userID] == nil {
		h.userClients[client.userID] = make(map[*Client]bool)
	}
	h.userClients[client.userID][client] = true
	h.stats.ActiveConnections++
	h.stats.TotalConnections++

	logrus.Infof("Client registered: %s (Total: %d)", client.userID, h.stats.ActiveConnections)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	if set := h.userClients[client.userID]; set != nil {
		delete(set, client)
		if len(set) == 0 {
			delete(h.userClients, client.userID)
		}
	}
	h.stats.ActiveConnections--

	for roomID := range client.rooms {
		if room, exists := h.rooms[roomID]; exists {
			room.RemoveClient(client)
			if room.IsEmpty() {
				delete(h.rooms, roomID)
			}
		}
	}

	close(client.send)

	logrus.Infof("Client unregistered: %s (Total: %d)", client.userID, h.stats.ActiveConnections)
}

// joinRoom subscribes a client to an emergency room.
func (h *Hub) joinRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, exists := h.rooms[roomID]
	if !exists {
		room = NewRoom(roomID)
		h.rooms[roomID] = room
	}
	room.AddClient(client)
	client.rooms[roomID] = true
}

func (h *Hub) leaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		room.RemoveClient(client)
		if room.IsEmpty() {
			delete(h.rooms, roomID)
		}
	}
	delete(client.rooms, roomID)
}

func (h *Hub) broadcastMessage(msg BroadcastMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if msg.RoomID != "" {
		if room := h.rooms[msg.RoomID]; room != nil {
			room.Broadcast(msg.Message)
			h.incrementSent()
		}
		return
	}

	for client := range h.clients {
		client.trySend(msg.Message)
	}
	h.incrementSent()
}

func (h *Hub) sendMessageToUser(msg UserMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.userClients[msg.UserID] {
		client.trySend(msg.Message)
	}
	h.incrementSent()
}

func (h *Hub) incrementSent() {
	h.stats.mutex.Lock()
	h.stats.MessagesSent++
	h.stats.mutex.Unlock()
}

func (h *Hub) incrementDropped() {
	h.stats.mutex.Lock()
	h.stats.MessagesDropped++
	h.stats.mutex.Unlock()
}

func (h *Hub) Stats() (active int, sent, dropped int64) {
	h.mutex.RLock()
	active = h.stats.ActiveConnections
	h.mutex.RUnlock()

	h.stats.mutex.RLock()
	sent = h.stats.MessagesSent
	dropped = h.stats.MessagesDropped
	h.stats.mutex.RUnlock()
	return active, sent, dropped
}
