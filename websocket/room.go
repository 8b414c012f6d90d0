package websocket

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"helpnet/models"
)

// Room groups the clients subscribed to one emergency.
type Room struct {
	ID string

	clients map[*Client]bool
	mutex   sync.RWMutex

	createdAt time.Time
}

func NewRoom(id string) *Room {
	logrus.Debugf("Created room: %s", id)
	return &Room{
		ID:        id,
		clients:   make(map[*Client]bool),
		createdAt: time.Now(),
	}
}

func (r *Room) AddClient(client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if client == nil || r.clients[client] {
		return
	}
	r.clients[client] = true
}

func (r *Room) RemoveClient(client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.clients, client)
}

// Broadcast sends the message to every client in the room. Clients with a
// full send buffer are skipped.
func (r *Room) Broadcast(message models.WSMessage) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for client := range r.clients {
		client.trySend(message)
	}
}

func (r *Room) IsEmpty() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.clients) == 0
}

func (r *Room) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.clients)
}
