package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/puissance4/internal/domain"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	seat domain.PlayerID // Empty for spectators

	// conn.WriteJSON is not safe for concurrent use
	writeMu sync.Mutex
}

func (c *client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub fans game events out to every socket following a game. It implements
// game.Notifier.
type Hub struct {
	games map[string]map[*client]struct{} // gameID → clients
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{games: make(map[string]map[*client]struct{})}
}

func (h *Hub) subscribe(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*client]struct{})
	}
	h.games[gameID][c] = struct{}{}
}

func (h *Hub) unsubscribe(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.games[gameID], c)
	if len(h.games[gameID]) == 0 {
		delete(h.games, gameID)
	}
}

// Subscribers returns how many sockets follow gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

func (h *Hub) Broadcast(gameID string, msg domain.ServerMessage) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.games[gameID]))
	for c := range h.games[gameID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			// the read loop notices the broken socket and unsubscribes it
			log.Debug().Err(err).Str("component", "ws").Str("gameId", gameID).Msg("send failed")
		}
	}
}
