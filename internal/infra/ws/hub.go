// File: internal/infra/ws/hub.go
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"ai-chat-archive/internal/infra/logging"
	"ai-chat-archive/internal/infra/metrics"
	"ai-chat-archive/internal/infra/worker"
	"ai-chat-archive/internal/usecase"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxCommandBytes = 64 * 1024
)

// Hub owns the connected-client set and fans events out to it. Commands come
// in over each socket; completion work runs on the worker pool so a slow
// model call never blocks a read loop.
type Hub struct {
	chatUC usecase.ChatUseCase
	pool   *worker.Pool
	log    *zerolog.Logger

	upgrader   websocket.Upgrader
	sendBuffer int

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	// mu guards closed and orders every send before the channel close, so a
	// worker finishing a completion after the client went away cannot send on
	// a closed channel.
	mu     sync.Mutex
	closed bool
}

func NewHub(chatUC usecase.ChatUseCase, pool *worker.Pool, sendBuffer int, logger *zerolog.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	hubLog := logger.With().Str("component", "ws-hub").Logger()
	return &Hub{
		chatUC: chatUC,
		pool:   pool,
		log:    &hubLog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The push channel carries no credentials; any origin may attach.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
		clients:    make(map[string]*client),
	}
}

// ServeHTTP upgrades the connection and runs the read loop until the client
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}

	c := &client{
		id:   ulid.Make().String(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	metrics.ClientConnected()
	h.log.Info().Str("client_id", c.id).Msg("client connected")

	go h.writeLoop(c)
	h.readLoop(r.Context(), c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	c.mu.Lock()
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	metrics.ClientDisconnected()
	h.log.Info().Str("client_id", c.id).Msg("client disconnected")
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer func() {
		h.drop(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxCommandBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("client_id", c.id).Msg("read error")
			}
			return
		}
		h.dispatch(logging.WithClientID(ctx, c.id), c, raw)
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendTo queues an event for one client. Full buffers and departed clients
// drop the event rather than blocking the hub; delivery is fire-and-forget.
func (h *Hub) sendTo(c *client, event string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		metrics.EventDropped()
		return
	}
	select {
	case c.send <- payload:
		metrics.EventPushed(event)
	default:
		metrics.EventDropped()
		h.log.Warn().Str("client_id", c.id).Str("event", event).Msg("send buffer full, event dropped")
	}
}

// broadcast queues an event for every connected client.
func (h *Hub) broadcast(event string, payload []byte) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		h.sendTo(c, event, payload)
	}
}
