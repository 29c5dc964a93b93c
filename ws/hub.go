// Package ws pushes change events to connected front-desk screens.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"frontdesk/events"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrHubBusy = errors.New("ws hub: broadcast queue full")

const writeWait = 5 * time.Second

// Hub fans every published event out to all connected clients.
// It implements events.Publisher.
type Hub struct {
	clients    map[*websocket.Conn]uint // conn -> user id
	broadcast  chan events.Event
	register   chan client
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

type client struct {
	conn   *websocket.Conn
	userID uint
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]uint),
		broadcast:  make(chan events.Event, 64),
		register:   make(chan client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run serves register, unregister and broadcast until ctx is done, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl.conn] = cl.userID
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.mu.Lock()
			for conn, uid := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					log.Warn().Err(err).Uint("userId", uid).Msg("ws write failed")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues e for broadcast. It never blocks on slow clients; a full
// queue is reported as ErrHubBusy.
func (h *Hub) Publish(ctx context.Context, e events.Event) error {
	select {
	case h.broadcast <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrHubBusy
	}
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWebSocket upgrades GET /ws. Authentication happens in middleware.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	select {
	case h.register <- client{conn: conn, userID: utils.CurrentUserID(c)}:
	case <-h.done:
		conn.Close()
		return
	}
	go h.listen(conn)
}

// listen drains the read side so close frames and pings are handled.
// Clients have nothing to say; anything they send is ignored.
func (h *Hub) listen(conn *websocket.Conn) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("ws read")
			}
			return
		}
	}
}
