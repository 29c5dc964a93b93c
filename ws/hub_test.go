package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"frontdesk/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub()
	go h.Run(ctx)

	r := gin.New()
	r.GET("/ws", h.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsToEveryClient(t *testing.T) {
	h, url := startHub(t)
	a, b := dial(t, url), dial(t, url)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	e := events.New(events.TableUpdated, "table", "t-1", map[string]string{"status": "occupied"})
	require.NoError(t, h.Publish(context.Background(), e))

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got events.Event
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, events.TableUpdated, got.Type)
		assert.Equal(t, "t-1", got.ID)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishDoesNotBlockWithoutRun(t *testing.T) {
	h := NewHub()
	for i := 0; i < cap(h.broadcast); i++ {
		require.NoError(t, h.Publish(context.Background(), events.New(events.MenuChanged, "menu", "", nil)))
	}
	assert.ErrorIs(t, h.Publish(context.Background(), events.New(events.MenuChanged, "menu", "", nil)), ErrHubBusy)
}
