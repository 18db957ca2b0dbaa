package notify

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// startServer returns the websocket URL and a stop func. Callers defer stop
// so it runs before goleak checks for stray goroutines.
func startServer(hub *Hub) (string, func()) {
	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(r)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", srv.Close
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, ws.ReadJSON(&ev))
	return ev
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Stats().Clients == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDeliversEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(0)
	url, stop := startServer(hub)
	defer stop()

	a := dial(t, url)
	b := dial(t, url)
	assert.Equal(t, EventWelcome, readEvent(t, a).Type)
	assert.Equal(t, EventWelcome, readEvent(t, b).Type)
	waitClients(t, hub, 2)

	hub.Publish(EventBookingCreated, map[string]string{"id": "b1"})

	for _, ws := range []*websocket.Conn{a, b} {
		ev := readEvent(t, ws)
		assert.Equal(t, EventBookingCreated, ev.Type)
		assert.Equal(t, map[string]any{"id": "b1"}, ev.Data)
		assert.False(t, ev.At.IsZero())
	}

	require.NoError(t, a.Close())
	waitClients(t, hub, 1)

	hub.Close()
	require.NoError(t, b.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err, "close disconnects remaining clients")
	_ = b.Close()

	stats := hub.Stats()
	assert.Equal(t, 0, stats.Clients)
	assert.Equal(t, 1, stats.Broadcast)
}

func TestHubReplaysBacklog(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(2)
	hub.Publish(EventBookingCreated, map[string]string{"id": "old"})
	hub.Publish(EventBookingCreated, map[string]string{"id": "b1"})
	hub.Publish(EventBookingUpdated, map[string]string{"id": "b1"})
	assert.Equal(t, 2, hub.Stats().History)

	url, stop := startServer(hub)
	defer stop()
	ws := dial(t, url)
	defer ws.Close()

	assert.Equal(t, EventWelcome, readEvent(t, ws).Type)
	first := readEvent(t, ws)
	second := readEvent(t, ws)
	assert.Equal(t, EventBookingCreated, first.Type)
	assert.Equal(t, map[string]any{"id": "b1"}, first.Data)
	assert.Equal(t, EventBookingUpdated, second.Type)

	hub.Close()
}

func TestClosedHubRejectsClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(0)
	hub.Close()
	hub.Publish(EventBookingCreated, nil)
	assert.Equal(t, 0, hub.Stats().Broadcast)

	url, stop := startServer(hub)
	defer stop()
	ws := dial(t, url)
	defer ws.Close()

	assert.Equal(t, EventWelcome, readEvent(t, ws).Type)
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	assert.Error(t, err)
}

func TestStatsHandler(t *testing.T) {
	hub := NewHub(0)
	hub.Publish(EventContentReload, nil)

	r := gin.New()
	r.GET("/stats", StatsHandler(hub))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"clients":0,"broadcast":1,"history":1}`, w.Body.String())
}
