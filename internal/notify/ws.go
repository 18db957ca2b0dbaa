package notify

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Admin routes are already behind a bearer token.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the request and streams hub events until the client
// goes away. Incoming messages are ignored.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			zap.L().Debug("ws upgrade failed", zap.Error(err))
			return
		}

		welcome := Event{Type: EventWelcome, Data: gin.H{"clients": hub.Stats().Clients + 1}, At: time.Now().UTC()}
		if err := ws.WriteJSON(welcome); err != nil {
			_ = ws.Close()
			return
		}
		if !hub.Join(ws) {
			return
		}
		zap.L().Info("ws client connected", zap.String("remote", c.ClientIP()))

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Leave(ws)
		zap.L().Info("ws client disconnected", zap.String("remote", c.ClientIP()))
	}
}

func StatsHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Stats())
	}
}
