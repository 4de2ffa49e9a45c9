package realtime

import (
	"net/http"

	"go-incentive/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub:    hub,
		logger: zap.L().Named("realtime.handler"),
	}
}

// ServeWS upgrades the connection and subscribes the caller to their own
// redemption updates. Auth runs before the upgrade, so the user id is
// always present here.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.serve(&client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	})
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/ws", middleware.AuthMiddleware(), h.ServeWS)
}
