package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/richxcame/chat-relay/pkg/common"
	ws "github.com/richxcame/chat-relay/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Identity is an opaque user id, not a credential; cross-origin
		// connects are allowed.
		return true
	},
}

// Handler exposes the relay over HTTP: the websocket upgrade endpoint and a
// small stats surface.
type Handler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

// NewHandler creates the HTTP handler for an already-wired hub.
func NewHandler(hub *ws.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleWebSocket upgrades the connection and starts the client's pumps.
// The userId query parameter is the only identity mechanism; absent ids get
// a generated fallback.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if !websocket.IsWebSocketUpgrade(c.Request) {
		appErr := common.NewBadRequestError("websocket upgrade required")
		common.ErrorResponse(c, appErr.Code, appErr.Message)
		return
	}

	userID := c.Query("userId")
	if userID == "" {
		userID = "user-" + uuid.New().String()[:8]
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return
	}

	client := ws.NewClient(conn, h.hub, userID, h.logger)
	h.hub.Register <- client
	connectedClients.Inc()

	h.logger.Info("client connected",
		zap.String("client_id", client.ID),
		zap.String("user_id", userID),
	)

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns connection and conversation counts.
func (h *Handler) GetStats(c *gin.Context) {
	common.SuccessResponse(c, gin.H{
		"connected_clients":    h.hub.GetClientCount(),
		"active_conversations": h.hub.GetConversationCount(),
	})
}
