package api

import (
	"net/http"
	"sync"

	json "github.com/goccy/go-json"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type liveClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *liveClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans egg lifecycle events out to connected explorer clients. Delivery
// is best-effort: a failed write drops the client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*liveClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*liveClient]struct{})}
}

func NewLiveRoutes(handler *gin.RouterGroup, hub *Hub) {
	handler.GET("/live", hub.handleWebSocket)
}

func (h *Hub) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{conn: conn}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	// The feed is one-way; the read loop only notices the peer going away.
	go func() {
		defer h.drop(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(client *liveClient) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	_ = client.conn.Close()
}

// Publish implements service.EventSink.
func (h *Hub) Publish(ev service.EggEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Logger().Error("failed to marshal egg event", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*liveClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.drop(c)
		}
	}
}
