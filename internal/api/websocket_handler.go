package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/metrics"
	"github.com/kingrain94/tenant-guard/internal/service/pubsub"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

const (
	websocketReadBufferSize        = 1024
	websocketWriteBufferSize       = 1024
	websocketSendChannelBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  websocketReadBufferSize,
	WriteBufferSize: websocketWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Subscriber is the live fan-out the hub listens on.
type Subscriber interface {
	Subscribe(ctx context.Context, tenantID string, callback func(*dto.AuditEntryResponse)) error
	Unsubscribe(tenantID string)
	Close()
}

// Client is one connected stream. channel is a tenant ID or pubsub.AllTenants.
type Client struct {
	conn    *websocket.Conn
	channel string
	send    chan []byte
}

type WebSocketHandler struct {
	*BaseHandler
	clients        map[*Client]bool
	register       chan *Client
	unregister     chan *Client
	mutex          sync.Mutex
	logger         *logger.Logger
	pubsub         Subscriber
	ctx            context.Context
	cancel         context.CancelFunc
	channelClients map[string]int
}

func NewWebSocketHandler(logger *logger.Logger, pubsub Subscriber) *WebSocketHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketHandler{
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logger:         logger,
		pubsub:         pubsub,
		ctx:            ctx,
		cancel:         cancel,
		channelClients: make(map[string]int),
	}
}

// HandleWebSocket streams the caller's tenant audit entries.
// @Summary Live audit stream
// @Tags    audit
// @Success 101
// @Failure 401 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /audit/stream [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	principal := h.Principal(c)
	if principal == nil || principal.TenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error{Error: "No tenant ID found"})
		return
	}
	h.serve(c, principal.TenantID)
}

// HandleSuperWebSocket streams one tenant, or every tenant when tenant_id is omitted.
// @Summary Live audit stream (superadmin)
// @Tags    super
// @Param   tenant_id query string false "Tenant to follow"
// @Success 101
// @Failure 403 {object} dto.Error
// @Security ApiKeyAuth
// @Router  /super/audit/stream [get]
func (h *WebSocketHandler) HandleSuperWebSocket(c *gin.Context) {
	h.serve(c, c.DefaultQuery("tenant_id", pubsub.AllTenants))
}

func (h *WebSocketHandler) serve(c *gin.Context, channel string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("Failed to upgrade connection for %s: %v", channel, err)
		return
	}

	client := &Client{
		conn:    conn,
		channel: channel,
		send:    make(chan []byte, websocketSendChannelBufferSize),
	}
	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *WebSocketHandler) Start() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.channelClients[client.channel]++
			metrics.ActiveWebSocketClients.Inc()

			// first client on a channel opens the subscription
			if h.channelClients[client.channel] == 1 {
				channel := client.channel
				err := h.pubsub.Subscribe(h.ctx, channel, func(entry *dto.AuditEntryResponse) {
					h.deliver(channel, entry)
				})
				if err != nil {
					h.logger.Errorf("Failed to subscribe to %s: %v", channel, err)
				}
			}
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			h.remove(client)
			h.mutex.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) Stop() {
	h.cancel()
	h.pubsub.Close()
}

// remove must be called with the mutex held.
func (h *WebSocketHandler) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	metrics.ActiveWebSocketClients.Dec()

	h.channelClients[client.channel]--
	if h.channelClients[client.channel] == 0 {
		h.pubsub.Unsubscribe(client.channel)
		delete(h.channelClients, client.channel)
	}
}

// deliver fans an entry out to every client of channel. Slow clients are dropped.
func (h *WebSocketHandler) deliver(channel string, entry *dto.AuditEntryResponse) {
	message, err := json.Marshal(entry)
	if err != nil {
		h.logger.Errorf("Error marshaling audit entry: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.channel != channel {
			continue
		}
		select {
		case client.send <- message:
		default:
			h.remove(client)
		}
	}
}

func (h *WebSocketHandler) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *WebSocketHandler) readPump(client *Client) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("Unexpected close error for %s: %v", client.channel, err)
			}
			return
		}
	}
}
