package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are already filtered by the CORS middleware
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Identity is the authenticated owner of a feed connection.
type Identity struct {
	Email string
	Role  models.Role
}

// Client is a single feed connection.
type Client struct {
	ID    string
	Email string
	Role  models.Role
	hub   *Hub
	conn  *websocket.Conn
	send  chan WSMessage
}

// NewClient creates a client that is not attached to a connection. It is used by
// ServeWs and by tests that read the send queue directly.
func NewClient(hub *Hub, id Identity) *Client {
	return &Client{
		ID:    uuid.New().String(),
		Email: strings.ToLower(strings.TrimSpace(id.Email)),
		Role:  id.Role,
		hub:   hub,
		send:  make(chan WSMessage, 256),
	}
}

// Messages exposes the outgoing queue.
func (c *Client) Messages() <-chan WSMessage {
	return c.send
}

func (c *Client) canSee(ev models.ChangeEvent) bool {
	if c.Role == models.RoleAdmin || ev.StudentEmail == "" {
		return true
	}
	return strings.EqualFold(ev.StudentEmail, c.Email)
}

// ServeWs upgrades the request and runs the client loop. The token is read from the
// "token" query parameter since browsers cannot set headers on websocket requests.
func ServeWs(hub *Hub, logger *zap.Logger, authenticate func(token string) (Identity, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.BadRequest(c, "token required")
			return
		}
		id, err := authenticate(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(hub, id)
		client.conn = conn
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		if msg.Event == "ping" {
			select {
			case c.send <- WSMessage{Event: "pong"}:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
