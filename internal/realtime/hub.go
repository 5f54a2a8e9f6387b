package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Publisher sends change events to other instances.
type Publisher interface {
	Publish(ctx context.Context, ev models.ChangeEvent) error
}

// Subscriber delivers change events published by any instance, this one included.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(models.ChangeEvent)) (cancel func(), err error)
}

// Hub keeps the connected feed clients and routes change events to them.
// Admins receive every event; students receive events about themselves and
// events that concern no particular student (catalog changes).
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	logger  *zap.Logger
	pub     Publisher
}

// NewHub creates a hub. With a nil publisher events are delivered to local clients only.
func NewHub(logger *zap.Logger, pub Publisher) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
		pub:     pub,
	}
}

// Notify implements storage.Notifier. When a publisher is configured the event is only
// published; the subscription started by Listen broadcasts it once on every instance.
func (h *Hub) Notify(ctx context.Context, ev models.ChangeEvent) {
	if h.pub != nil {
		err := h.pub.Publish(ctx, ev)
		if err == nil {
			return
		}
		h.logger.Warn("publish change event failed, delivering locally", zap.String("type", ev.Type), zap.Error(err))
	}
	h.Broadcast(ev)
}

// Listen subscribes to the bridge and broadcasts incoming events until ctx is done.
func (h *Hub) Listen(ctx context.Context, sub Subscriber) error {
	cancel, err := sub.Subscribe(ctx, h.Broadcast)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return nil
}

// Register adds a client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("feed client connected", zap.String("client_id", c.ID), zap.String("role", string(c.Role)))
}

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	h.mu.Unlock()
	h.logger.Debug("feed client disconnected", zap.String("client_id", c.ID))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends ev to every local client allowed to see it.
func (h *Hub) Broadcast(ev models.ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("encode change event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	msg := WSMessage{Event: ev.Type, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.canSee(ev) {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Debug("feed client buffer full, dropping event", zap.String("client_id", c.ID))
		}
	}
}
