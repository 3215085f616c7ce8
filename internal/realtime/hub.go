package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"FinAI_Community/internal/metrics"
	"FinAI_Community/internal/model"
)

const (
	EventJoinCommunity  = "joinCommunity"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventError          = "error"
)

// Frame 收发统一的 {event, data} 信封
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// RoomChecker 加入房间前确认社区存在，由 CommunityRepository 实现
type RoomChecker interface {
	FindByID(ctx context.Context, id uint64) (*model.Community, error)
}

type Options struct {
	RatePerSec float64
	Burst      int
	QueueSize  int
	Rooms      RoomChecker
}

// Hub 维护房间到连接的映射；rooms/clients 以及 Client.rooms、Client.closed 都由 mu 保护
type Hub struct {
	mu      sync.RWMutex
	rooms   map[uint64]map[*Client]struct{}
	clients map[*Client]struct{}

	limit     rate.Limit
	burst     int
	queueSize int
	checker   RoomChecker
}

func NewHub(opts Options) *Hub {
	limit := rate.Limit(opts.RatePerSec)
	if opts.RatePerSec <= 0 {
		limit = rate.Inf
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	return &Hub{
		rooms:     make(map[uint64]map[*Client]struct{}),
		clients:   make(map[*Client]struct{}),
		limit:     limit,
		burst:     opts.Burst,
		queueSize: opts.QueueSize,
		checker:   opts.Rooms,
	}
}

// ServeConn 阻塞直到连接断开
func (h *Hub) ServeConn(conn *websocket.Conn, user model.UserBrief) {
	c := &Client{
		id:      uuid.NewString(),
		hub:     h,
		conn:    conn,
		user:    user,
		send:    make(chan []byte, h.queueSize),
		limiter: rate.NewLimiter(h.limit, h.burst),
		rooms:   make(map[uint64]struct{}),
	}
	h.register(c)
	slog.Debug("ws connected", "conn_id", c.id, "user_id", user.ID)

	go c.writePump()
	c.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.WSConnections.Inc()
}

// Join 重复加入同一房间无副作用
func (h *Hub) Join(c *Client, room uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return false
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
	return true
}

// Remove 断开时退出全部房间并关闭发送队列
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	delete(h.clients, c)
	c.rooms = nil
	c.closed = true
	close(c.send)
	metrics.WSConnections.Dec()
}

// Publish 广播到消息所属社区，返回投递成功的连接数
func (h *Hub) Publish(msg *model.Message) int {
	frame, err := json.Marshal(Frame{Event: EventReceiveMessage, Data: msg})
	if err != nil {
		slog.Error("encode ws frame failed", "err", err)
		return 0
	}
	return h.Broadcast(msg.CommunityID, frame)
}

// Broadcast 队列满的连接直接丢弃这一帧，不阻塞其他连接
func (h *Hub) Broadcast(room uint64, frame []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.rooms[room] {
		select {
		case c.send <- frame:
			delivered++
			metrics.WSFrames.WithLabelValues("delivered").Inc()
		default:
			metrics.WSFrames.WithLabelValues("dropped").Inc()
			slog.Debug("ws frame dropped", "conn_id", c.id, "room", room)
		}
	}
	return delivered
}

func (h *Hub) sendTo(c *Client, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		metrics.WSFrames.WithLabelValues("dropped").Inc()
		return false
	}
}

func (h *Hub) RoomSize(room uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
