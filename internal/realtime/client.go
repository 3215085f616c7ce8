package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	user    model.UserBrief
	send    chan []byte
	limiter *rate.Limiter

	rooms  map[uint64]struct{}
	closed bool
}

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type sendPayload struct {
	ID          json.RawMessage `json:"id"`
	CommunityID json.RawMessage `json:"communityId"`
	Content     string          `json:"content"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		_ = c.conn.Close()
		slog.Debug("ws disconnected", "conn_id", c.id, "user_id", c.user.ID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("ws read failed", "conn_id", c.id, "err", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.sendError("rate limit exceeded")
			continue
		}
		var in inbound
		if err = json.Unmarshal(raw, &in); err != nil {
			c.sendError("malformed frame")
			continue
		}
		c.dispatch(in)
	}
}

func (c *Client) dispatch(in inbound) {
	switch in.Event {
	case EventJoinCommunity:
		c.handleJoin(in.Data)
	case EventSendMessage:
		c.handleSend(in.Data)
	default:
		c.sendError("unknown event " + in.Event)
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	room, ok := parseID(data)
	if !ok {
		c.sendError("invalid community id")
		return
	}
	if c.hub.checker != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := c.hub.checker.FindByID(ctx, room); err != nil {
			if pkg.IsNotFound(err) {
				c.sendError("community not found")
			} else {
				slog.Error("ws join lookup failed", "room", room, "err", err)
				c.sendError("internal server error")
			}
			return
		}
	}
	c.hub.Join(c, room)
}

// handleSend 只做转发不落库，发送者以连接身份为准
func (c *Client) handleSend(data json.RawMessage) {
	var m sendPayload
	if err := json.Unmarshal(data, &m); err != nil {
		c.sendError("invalid message")
		return
	}
	room, ok := parseID(m.CommunityID)
	if !ok {
		c.sendError("invalid community id")
		return
	}
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		c.sendError("message content required")
		return
	}
	msgID, _ := parseID(m.ID)
	msg := &model.Message{
		ID:          msgID,
		CommunityID: room,
		SenderID:    c.user.ID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
	if msg.ID == 0 {
		msg.ID = pkg.NewID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	sender := c.user
	msg.Sender = &sender
	c.hub.Publish(msg)
}

func (c *Client) sendError(text string) {
	frame, _ := json.Marshal(Frame{Event: EventError, Data: text})
	c.hub.sendTo(c, frame)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// parseID id 可以是数字，也可以是数字字符串
func parseID(data json.RawMessage) (uint64, bool) {
	if len(data) == 0 {
		return 0, false
	}
	var id uint64
	if err := json.Unmarshal(data, &id); err == nil && id > 0 {
		return id, true
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
