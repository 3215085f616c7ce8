package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"FinAI_Community/internal/model"
)

type UserBriefer interface {
	Brief(ctx context.Context, userID uint64) (model.UserBrief, error)
}

type ConnServer interface {
	ServeConn(conn *websocket.Conn, user model.UserBrief)
}

type WSHandler struct {
	users    UserBriefer
	hub      ConnServer
	upgrader websocket.Upgrader
}

func NewWSHandler(users UserBriefer, hub ConnServer, origin string) *WSHandler {
	return &WSHandler{
		users: users,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if origin == "*" {
					return true
				}
				o := r.Header.Get("Origin")
				return o == "" || o == origin
			},
		},
	}
}

// Serve 鉴权在升级之前完成，升级后交给 hub
func (h *WSHandler) Serve(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	user, err := h.users.Brief(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "ws upgrade failed", "user_id", userID, "err", err)
		return
	}
	h.hub.ServeConn(conn, user)
}
