package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/model"
)

type MessageService interface {
	PostMessage(ctx context.Context, communityID, senderID uint64, content string) (*model.Message, error)
	ListMessages(ctx context.Context, communityID uint64) ([]model.Message, error)
}

type MessageHandler struct {
	svc MessageService
}

type SendMessageReq struct {
	Content string `json:"content"`
}

func NewMessageHandler(svc MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send 落库后广播给社区内的实时连接
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return
	}
	communityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	msg, err := h.svc.PostMessage(c.Request.Context(), communityID, userID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "message sent", msg)
}

func (h *MessageHandler) List(c *gin.Context) {
	communityID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListMessages(c.Request.Context(), communityID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "messages fetched", list)
}
