package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"FinAI_Community/internal/pkg"
)

type NewsService interface {
	Latest(ctx context.Context) ([]pkg.NewsItem, error)
}

type ChatbotService interface {
	Ask(ctx context.Context, question string) (string, error)
}

type NewsHandler struct {
	news NewsService
	bot  ChatbotService
}

type AskReq struct {
	Question string `json:"question"`
}

func NewNewsHandler(news NewsService, bot ChatbotService) *NewsHandler {
	return &NewsHandler{news: news, bot: bot}
}

func (h *NewsHandler) Scrape(c *gin.Context) {
	items, err := h.news.Latest(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "news fetched", items)
}

// Ask 理财问答
func (h *NewsHandler) Ask(c *gin.Context) {
	var req AskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	answer, err := h.bot.Ask(c.Request.Context(), req.Question)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "answer generated", gin.H{"answer": answer})
}
