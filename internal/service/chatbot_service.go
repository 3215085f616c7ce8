package service

import (
	"context"
	"log/slog"
	"strings"

	"FinAI_Community/internal/pkg"
)

const FallbackAnswer = "Sorry, I could not generate an answer."

type ChatbotService struct {
	answerer Answerer
}

// NewChatbotService answerer 为空时一律返回兜底回答
func NewChatbotService(answerer Answerer) *ChatbotService {
	return &ChatbotService{answerer: answerer}
}

func (s *ChatbotService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", pkg.ValidationError("question required")
	}
	if s.answerer == nil {
		slog.WarnContext(ctx, "chatbot answerer not configured")
		return FallbackAnswer, nil
	}
	answer, err := s.answerer.Answer(ctx, question)
	if err != nil || answer == "" {
		slog.ErrorContext(ctx, "chatbot answer failed", "err", err)
		return FallbackAnswer, nil
	}
	return answer, nil
}
