package pkg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const advisorPrompt = `You are a financial advisor providing clear, actionable advice on financial topics. ` +
	`Offer practical steps, relevant examples and strategic insights in simple terms, ` +
	`keep the answer around 300 words and present it as structured bullet points.`

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAIAnswerer struct {
	client openai.Client
	model  string
}

func NewOpenAIAnswerer(cfg LLMConfig) (*OpenAIAnswerer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAnswerer{client: openai.NewClient(opts...), model: model}, nil
}

func (a *OpenAIAnswerer) Answer(ctx context.Context, question string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(advisorPrompt),
			openai.UserMessage(question),
		},
		MaxTokens:   openai.Int(1024),
		Temperature: openai.Float(1),
		TopP:        openai.Float(0.95),
	}

	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	slog.DebugContext(ctx, "llm answer completed",
		"model", a.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
