// Package openai provides an OpenAI-compatible chat completion backend for
// the classifier.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

const (
	provider          = "openai"
	defaultModel      = "gpt-4o-mini"
	defaultMaxRetries = 2
)

type completions interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Generator sends prompts to a chat completion endpoint.
type Generator struct {
	completions completions
	model       string
	logger      *zap.Logger
}

// NewGenerator creates a Generator. baseURL may point at any
// OpenAI-compatible server; empty means the public API. Retries are handled
// by the SDK.
func NewGenerator(apiKey, model, baseURL string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(maxRetries),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)

	return &Generator{
		completions: &client.Chat.Completions,
		model:       model,
		logger:      logger,
	}, nil
}

func (g *Generator) GenerateContent(ctx context.Context, systemPrompt, message string) (string, error) {
	if g == nil || g.completions == nil {
		return "", errors.New("openai generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt = strings.TrimSpace(systemPrompt); systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := g.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.model),
		Messages:    messages,
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if resp == nil {
		return "", errors.New("openai api returned empty response")
	}

	var builder strings.Builder
	for _, choice := range resp.Choices {
		text := strings.TrimSpace(choice.Message.Content)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}

	g.logger.Debug("chat completion finished", zap.Int("choices", len(resp.Choices)))
	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) Provider() string {
	return provider
}
