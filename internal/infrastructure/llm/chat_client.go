// Package llm calls an OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medguide/config"
	"medguide/internal/domain/entity"
	"medguide/internal/infrastructure/httpjson"
)

type ChatClient struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewChatClient(cfg config.LLMConfig, client *http.Client) *ChatClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatClient{
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      client,
	}
}

func (c *ChatClient) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	req := completionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    make([]chatMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	header := http.Header{}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	var out completionResponse
	if err := httpjson.Do(ctx, c.client, http.MethodPost, c.endpoint, header, req, &out); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
