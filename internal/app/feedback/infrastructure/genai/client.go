package genai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client обертка над Gemini API, реализует infrastructure.TextCompleter
// API-ключ и модель передаются явно при создании, глобального состояния нет
type Client struct {
	client *genai.Client
	model  string
}

// NewClient создает клиент Gemini API
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Complete отправляет промпт и возвращает текст первого кандидата
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI request failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("unexpected response format from GenAI API")
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("unexpected response format from GenAI API")
	}

	return text, nil
}
