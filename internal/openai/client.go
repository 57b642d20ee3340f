// Package openai is a small client for the OpenAI chat and image REST endpoints.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/metrics"
)

// ErrNoAPIKey is returned when the client has no API key
var ErrNoAPIKey = errors.New("openai: API key not configured")

// StatusError is a non-2xx response from the API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Config configures the client
type Config struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
	Timeout    time.Duration
}

// Client calls the OpenAI REST API. Calls are never retried.
type Client struct {
	apiKey     string
	baseURL    string
	chatModel  string
	imageModel string
	httpClient *http.Client
}

// NewClient creates a new OpenAI client
func NewClient(cfg Config) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Complete sends a system and user prompt and returns the first choice's content
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, jsonOutput bool) (string, error) {
	req := ChatRequest{
		Model: c.chatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}
	if jsonOutput {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
		req.Temperature = 0.1
	}

	var resp chatResponse
	if err := c.post(ctx, "chat", "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("openai: API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no completion returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateImage requests one base64-encoded image
func (c *Client) GenerateImage(ctx context.Context, prompt, size, quality string) (*Image, error) {
	req := ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           size,
		Quality:        quality,
		ResponseFormat: "b64_json",
	}

	var resp imageResponse
	if err := c.post(ctx, "images", "/images/generations", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: API error: %s", resp.Error.Message)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: no image returned")
	}
	return &resp.Data[0], nil
}

func (c *Client) post(ctx context.Context, endpoint, path string, body, out interface{}) (err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		metrics.OpenAIRequests.WithLabelValues(endpoint, status).Inc()
	}()

	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("openai: failed to parse response: %w", err)
	}
	return nil
}
