// Package ai talks to the OpenAI-compatible chat completion endpoint that
// writes workout routines.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Error is a failed completion. StatusCode is the upstream HTTP status, or 0
// when no usable response was received.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// Config holds the endpoint, credentials and sampling parameters.
type Config struct {
	URL         string
	Token       string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client sends single-turn prompts to the completion endpoint. There is no
// retry: a failed call is reported to the caller as an *Error.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a completion client.
func NewClient(cfg Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a user message and returns the content of the
// first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", failure(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", failure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", failure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failure(err)
	}
	c.log.Debug("ai completion",
		"model", c.cfg.Model,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode != http.StatusOK {
		return "", &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Error %d: %s", resp.StatusCode, raw),
		}
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return "", failure(err)
	}
	if len(chat.Choices) == 0 {
		return "", &Error{StatusCode: resp.StatusCode, Message: "Respuesta inválida del modelo"}
	}
	return chat.Choices[0].Message.Content, nil
}

func failure(err error) *Error {
	return &Error{Message: "Error al generar ejercicios: " + err.Error()}
}
