// File: internal/chat/client.go
package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Client talks to an OpenAI-compatible chat-completions endpoint, such as a
// locally hosted vision model. Transport faults, non-2xx statuses and
// malformed top-level responses are returned as errors; callers treat them as
// fatal for the run, there is no retry.
type Client struct {
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *zap.Logger
	exchange    *ExchangeLog
}

// Options configures a Client.
type Options struct {
	Endpoint    string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
	// Exchange, when non-nil, receives a readable record of every
	// request/response pair.
	Exchange *ExchangeLog
}

// Request is the chat-completions request payload.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	ToolChoice  string    `json:"tool_choice,omitempty"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Response is the subset of the chat-completions response the loop consumes.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice wraps one generated assistant message.
type Choice struct {
	Message Message `json:"message"`
}

// NewClient builds a Client. The timeout bounds the whole request including
// body read.
func NewClient(opts Options, logger *zap.Logger) *Client {
	return &Client{
		endpoint:    opts.Endpoint,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		logger:      logger.Named("chat"),
		exchange:    opts.Exchange,
	}
}

// Complete sends the transcript and tool schema to the model and returns the
// generated assistant message. Tool choice is always "auto": the model
// decides between answering and acting.
func (c *Client) Complete(ctx context.Context, messages []Message, tools []Tool) (Message, error) {
	req := Request{
		Model:       c.model,
		Messages:    messages,
		Tools:       tools,
		ToolChoice:  "auto",
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	c.exchange.LogRequest(req)

	body, err := json.Marshal(req)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Message{}, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Model endpoint returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return Message{}, fmt.Errorf("chat endpoint returned status %d: %s", resp.StatusCode, respBody)
	}
	c.exchange.LogResponse(respBody)

	var payload Response
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return Message{}, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return Message{}, fmt.Errorf("chat response contains no choices")
	}

	msg := payload.Choices[0].Message
	c.logger.Debug("Model turn complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("tool_calls", len(msg.ToolCalls)))
	return msg, nil
}
