package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/layerfarm/pkg/clients/completion"
)

const (
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 2048
)

// Client calls the Anthropic messages API.
type Client struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a configured Anthropic client. baseURL is the API root,
// for example https://api.anthropic.com/v1.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(timeout)

	return &Client{httpClient: client, model: model}
}

type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the prompt and returns the model's text. The assistant turn
// is prefilled with an opening brace so the answer starts as a JSON object.
func (c *Client) Complete(ctx context.Context, req completion.Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := messageRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages: []Message{
			{Role: "user", Content: req.Prompt},
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}

	var text strings.Builder
	for _, block := range respBody.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", completion.ErrEmptyResponse
	}

	// Reconstruct the full JSON since we prefilled the opening brace.
	return "{" + text.String(), nil
}
