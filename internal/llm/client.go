package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn of a conversation in the wire format the inference
// endpoint expects. Only role and content travel; anything else the caller
// tracked is dropped.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to a local OpenAI-compatible chat-completions endpoint
// (Ollama, llama.cpp server, vLLM).
type Client struct {
	endpointURL string
	model       string
	httpClient  *http.Client
}

// NewClient builds a client for the configured endpoint. The generous timeout
// covers slow local inference on CPU.
func NewClient(endpointURL, model string) *Client {
	return &Client{
		endpointURL: endpointURL,
		model:       model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the full message list and returns the assistant's reply.
// model overrides the configured default when non-empty.
func (c *Client) Complete(ctx context.Context, messages []Message, model string) (string, error) {
	if model == "" {
		model = c.model
	}

	body := chatRequest{
		Model:    model,
		Messages: messages,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	const maxBodyBytes = 10 * 1024 * 1024 // 10 MiB
	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBytes, &cr); err != nil {
		return "", fmt.Errorf("parsing response JSON (HTTP %d, body: %s): %w", resp.StatusCode, truncate(string(respBytes), 200), err)
	}

	if resp.StatusCode != http.StatusOK {
		if cr.Error != nil {
			return "", fmt.Errorf("inference: %s: %s", cr.Error.Type, cr.Error.Message)
		}
		return "", fmt.Errorf("inference: HTTP %d: %s", resp.StatusCode, truncate(string(respBytes), 200))
	}

	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("inference: empty choices in response")
	}

	return cr.Choices[0].Message.Content, nil
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
