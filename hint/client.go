package hint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrUnavailable = errors.New("hint: assistant unavailable")

// Message is one turn of the hint conversation
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Client talks to a chat-completions API to answer learner questions about
// the module they are watching.
type Client struct {
	http     *resty.Client
	apiKey   string
	model    string
	maxTurns int
}

func NewClient(apiURL, apiKey, model string, maxTurns int) *Client {
	client := resty.New().
		SetBaseURL(apiURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     client,
		apiKey:   apiKey,
		model:    model,
		maxTurns: maxTurns,
	}
}

// Complete sends the system prompt, trimmed history and the new user message,
// returning the assistant's reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	// Keep only the most recent turns to bound the request size
	if len(history) > c.maxTurns {
		history = history[len(history)-c.maxTurns:]
	}

	messages := make([]map[string]string, 0, len(history)+2)
	messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	for _, turn := range history {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, map[string]string{"role": role, "content": turn.Content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": userMessage})

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(map[string]interface{}{
			"model":    c.model,
			"messages": messages,
		}).
		Post("")
	if err != nil {
		return "", fmt.Errorf("hint request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, resp.String())
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		return "", fmt.Errorf("invalid hint response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}
