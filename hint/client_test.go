package hint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Try checking the gas limit."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini", 10)

	history := []Message{
		{Role: "user", Content: "What is gas?"},
		{Role: "assistant", Content: "Gas is the execution fee."},
	}
	reply, err := client.Complete(context.Background(), "You are a tutor.", history, "Why does my tx fail?")
	require.NoError(t, err)
	assert.Equal(t, "Try checking the gas limit.", reply)

	// system prompt first, history in order, new question last
	require.Len(t, gotBody.Messages, 4)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "assistant", gotBody.Messages[2].Role)
	assert.Equal(t, "Why does my tx fail?", gotBody.Messages[3].Content)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
}

func TestCompleteTrimsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// system + 2 kept turns + user message
		assert.Len(t, body.Messages, 4)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini", 2)

	history := make([]Message, 8)
	for i := range history {
		history[i] = Message{Role: "user", Content: "turn"}
	}
	_, err := client.Complete(context.Background(), "system", history, "question")
	require.NoError(t, err)
}

func TestCompleteWithoutApiKey(t *testing.T) {
	client := NewClient("http://unused", "", "gpt-4o-mini", 10)
	_, err := client.Complete(context.Background(), "system", nil, "question")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gpt-4o-mini", 10)
	_, err := client.Complete(context.Background(), "system", nil, "question")
	require.ErrorIs(t, err, ErrUnavailable)
}
