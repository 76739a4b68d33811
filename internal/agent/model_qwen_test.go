package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQwenChatModel_NoAPIKey(t *testing.T) {
	_, err := NewQwenChatModel(" ", "", "")
	assert.Error(t, err)
}

func TestQwenChatModel_Generate(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"qwen-plus","choices":[{"index":0,"message":{"role":"assistant","content":"{\"name\":\"Jane\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	q, err := NewQwenChatModel("test-key", "", srv.URL, WithQwenTemperature(0.1))
	require.NoError(t, err)

	msg, err := q.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("extract"),
		schema.UserMessage("Jane Doe"),
	}, model.WithModel("qwen-max"))
	require.NoError(t, err)

	assert.Equal(t, `{"name":"Jane"}`, msg.Content)
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, 15, msg.ResponseMeta.Usage.TotalTokens)

	assert.Equal(t, "qwen-max", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Jane Doe", got.Messages[1].Content)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.1, *got.Temperature, 1e-6)
}

func TestQwenChatModel_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	q, err := NewQwenChatModel("k", "", srv.URL)
	require.NoError(t, err)

	_, err = q.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestQwenChatModel_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	q, err := NewQwenChatModel("k", "", srv.URL)
	require.NoError(t, err)

	sr, err := q.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	defer sr.Close()
	msg, err := sr.Recv()
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
}

func TestMockChatModel_Sequential(t *testing.T) {
	m := NewMockChatModelSequential([]MockResponse{{Error: assert.AnError}, {Content: "second"}})

	_, err := m.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, assert.AnError)
	msg, err := m.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", msg.Content)
	msg, err = m.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", msg.Content)
	assert.Equal(t, 3, m.Calls())
}

func TestNewGeminiChatModel_NoAPIKey(t *testing.T) {
	_, err := NewGeminiChatModel(context.Background(), "", "", zerolog.Nop())
	assert.Error(t, err)
}
