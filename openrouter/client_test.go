package openrouter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doneBody = "data: [DONE]\n\n"

func TestClient_RequestFormat(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("HTTP-Referer"))
		assert.Empty(t, r.Header.Get("X-Title"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doneBody))
	}))
	defer srv.Close()

	client := openrouter.New("test-api-key", openrouter.WithBaseURL(srv.URL+"/"))
	s, err := client.Stream(context.Background(), chat.Request{
		Model: "openai/gpt-4o",
		Messages: []chat.Message{
			{ID: "1", Role: chat.RoleAssistant, Content: "Hello!"},
			{ID: "2", Role: chat.RoleUser, Content: "Hi"},
			{ID: "3", Role: chat.RoleAssistant, Content: "", Streaming: true, Thinking: "hmm"},
		},
	})
	require.NoError(t, err)
	defer s.Close()

	var body map[string]any
	require.NoError(t, json.Unmarshal(captured, &body))

	assert.Len(t, body, 3, "body carries only model, messages and stream")
	assert.Equal(t, "openai/gpt-4o", body["model"])
	assert.Equal(t, true, body["stream"])

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 3)
	assert.Equal(t, map[string]any{"role": "assistant", "content": "Hello!"}, msgs[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "Hi"}, msgs[1])
	assert.Equal(t, map[string]any{"role": "assistant", "content": ""}, msgs[2])
}

func TestClient_DefaultModel(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(doneBody))
	}))
	defer srv.Close()

	client := openrouter.New("k", openrouter.WithBaseURL(srv.URL))
	s, err := client.Stream(context.Background(), chat.Request{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hi"}},
	})
	require.NoError(t, err)
	defer s.Close()

	var body map[string]any
	require.NoError(t, json.Unmarshal(captured, &body))
	assert.Equal(t, "qwen/qwen3-235b-a22b", body["model"])
}

func TestClient_AttributionHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "chat", r.Header.Get("X-Title"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(doneBody))
	}))
	defer srv.Close()

	client := openrouter.New("k",
		openrouter.WithBaseURL(srv.URL),
		openrouter.WithReferer("https://example.com"),
		openrouter.WithTitle("chat"),
	)
	s, err := client.Stream(context.Background(), chat.Request{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hi"}},
	})
	require.NoError(t, err)
	s.Close()
}

func TestClient_EmptyConversation(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := openrouter.New("k", openrouter.WithBaseURL(srv.URL))
	_, err := client.Stream(context.Background(), chat.Request{})
	assert.ErrorIs(t, err, chat.ErrValidation)
	assert.False(t, called)
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	t.Run("JSON error body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
		}))
		defer srv.Close()

		client := openrouter.New("bad", openrouter.WithBaseURL(srv.URL))
		_, err := client.Stream(context.Background(), chat.Request{
			Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hi"}},
		})
		var te *chat.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
		assert.Equal(t, "No auth credentials found", te.Message)
		assert.Contains(t, err.Error(), "HTTP 401")
	})

	t.Run("plain body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := openrouter.New("k", openrouter.WithBaseURL(srv.URL))
		_, err := client.Stream(context.Background(), chat.Request{
			Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hi"}},
		})
		var te *chat.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
		assert.Equal(t, "upstream exploded", te.Message)
	})
}

func TestClient_ConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := openrouter.New("k", openrouter.WithBaseURL(url))
	_, err := client.Stream(context.Background(), chat.Request{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hi"}},
	})
	var te *chat.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.Error(t, te.Unwrap())
}

func TestClient_CanceledBeforeResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := openrouter.New("k", openrouter.WithBaseURL(srv.URL))
	_, err := client.Stream(ctx, chat.Request{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "Hi"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	var te *chat.TransportError
	assert.False(t, errors.As(err, &te))
}
