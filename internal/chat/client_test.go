// File: internal/chat/client_test.go
package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(endpoint string) *Client {
	return NewClient(Options{
		Endpoint:    endpoint,
		Model:       "qwen3-vl-8b-instruct",
		Timeout:     5 * time.Second,
		Temperature: 0.6,
		MaxTokens:   2048,
	}, zap.NewNop())
}

func TestCompleteSendsExpectedRequest(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	msg, err := client.Complete(context.Background(),
		[]Message{
			{Role: RoleSystem, Content: Text("system prompt")},
			{Role: RoleUser, Content: Text("task")},
		},
		[]Tool{{Type: "function", Function: Function{Name: "observe_screen"}}},
	)
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "hi", msg.Content.Text)

	assert.Equal(t, "qwen3-vl-8b-instruct", captured["model"])
	assert.Equal(t, "auto", captured["tool_choice"])
	assert.InDelta(t, 0.6, captured["temperature"].(float64), 1e-9)
	assert.EqualValues(t, 2048, captured["max_tokens"])
	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
	toolsField, ok := captured["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, toolsField, 1)
}

func TestCompleteDecodesToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{
			"role":"assistant",
			"content":null,
			"tool_calls":[{"id":"call-7","type":"function","function":{"name":"click_element","arguments":"{\"label\":\"OK\",\"box\":[500,500]}"}}]
		}}]}`))
	}))
	defer srv.Close()

	msg, err := newTestClient(srv.URL).Complete(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.False(t, msg.Content.IsText(), "null content must not read as text")
	require.Len(t, msg.ToolCalls, 1)
	tc := msg.ToolCalls[0]
	assert.Equal(t, "call-7", tc.ID)
	assert.Equal(t, "click_element", tc.Function.Name)

	// The wire carries arguments as a JSON-encoded string; unwrap it the way
	// the dispatcher does before decoding the object.
	var encoded string
	require.NoError(t, json.Unmarshal(tc.Function.Arguments, &encoded))
	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &args))
	assert.Equal(t, "OK", args["label"])
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestClient(srv.URL).Complete(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestCompleteMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": nonsense`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).Complete(ctx, nil, nil)
	assert.Error(t, err)
}
